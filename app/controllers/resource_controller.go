package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/apierror"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/attachment"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/marketplace"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
)

// Resources is the part of the marketplace client the gateway serves.
type Resources interface {
	ListEntity(ctx context.Context, kind string) (*marketplace.ListResult, error)
	GetEntity(ctx context.Context, kind, id string) (*marketplace.RecordResult, error)
	CreateEntity(ctx context.Context, kind string, p marketplace.Payload) (*marketplace.RecordResult, error)
	UpdateEntity(ctx context.Context, kind, id string, p marketplace.Payload) (*marketplace.RecordResult, error)
	DeleteEntity(ctx context.Context, kind, id string) error
	ListSellers(ctx context.Context) (*marketplace.ListResult, error)
	GetSeller(ctx context.Context, id string) (*marketplace.RecordResult, error)
	ListSellerProducts(ctx context.Context) (*marketplace.ListResult, error)
	ListSellerOrders(ctx context.Context) (*marketplace.ListResult, error)
}

// ResourceController exposes Resources as JSON endpoints for the admin UI.
type ResourceController struct {
	resources Resources
}

func NewResourceController(resources Resources) *ResourceController {
	return &ResourceController{resources: resources}
}

func (rc *ResourceController) HandlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (rc *ResourceController) HandleListSellers(c *fiber.Ctx) error {
	res, err := rc.resources.ListSellers(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, res)
}

func (rc *ResourceController) HandleGetSeller(c *fiber.Ctx) error {
	res, err := rc.resources.GetSeller(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return writeRecord(c, fiber.StatusOK, res)
}

func (rc *ResourceController) HandleSellerProducts(c *fiber.Ctx) error {
	res, err := rc.resources.ListSellerProducts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, res)
}

func (rc *ResourceController) HandleSellerOrders(c *fiber.Ctx) error {
	res, err := rc.resources.ListSellerOrders(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, res)
}

func (rc *ResourceController) HandleList(c *fiber.Ctx) error {
	res, err := rc.resources.ListEntity(c.UserContext(), c.Params("kind"))
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, res)
}

func (rc *ResourceController) HandleGet(c *fiber.Ctx) error {
	res, err := rc.resources.GetEntity(c.UserContext(), c.Params("kind"), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return writeRecord(c, fiber.StatusOK, res)
}

func (rc *ResourceController) HandleCreate(c *fiber.Ctx) error {
	payload, err := bindPayload(c, c.Params("kind"))
	if err != nil {
		return writeError(c, err)
	}
	res, err := rc.resources.CreateEntity(c.UserContext(), c.Params("kind"), payload)
	if err != nil {
		return writeError(c, err)
	}
	return writeRecord(c, fiber.StatusCreated, res)
}

func (rc *ResourceController) HandleUpdate(c *fiber.Ctx) error {
	payload, err := bindPayload(c, c.Params("kind"))
	if err != nil {
		return writeError(c, err)
	}
	res, err := rc.resources.UpdateEntity(c.UserContext(), c.Params("kind"), c.Params("id"), payload)
	if err != nil {
		return writeError(c, err)
	}
	return writeRecord(c, fiber.StatusOK, res)
}

func (rc *ResourceController) HandleDelete(c *fiber.Ctx) error {
	if err := rc.resources.DeleteEntity(c.UserContext(), c.Params("kind"), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// bindPayload binds a JSON or multipart body into the input model of kind.
// Uploaded files become attachments under their form field name.
func bindPayload(c *fiber.Ctx, kind string) (marketplace.Payload, error) {
	e, err := marketplace.Lookup(kind)
	if err != nil {
		return marketplace.Payload{}, err
	}
	input := e.NewInput()
	if len(c.Body()) > 0 {
		if err := parseBody(c, input); err != nil {
			return marketplace.Payload{}, apierror.NewValidationError("body", "could not be parsed: "+err.Error())
		}
	}

	payload := marketplace.Payload{Data: input}
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return payload, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return marketplace.Payload{}, apierror.NewValidationError("body", "could not be parsed: "+err.Error())
	}
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		for _, fh := range form.File[field] {
			f, err := readUpload(field, fh)
			if err != nil {
				return marketplace.Payload{}, err
			}
			payload.Files = append(payload.Files, f)
		}
	}
	return payload, nil
}

// parseBody binds the request body. JSON numbers and booleans are accepted
// for the string fields of the input models.
func parseBody(c *fiber.Ctx, input any) error {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return c.BodyParser(input)
	}
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	for k, v := range fields {
		switch v.(type) {
		case json.Number, bool:
			fields[k], _ = normalize.Stringify(v)
		}
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return c.App().Config().JSONDecoder(body, input)
}

func readUpload(field string, fh *multipart.FileHeader) (attachment.File, error) {
	if fh.Size > attachment.MaxFileSize {
		return attachment.File{}, apierror.NewValidationError(field, "file is too large")
	}
	src, err := fh.Open()
	if err != nil {
		return attachment.File{}, err
	}
	defer src.Close()
	return attachment.Read(field, fh.Filename, fh.Header.Get(fiber.HeaderContentType), src)
}

func writeList(c *fiber.Ctx, res *marketplace.ListResult) error {
	body := fiber.Map{"kind": res.Kind, "items": res.Items}
	if res.Warning != nil {
		body["warning"] = apierror.UserMessage(res.Warning)
	}
	return c.JSON(body)
}

func writeRecord(c *fiber.Ctx, status int, res *marketplace.RecordResult) error {
	body := fiber.Map{"kind": res.Kind, "data": res.Item}
	if res.Warning != nil {
		body["warning"] = apierror.UserMessage(res.Warning)
	}
	return c.Status(status).JSON(body)
}

const unknownKind = "unknown_kind"

// writeError maps a resource error onto the gateway status codes.
func writeError(c *fiber.Ctx, err error) error {
	status, kind := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Errorf("[Gateway] %s %s: %v", c.Method(), c.OriginalURL(), err)
	} else {
		log.Debugf("[Gateway] %s %s: %v", c.Method(), c.OriginalURL(), err)
	}
	msg := apierror.UserMessage(err)
	if kind == unknownKind {
		msg = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{"error": kind, "message": msg})
}

func errorStatus(err error) (int, string) {
	var (
		unknown *marketplace.UnknownKindError
		failed  *apierror.RequestFailedError
	)
	if errors.As(err, &unknown) {
		return fiber.StatusNotFound, unknownKind
	}
	kind := apierror.KindOf(err)
	switch kind {
	case apierror.KindValidation:
		return fiber.StatusUnprocessableEntity, string(kind)
	case apierror.KindRouteNotFound:
		return fiber.StatusNotFound, string(kind)
	case apierror.KindRequestFailed:
		errors.As(err, &failed)
		if failed.StatusCode == 0 || failed.StatusCode >= fiber.StatusInternalServerError {
			return fiber.StatusBadGateway, string(kind)
		}
		return failed.StatusCode, string(kind)
	default:
		return fiber.StatusInternalServerError, string(apierror.KindUnknown)
	}
}
