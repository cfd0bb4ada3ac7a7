package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/SellerDesk/app/models"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/apierror"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/marketplace"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
)

type fakeResources struct {
	err     error
	list    *marketplace.ListResult
	record  *marketplace.RecordResult
	payload marketplace.Payload
	kind    string
	id      string
	deleted bool
}

func (f *fakeResources) ListEntity(_ context.Context, kind string) (*marketplace.ListResult, error) {
	f.kind = kind
	return f.list, f.err
}

func (f *fakeResources) GetEntity(_ context.Context, kind, id string) (*marketplace.RecordResult, error) {
	f.kind, f.id = kind, id
	return f.record, f.err
}

func (f *fakeResources) CreateEntity(_ context.Context, kind string, p marketplace.Payload) (*marketplace.RecordResult, error) {
	f.kind, f.payload = kind, p
	return f.record, f.err
}

func (f *fakeResources) UpdateEntity(_ context.Context, kind, id string, p marketplace.Payload) (*marketplace.RecordResult, error) {
	f.kind, f.id, f.payload = kind, id, p
	return f.record, f.err
}

func (f *fakeResources) DeleteEntity(_ context.Context, kind, id string) error {
	f.kind, f.id, f.deleted = kind, id, f.err == nil
	return f.err
}

func (f *fakeResources) ListSellers(context.Context) (*marketplace.ListResult, error) {
	f.kind = string(marketplace.KindSellers)
	return f.list, f.err
}

func (f *fakeResources) GetSeller(_ context.Context, id string) (*marketplace.RecordResult, error) {
	f.kind, f.id = string(marketplace.KindSellers), id
	return f.record, f.err
}

func (f *fakeResources) ListSellerProducts(context.Context) (*marketplace.ListResult, error) {
	f.kind = "seller-products"
	return f.list, f.err
}

func (f *fakeResources) ListSellerOrders(context.Context) (*marketplace.ListResult, error) {
	f.kind = "seller-orders"
	return f.list, f.err
}

func newTestApp(res Resources) *fiber.App {
	app := fiber.New()
	rc := NewResourceController(res)
	v1 := app.Group("/api/v1")
	v1.Get("/ping", rc.HandlePing)
	v1.Get("/sellers", rc.HandleListSellers)
	v1.Get("/sellers/:id", rc.HandleGetSeller)
	v1.Get("/seller/products", rc.HandleSellerProducts)
	v1.Get("/seller/orders", rc.HandleSellerOrders)
	v1.Get("/:kind", rc.HandleList)
	v1.Get("/:kind/:id", rc.HandleGet)
	v1.Post("/:kind", rc.HandleCreate)
	v1.Patch("/:kind/:id", rc.HandleUpdate)
	v1.Delete("/:kind/:id", rc.HandleDelete)
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHandlePing(t *testing.T) {
	app := newTestApp(&fakeResources{})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeBody(t, resp.Body)["status"])
}

func TestHandleList(t *testing.T) {
	res := &fakeResources{list: &marketplace.ListResult{
		Kind:  marketplace.KindColors,
		Items: []marketplace.Item{{Record: normalize.Record{"id": "1", "name": "Red"}}},
	}}
	app := newTestApp(res)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/colors", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "colors", res.kind)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "colors", body["kind"])
	assert.Len(t, body["items"], 1)
	assert.NotContains(t, body, "warning")
}

func TestHandleList_Warning(t *testing.T) {
	res := &fakeResources{list: &marketplace.ListResult{
		Kind:    marketplace.KindFAQs,
		Items:   []marketplace.Item{{Record: normalize.Record{"raw": "<html>"}}},
		Warning: &apierror.MalformedResponseError{URL: "http://backend.test/faqs"},
	}}
	resp, err := newTestApp(res).Test(httptest.NewRequest("GET", "/api/v1/faqs", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "The server returned an unreadable response.", decodeBody(t, resp.Body)["warning"])
}

func TestSellerRoutes(t *testing.T) {
	res := &fakeResources{
		list:   &marketplace.ListResult{Kind: marketplace.KindSellers},
		record: &marketplace.RecordResult{Kind: marketplace.KindSellers, Item: marketplace.Item{Record: normalize.Record{"id": "9"}}},
	}
	app := newTestApp(res)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/sellers/9", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "9", res.id)
	data := decodeBody(t, resp.Body)["data"].(map[string]any)
	assert.Equal(t, "9", data["id"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/seller/products", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "seller-products", res.kind)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/seller/orders", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "seller-orders", res.kind)
}

func TestHandleCreate_JSON(t *testing.T) {
	res := &fakeResources{record: &marketplace.RecordResult{
		Kind: marketplace.KindFinishes,
		Item: marketplace.Item{Record: normalize.Record{"id": "3", "name": "Matte"}},
	}}
	req := httptest.NewRequest("POST", "/api/v1/finishes", strings.NewReader(`{"name":"Matte"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newTestApp(res).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	input, ok := res.payload.Data.(*models.FinishInput)
	require.True(t, ok)
	assert.Equal(t, "Matte", input.Name)
	assert.Empty(t, res.payload.Files)
}

func TestHandleCreate_JSONNumbers(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		price    string
		duration string
		status   int
	}{
		{name: "numbers", body: `{"name":"Gold","price":19.9,"duration_days":30}`, price: "19.9", duration: "30", status: fiber.StatusCreated},
		{name: "strings", body: `{"name":"Gold","price":"19.90","duration_days":"30"}`, price: "19.90", duration: "30", status: fiber.StatusCreated},
		{name: "large integer", body: `{"name":"Gold","price":1,"duration_days":36500000000000000}`, price: "1", duration: "36500000000000000", status: fiber.StatusCreated},
		{name: "object value", body: `{"name":"Gold","price":{"amount":1},"duration_days":30}`, status: fiber.StatusUnprocessableEntity},
		{name: "not an object", body: `[19.9]`, status: fiber.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &fakeResources{record: &marketplace.RecordResult{Kind: marketplace.KindSubscriptionPackages}}
			req := httptest.NewRequest("POST", "/api/v1/subscription-packages", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := newTestApp(res).Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != fiber.StatusCreated {
				assert.Nil(t, res.payload.Data)
				return
			}

			input, ok := res.payload.Data.(*models.SubscriptionPackageInput)
			require.True(t, ok)
			assert.Equal(t, "Gold", input.Name)
			assert.Equal(t, tt.price, input.Price)
			assert.Equal(t, tt.duration, input.DurationDays)
		})
	}
}

func TestHandleUpdate_JSONBoolean(t *testing.T) {
	res := &fakeResources{record: &marketplace.RecordResult{Kind: marketplace.KindProducts}}
	req := httptest.NewRequest("PATCH", "/api/v1/products/2", strings.NewReader(`{"stock":0,"category_id":4,"description":true}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := newTestApp(res).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	input := res.payload.Data.(*models.ProductInput)
	assert.Equal(t, "0", input.Stock)
	assert.Equal(t, "4", input.CategoryID)
	assert.Equal(t, "true", input.Description)
}

func TestHandleCreate_Multipart(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Shoes"))
	fw, err := w.CreateFormFile("image", "shoe.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really an image"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	res := &fakeResources{record: &marketplace.RecordResult{Kind: marketplace.KindCategories}}
	req := httptest.NewRequest("POST", "/api/v1/categories", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := newTestApp(res).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	input, ok := res.payload.Data.(*models.CategoryInput)
	require.True(t, ok)
	assert.Equal(t, "Shoes", input.Name)
	require.Len(t, res.payload.Files, 1)
	assert.Equal(t, "image", res.payload.Files[0].Field)
	assert.Equal(t, "shoe.txt", res.payload.Files[0].Name)
	assert.Equal(t, []byte("not really an image"), res.payload.Files[0].Data)
}

func TestHandleUpdate(t *testing.T) {
	res := &fakeResources{record: &marketplace.RecordResult{Kind: marketplace.KindCountries}}
	req := httptest.NewRequest("PATCH", "/api/v1/countries/4", strings.NewReader(`{"code":"DE"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newTestApp(res).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "4", res.id)
	assert.Equal(t, "DE", res.payload.Data.(*models.CountryInput).Code)
}

func TestHandleDelete(t *testing.T) {
	res := &fakeResources{}
	resp, err := newTestApp(res).Test(httptest.NewRequest("DELETE", "/api/v1/products/12", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.True(t, res.deleted)
	assert.Equal(t, "products", res.kind)
	assert.Equal(t, "12", res.id)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
		msg    string
	}{
		{
			name:   "validation",
			err:    apierror.NewValidationError("name", "is required"),
			status: fiber.StatusUnprocessableEntity,
			kind:   "validation_error",
			msg:    "validation failed: name: is required",
		},
		{
			name:   "route not found",
			err:    &apierror.RouteNotFoundError{Method: "GET", URL: "http://b/x/", StatusCode: 404, Attempts: 4},
			status: fiber.StatusNotFound,
			kind:   "route_not_found",
			msg:    "The requested resource could not be found.",
		},
		{
			name:   "upstream conflict",
			err:    &apierror.RequestFailedError{StatusCode: 409, Message: "Category has products"},
			status: fiber.StatusConflict,
			kind:   "request_failed",
			msg:    "Category has products",
		},
		{
			name:   "upstream server error",
			err:    &apierror.RequestFailedError{StatusCode: 500},
			status: fiber.StatusBadGateway,
			kind:   "request_failed",
			msg:    "The request failed with status 500.",
		},
		{
			name:   "transport",
			err:    &apierror.RequestFailedError{Err: errors.New("connection refused")},
			status: fiber.StatusBadGateway,
			kind:   "request_failed",
			msg:    "The server could not be reached.",
		},
		{
			name:   "unknown kind",
			err:    &marketplace.UnknownKindError{Kind: "widgets"},
			status: fiber.StatusNotFound,
			kind:   "unknown_kind",
			msg:    `unknown entity kind "widgets"`,
		},
		{
			name:   "other",
			err:    errors.New("boom"),
			status: fiber.StatusInternalServerError,
			kind:   "internal_error",
			msg:    "An unexpected error occurred.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeResources{err: tt.err})
			resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/categories/1", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decodeBody(t, resp.Body)
			assert.Equal(t, tt.kind, body["error"])
			assert.Equal(t, tt.msg, body["message"])
		})
	}
}

func TestHandleCreate_UnknownKind(t *testing.T) {
	res := &fakeResources{}
	req := httptest.NewRequest("POST", "/api/v1/widgets", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newTestApp(res).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Empty(t, res.kind, "the client must not be called")
}
