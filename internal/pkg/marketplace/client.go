package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/apierror"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/coerce"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/config"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/resolver"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/subscription"
)

var errNoRecord = errors.New("response carries no recognizable record")

// Client is the resource facade over the marketplace backend.
type Client struct {
	baseURL      string
	sellerID     string
	caller       resolver.Caller
	engine       *subscription.Engine
	maxDimension int
	now          func() time.Time
}

// New creates a client. A nil caller uses HTTP with the configured timeout
// and token.
func New(cfg *config.Config, caller resolver.Caller) *Client {
	if caller == nil {
		caller = resolver.NewHTTPCaller(cfg.Timeout, cfg.Token)
	}
	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		sellerID:     strings.TrimSpace(cfg.SellerID),
		caller:       caller,
		maxDimension: cfg.AttachmentMaxDimension,
		now:          time.Now,
	}
	c.engine = subscription.NewEngine(c, cfg.Concurrency)
	return c
}

// SellerID returns the seller the seller-scoped screens operate on.
func (c *Client) SellerID() string { return c.sellerID }

// SubscriptionInfo is the reconciled subscription of a seller as presented
// to the admin.
type SubscriptionInfo struct {
	PackageID      string              `json:"package_id,omitempty"`
	PackageName    string              `json:"package_name"`
	PackageEndDate *time.Time          `json:"package_end_date"`
	Source         string              `json:"source"`
	EndDateSource  string              `json:"end_date_source"`
	Expiry         subscription.Expiry `json:"expiry"`
}

// Item is a normalized record, plus the reconciled subscription for sellers.
type Item struct {
	Record       normalize.Record
	Subscription *SubscriptionInfo
}

// ReconciledKey holds the reconciled subscription in a serialized Item. The
// record's own "subscription" field is passed through unchanged.
const ReconciledKey = "reconciled_subscription"

// MarshalJSON emits the record fields with the subscription under
// ReconciledKey.
func (i Item) MarshalJSON() ([]byte, error) {
	if i.Record == nil && i.Subscription == nil {
		return []byte("null"), nil
	}
	out := make(map[string]any, len(i.Record)+1)
	for k, v := range i.Record {
		out[k] = v
	}
	if i.Subscription != nil {
		out[ReconciledKey] = i.Subscription
	}
	return json.Marshal(out)
}

// ListResult is the outcome of a list operation. Warning is set when the
// backend answered with a body that could not be decoded.
type ListResult struct {
	Kind    Kind   `json:"kind"`
	Items   []Item `json:"items"`
	Warning error  `json:"-"`
}

// RecordResult is the outcome of a single record operation.
type RecordResult struct {
	Kind    Kind  `json:"kind"`
	Item    Item  `json:"item"`
	Warning error `json:"-"`
}

// ListEntity lists every record of kind.
func (c *Client) ListEntity(ctx context.Context, kind string) (*ListResult, error) {
	e, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	rep, err := c.call(ctx, http.MethodGet, e.CollectionPaths(), resolver.Body{})
	if err != nil {
		return nil, err
	}
	return c.listResult(ctx, e, rep)
}

// GetEntity loads a single record of kind.
func (c *Client) GetEntity(ctx context.Context, kind, id string) (*RecordResult, error) {
	e, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, apierror.NewValidationError("id", "is required")
	}
	rep, err := c.call(ctx, http.MethodGet, e.ItemPaths(id), resolver.Body{})
	if err != nil {
		return nil, err
	}
	res := c.recordResult(e, rep)
	if e.Kind == KindSellers && res.Item.Record != nil && !normalize.IsRaw(res.Item.Record) {
		view := c.engine.Reconcile(ctx, res.Item.Record, c.Catalog(ctx))
		res.Item.Subscription = c.describe(view)
	}
	return res, nil
}

// CreateEntity validates p and creates a record of kind.
func (c *Client) CreateEntity(ctx context.Context, kind string, p Payload) (*RecordResult, error) {
	e, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	if err := p.validate(false); err != nil {
		return nil, err
	}
	body, err := p.encode(c.maxDimension)
	if err != nil {
		return nil, err
	}
	rep, err := c.call(ctx, http.MethodPost, e.CollectionPaths(), body)
	if err != nil {
		return nil, err
	}
	return c.recordResult(e, rep), nil
}

// UpdateEntity validates p with the partial update rules and patches the
// record.
func (c *Client) UpdateEntity(ctx context.Context, kind, id string, p Payload) (*RecordResult, error) {
	e, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, apierror.NewValidationError("id", "is required")
	}
	if err := p.validate(true); err != nil {
		return nil, err
	}
	body, err := p.encode(c.maxDimension)
	if err != nil {
		return nil, err
	}
	rep, err := c.call(ctx, http.MethodPatch, e.ItemPaths(id), body)
	if err != nil {
		return nil, err
	}
	return c.recordResult(e, rep), nil
}

// DeleteEntity deletes a record of kind.
func (c *Client) DeleteEntity(ctx context.Context, kind, id string) error {
	e, err := Lookup(kind)
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apierror.NewValidationError("id", "is required")
	}
	_, err = c.call(ctx, http.MethodDelete, e.ItemPaths(id), resolver.Body{})
	return err
}

// reply is a decoded backend answer. warning is set when the body was not
// valid JSON and envelope holds the raw-text record instead.
type reply struct {
	envelope any
	warning  error
	url      string
}

// call resolves the paths against the base URL and decodes the winning body.
func (c *Client) call(ctx context.Context, method string, paths []string, body resolver.Body) (*reply, error) {
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, c.baseURL+p)
	}
	resp, err := resolver.Resolve(ctx, c.caller, resolver.Candidates(method, urls, nil, body))
	if err != nil {
		return nil, err
	}

	env, warn := normalize.Decode(resp.Payload, resp.ContentType)
	if warn != nil {
		var malformed *apierror.MalformedResponseError
		if errors.As(warn, &malformed) {
			malformed.URL = resp.Candidate.URL
		}
		log.Warnf("[Marketplace] %s %s: %v", method, resp.Candidate.URL, warn)
	}
	return &reply{envelope: env, warning: warn, url: resp.Candidate.URL}, nil
}

func (c *Client) listResult(ctx context.Context, e Entity, rep *reply) (*ListResult, error) {
	records := normalize.Records(normalize.NormalizeList(rep.envelope, e.listProbes()...))
	items := make([]Item, len(records))
	for i, r := range records {
		coerce.Field(r, e.StatusField, e.Statuses, e.DefaultStatus)
		items[i] = Item{Record: r}
	}

	if e.Kind == KindSellers && len(records) > 0 {
		views, err := c.engine.ReconcileAll(ctx, records, c.Catalog(ctx))
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].Subscription = c.describe(views[i])
		}
	}
	return &ListResult{Kind: e.Kind, Items: items, Warning: rep.warning}, nil
}

func (c *Client) recordResult(e Entity, rep *reply) *RecordResult {
	r := normalize.NormalizeRecord(rep.envelope, e.Shape)
	warn := rep.warning
	if r == nil && rep.envelope != nil && warn == nil {
		warn = &apierror.MalformedResponseError{URL: rep.url, Err: errNoRecord}
	}
	if r != nil && !normalize.IsRaw(r) {
		coerce.Field(r, e.StatusField, e.Statuses, e.DefaultStatus)
	}
	return &RecordResult{Kind: e.Kind, Item: Item{Record: r}, Warning: warn}
}

func (c *Client) describe(v subscription.View) *SubscriptionInfo {
	return &SubscriptionInfo{
		PackageID:      v.PackageID,
		PackageName:    v.PackageName,
		PackageEndDate: v.PackageEndDate,
		Source:         v.SourceTier.String(),
		EndDateSource:  v.EndDateTier.String(),
		Expiry:         subscription.DescribeExpiry(v.PackageEndDate, c.now()),
	}
}
