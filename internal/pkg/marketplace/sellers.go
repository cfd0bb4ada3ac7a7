package marketplace

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/apierror"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/resolver"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/subscription"
)

// ListSellers lists sellers with their reconciled subscription.
func (c *Client) ListSellers(ctx context.Context) (*ListResult, error) {
	return c.ListEntity(ctx, string(KindSellers))
}

// GetSeller loads one seller with its reconciled subscription.
func (c *Client) GetSeller(ctx context.Context, id string) (*RecordResult, error) {
	return c.GetEntity(ctx, string(KindSellers), id)
}

// ListSellerProducts lists the products of the configured seller.
func (c *Client) ListSellerProducts(ctx context.Context) (*ListResult, error) {
	return c.listForSeller(ctx, KindProducts, "products")
}

// ListSellerOrders lists the orders of the configured seller.
func (c *Client) ListSellerOrders(ctx context.Context) (*ListResult, error) {
	return c.listForSeller(ctx, KindOrders, "orders")
}

func (c *Client) listForSeller(ctx context.Context, kind Kind, segment string) (*ListResult, error) {
	if c.sellerID == "" {
		return nil, apierror.NewValidationError("seller_id", "is not configured")
	}
	e, err := Lookup(string(kind))
	if err != nil {
		return nil, err
	}
	rep, err := c.call(ctx, http.MethodGet, sellerScopedPaths(c.sellerID, segment), resolver.Body{})
	if err != nil {
		return nil, err
	}
	return c.listResult(ctx, e, rep)
}

// sellerScopedPaths lists the routes a seller's sub-collection has been
// published under, nested routes first.
func sellerScopedPaths(sellerID, segment string) []string {
	id := url.PathEscape(sellerID)
	q := "?seller_id=" + url.QueryEscape(sellerID)
	return []string{
		"/sellers/" + id + "/" + segment,
		"/sellers/" + id + "/" + segment + "/",
		"/seller/" + id + "/" + segment,
		"/seller/" + segment + q,
		"/" + segment + q,
	}
}

// Catalog loads the subscription package catalog. A failed load is logged
// and yields an empty catalog so reconciliation can still use its other
// tiers.
func (c *Client) Catalog(ctx context.Context) subscription.Catalog {
	e, err := Lookup(string(KindSubscriptionPackages))
	if err != nil {
		return subscription.Catalog{}
	}
	rep, err := c.call(ctx, http.MethodGet, e.CollectionPaths(), resolver.Body{})
	if err != nil {
		log.Warnf("[Reconcile] package catalog unavailable: %v", err)
		return subscription.Catalog{}
	}
	records := normalize.Records(normalize.NormalizeList(rep.envelope, e.listProbes()...))
	return subscription.NewCatalog(records)
}
