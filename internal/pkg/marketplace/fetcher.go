package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/resolver"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/subscription"
)

var historyProbes = normalize.ListProbes("history", "package_history", "subscriptions", "items")

// FetchPackage loads a single subscription package.
func (c *Client) FetchPackage(ctx context.Context, id string) (subscription.Package, error) {
	e, err := Lookup(string(KindSubscriptionPackages))
	if err != nil {
		return subscription.Package{}, err
	}
	rep, err := c.call(ctx, http.MethodGet, e.ItemPaths(id), resolver.Body{})
	if err != nil {
		return subscription.Package{}, err
	}
	p, ok := subscription.PackageFromRecord(normalize.NormalizeRecord(rep.envelope, e.Shape))
	if !ok {
		return subscription.Package{}, fmt.Errorf("package %s: %w", id, errNoRecord)
	}
	return p, nil
}

// FetchSellerDetail loads the full seller record.
func (c *Client) FetchSellerDetail(ctx context.Context, sellerID string) (normalize.Record, error) {
	e, err := Lookup(string(KindSellers))
	if err != nil {
		return nil, err
	}
	rep, err := c.call(ctx, http.MethodGet, e.ItemPaths(sellerID), resolver.Body{})
	if err != nil {
		return nil, err
	}
	r := normalize.NormalizeRecord(rep.envelope, e.Shape)
	if r == nil || normalize.IsRaw(r) {
		return nil, fmt.Errorf("seller %s: %w", sellerID, errNoRecord)
	}
	return r, nil
}

// FetchPackageHistory loads the package history of a seller.
func (c *Client) FetchPackageHistory(ctx context.Context, sellerID string) ([]subscription.HistoryRecord, error) {
	id := url.PathEscape(sellerID)
	paths := []string{
		"/sellers/" + id + "/package-history",
		"/sellers/" + id + "/subscription-history",
		"/seller/" + id + "/package-history",
		"/subscriptions?seller_id=" + url.QueryEscape(sellerID),
	}
	rep, err := c.call(ctx, http.MethodGet, paths, resolver.Body{})
	if err != nil {
		return nil, err
	}
	records := normalize.Records(normalize.NormalizeList(rep.envelope, historyProbes...))
	out := make([]subscription.HistoryRecord, 0, len(records))
	for _, r := range records {
		out = append(out, subscription.HistoryFromRecord(r))
	}
	return out, nil
}
