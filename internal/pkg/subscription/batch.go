package subscription

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
)

// ReconcileAll reconciles sellers concurrently, at most Concurrency at a time.
// Views are returned in seller order. Each seller gets its own run so package
// fetch caching never crosses goroutines; the catalog is shared read-only.
// The context error is returned when the batch was cancelled, in which case
// the views may be incomplete.
func (e *Engine) ReconcileAll(ctx context.Context, sellers []normalize.Record, catalog Catalog) ([]View, error) {
	views := make([]View, len(sellers))
	if len(sellers) == 0 {
		return views, ctx.Err()
	}

	limit := e.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, seller := range sellers {
		if ctx.Err() != nil {
			break
		}
		i, seller := i, seller
		g.Go(func() error {
			views[i] = e.Reconcile(ctx, seller, catalog)
			return nil
		})
	}
	_ = g.Wait()
	return views, ctx.Err()
}
