package subscription

import (
	"context"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
)

func directTier(_ context.Context, _ *run, seller normalize.Record) finding {
	f := finding{name: packageName(seller), end: endDate(seller)}
	if f.name != "" {
		f.id = packageID(seller)
	}
	return f
}

func catalogTier(_ context.Context, r *run, seller normalize.Record) finding {
	id := packageID(seller)
	p, ok := r.catalog.Lookup(id)
	if !ok {
		return finding{}
	}
	return fromPackage(seller, p)
}

// packageFetchTier loads a package the catalog does not know. Each id is
// fetched at most once per run.
func packageFetchTier(ctx context.Context, r *run, seller normalize.Record) finding {
	id := packageID(seller)
	if id == "" {
		return finding{}
	}
	if _, ok := r.catalog.Lookup(id); ok {
		return finding{}
	}
	p := r.fetchPackage(ctx, id)
	if p == nil {
		return finding{}
	}
	return fromPackage(seller, *p)
}

func (r *run) fetchPackage(ctx context.Context, id string) *Package {
	if p, seen := r.fetched[id]; seen {
		return p
	}
	p, err := r.fetcher.FetchPackage(ctx, id)
	if err != nil {
		log.Warnf("[Reconcile] package %s: fetch failed: %v", id, err)
		r.fetched[id] = nil
		return nil
	}
	r.fetched[id] = &p
	return &p
}

// sellerDetailTier re-runs the record based tiers against the full seller
// record, which carries fields the list endpoint omits.
func sellerDetailTier(ctx context.Context, r *run, seller normalize.Record) finding {
	sellerID := seller.String("id")
	if sellerID == "" {
		return finding{}
	}
	detail, err := r.fetcher.FetchSellerDetail(ctx, sellerID)
	if err != nil {
		log.Warnf("[Reconcile] seller %s: detail fetch failed: %v", sellerID, err)
		return finding{}
	}
	if detail == nil {
		return finding{}
	}

	f := directTier(ctx, r, detail)
	f = f.merge(catalogTier(ctx, r, detail))
	if f.name == "" && ctx.Err() == nil {
		f = f.merge(packageFetchTier(ctx, r, detail))
	}
	return f
}

func historyTier(ctx context.Context, r *run, seller normalize.Record) finding {
	sellerID := seller.String("id")
	if sellerID == "" {
		return finding{}
	}
	history, err := r.fetcher.FetchPackageHistory(ctx, sellerID)
	if err != nil {
		log.Warnf("[Reconcile] seller %s: history fetch failed: %v", sellerID, err)
		return finding{}
	}
	latest, ok := Latest(history)
	if !ok {
		return finding{}
	}

	f := finding{id: latest.PackageID, name: latest.PackageName, end: latest.EndDate}
	if f.name == "" {
		if p, ok := r.catalog.Lookup(latest.PackageID); ok {
			f.name = p.Name
		}
	}
	return f
}

func fromPackage(seller normalize.Record, p Package) finding {
	return finding{id: p.ID, name: p.Name, end: derivedEnd(seller, p)}
}
