package subscription

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
)

// Fetcher loads the data the network tiers need.
type Fetcher interface {
	FetchPackage(ctx context.Context, id string) (Package, error)
	FetchSellerDetail(ctx context.Context, sellerID string) (normalize.Record, error)
	FetchPackageHistory(ctx context.Context, sellerID string) ([]HistoryRecord, error)
}

// DefaultConcurrency bounds ReconcileAll when Engine.Concurrency is unset.
const DefaultConcurrency = 8

// Engine reconciles the active package of sellers.
type Engine struct {
	fetcher     Fetcher
	Concurrency int
}

// NewEngine creates an engine. A nil fetcher disables the network tiers.
func NewEngine(fetcher Fetcher, concurrency int) *Engine {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Engine{fetcher: fetcher, Concurrency: concurrency}
}

// finding is what a single tier yields. Zero fields mean "nothing found".
type finding struct {
	id   string
	name string
	end  *time.Time
}

type tier struct {
	id      Tier
	network bool
	// endOnly keeps a network tier running while only the end date is open.
	endOnly bool
	eval    func(ctx context.Context, r *run, seller normalize.Record) finding
}

// tiers is evaluated in order; the first tier yielding a field owns it.
var tiers = []tier{
	{id: TierDirect, eval: directTier},
	{id: TierCatalog, eval: catalogTier},
	{id: TierPackageFetch, network: true, endOnly: true, eval: packageFetchTier},
	{id: TierSellerDetail, network: true, eval: sellerDetailTier},
	{id: TierHistory, network: true, eval: historyTier},
}

// run carries the per-seller state of one reconciliation.
type run struct {
	fetcher Fetcher
	catalog Catalog
	// fetched caches package fetches by id; a nil entry records a failed fetch.
	fetched map[string]*Package
}

func (e *Engine) newRun(catalog Catalog) *run {
	return &run{fetcher: e.fetcher, catalog: catalog, fetched: map[string]*Package{}}
}

// Reconcile derives the seller's package name and end date. It never fails:
// tiers that cannot load their data are skipped and the terminal default
// applies when no tier resolved a name.
func (e *Engine) Reconcile(ctx context.Context, seller normalize.Record, catalog Catalog) View {
	return e.newRun(catalog).reconcile(ctx, seller)
}

func (r *run) reconcile(ctx context.Context, seller normalize.Record) View {
	var v View
	for _, t := range tiers {
		if v.SourceTier != TierNone && v.EndDateTier != TierNone {
			break
		}
		if t.network {
			if r.fetcher == nil || (v.SourceTier != TierNone && !t.endOnly) {
				continue
			}
			if ctx.Err() != nil {
				log.Debugf("[Reconcile] seller %s: context done, skipping %s tier", seller.String("id"), t.id)
				break
			}
		}
		f := t.eval(ctx, r, seller)
		v.apply(f, t.id)
	}

	if v.SourceTier == TierNone {
		v.PackageID = ""
		v.PackageName = NoPackage
		v.SourceTier = TierDefault
		v.PackageEndDate = nil
		v.EndDateTier = TierDefault
	}
	if v.EndDateTier == TierNone {
		v.EndDateTier = TierDefault
	}
	return v
}

func (v *View) apply(f finding, t Tier) {
	if f.name != "" && v.SourceTier == TierNone {
		v.PackageName = f.name
		v.SourceTier = t
		if v.PackageID == "" {
			v.PackageID = f.id
		}
	}
	if f.end != nil && v.EndDateTier == TierNone {
		end := *f.end
		v.PackageEndDate = &end
		v.EndDateTier = t
	}
}

// merge fills the zero fields of f from g.
func (f finding) merge(g finding) finding {
	if f.name == "" {
		f.name = g.name
		if f.id == "" {
			f.id = g.id
		}
	}
	if f.end == nil {
		f.end = g.end
	}
	return f
}
