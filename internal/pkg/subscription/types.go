package subscription

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
)

// NoPackage is the display name used when no tier could resolve a package.
const NoPackage = "No Package"

// Tier identifies the data source that produced a View field.
type Tier int

const (
	TierNone Tier = iota
	TierDirect
	TierCatalog
	TierPackageFetch
	TierSellerDetail
	TierHistory
	TierDefault
)

func (t Tier) String() string {
	switch t {
	case TierDirect:
		return "direct"
	case TierCatalog:
		return "catalog"
	case TierPackageFetch:
		return "package_fetch"
	case TierSellerDetail:
		return "seller_detail"
	case TierHistory:
		return "history"
	case TierDefault:
		return "default"
	default:
		return "none"
	}
}

// Package is a subscription package as offered by the marketplace.
type Package struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	DurationDays int
	Status       string
	Features     map[string]bool
}

// PackageFromRecord maps a backend record onto a Package. Records without an
// id are rejected.
func PackageFromRecord(r normalize.Record) (Package, bool) {
	if r == nil {
		return Package{}, false
	}
	id := r.String("id", "package_id", "subscription_package_id")
	if id == "" {
		return Package{}, false
	}
	p := Package{
		ID:     id,
		Name:   r.String("name", "package_name", "title"),
		Status: strings.ToLower(r.String("status")),
	}
	if raw := r.String("price", "amount", "package_price"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			p.Price = d
		}
	}
	if days, ok := r.Int("duration_days", "payment_time"); ok && days > 0 {
		p.DurationDays = days
	}
	for k, v := range r {
		if b, ok := v.(bool); ok {
			if p.Features == nil {
				p.Features = map[string]bool{}
			}
			p.Features[k] = b
		}
	}
	return p, true
}

// Catalog maps package id to Package. It is built once per run and only read
// afterwards.
type Catalog map[string]Package

// NewCatalog builds a catalog from package records, skipping records without
// an id. Later duplicates do not replace earlier ones.
func NewCatalog(records []normalize.Record) Catalog {
	c := make(Catalog, len(records))
	for _, r := range records {
		p, ok := PackageFromRecord(r)
		if !ok {
			continue
		}
		if _, dup := c[p.ID]; dup {
			continue
		}
		c[p.ID] = p
	}
	return c
}

// Lookup returns the package for id.
func (c Catalog) Lookup(id string) (Package, bool) {
	if c == nil || id == "" {
		return Package{}, false
	}
	p, ok := c[id]
	return p, ok
}

// HistoryRecord is one entry of a seller's package history.
type HistoryRecord struct {
	PackageID   string
	PackageName string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   *time.Time
	Status      string
}

// HistoryFromRecord maps a backend history entry. The package name may be
// carried by the entry itself or by a nested package object.
func HistoryFromRecord(r normalize.Record) HistoryRecord {
	h := HistoryRecord{
		PackageID:   r.String("subscription_package_id", "package_id"),
		PackageName: r.String(nameKeys...),
		StartDate:   timePtr(r.Time(startKeys...)),
		EndDate:     timePtr(r.Time(endKeys...)),
		CreatedAt:   timePtr(r.Time("created_at")),
		Status:      strings.ToLower(r.String("status")),
	}
	if pkg := r.Object("package", "subscription_package"); pkg != nil {
		if h.PackageName == "" {
			h.PackageName = pkg.String("name", "package_name")
		}
		if h.PackageID == "" {
			h.PackageID = pkg.String("id")
		}
	}
	return h
}

// View is the reconciled subscription state of a seller.
type View struct {
	PackageID      string     `json:"package_id,omitempty"`
	PackageName    string     `json:"package_name"`
	PackageEndDate *time.Time `json:"package_end_date"`
	SourceTier     Tier       `json:"-"`
	EndDateTier    Tier       `json:"-"`
}

func timePtr(t time.Time, ok bool) *time.Time {
	if !ok {
		return nil
	}
	return &t
}
