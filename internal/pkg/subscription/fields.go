package subscription

import (
	"time"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
)

// Field synonyms observed across backend versions, in priority order.
var (
	nameKeys = []string{
		"package_name",
		"subscription_package_name",
		"current_package_name",
		"packageName",
		"plan_name",
	}
	endKeys = []string{
		"subscription_end_date",
		"package_end_date",
		"end_date",
		"expiry_date",
		"expires_at",
	}
	startKeys = []string{
		"subscription_start_date",
		"package_start_date",
		"start_date",
		"created_at",
	}
	idKeys = []string{
		"subscription_package_id",
		"package_id",
		"current_package_id",
		"plan_id",
	}
	nestedIDKeys = []string{
		"package_id",
		"subscription_package_id",
	}
	nestedObjects = []nestedObject{
		{key: "subscription"},
		{key: "current_package", isPackage: true},
		{key: "subscription_package", isPackage: true},
		{key: "package", isPackage: true},
	}
)

// nestedObject names an embedded object. Only package objects carry the
// package itself, so their bare id and name belong to the package.
type nestedObject struct {
	key       string
	isPackage bool
}

type nestedRecord struct {
	normalize.Record
	isPackage bool
}

// nested returns the nested subscription objects of r in priority order.
func nested(r normalize.Record) []nestedRecord {
	var out []nestedRecord
	for _, n := range nestedObjects {
		if obj := r.Object(n.key); obj != nil {
			out = append(out, nestedRecord{Record: obj, isPackage: n.isPackage})
		}
	}
	return out
}

func packageName(r normalize.Record) string {
	if s := r.String(nameKeys...); s != "" {
		return s
	}
	for _, obj := range nested(r) {
		if s := obj.String(nameKeys...); s != "" {
			return s
		}
		if !obj.isPackage {
			continue
		}
		if s := obj.String("name"); s != "" {
			return s
		}
	}
	return ""
}

func endDate(r normalize.Record) *time.Time {
	if t, ok := r.Time(endKeys...); ok {
		return &t
	}
	for _, obj := range nested(r) {
		if t, ok := obj.Time(endKeys...); ok {
			return &t
		}
	}
	return nil
}

func startDate(r normalize.Record) (time.Time, bool) {
	if t, ok := r.Time(startKeys...); ok {
		return t, true
	}
	for _, obj := range nested(r) {
		if t, ok := obj.Time(startKeys...); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func packageID(r normalize.Record) string {
	if s := r.String(idKeys...); s != "" {
		return s
	}
	for _, obj := range nested(r) {
		if s := obj.String(nestedIDKeys...); s != "" {
			return s
		}
		if !obj.isPackage {
			continue
		}
		if s := obj.String("id"); s != "" {
			return s
		}
	}
	return ""
}

// derivedEnd computes start + duration for a package assigned to r.
func derivedEnd(r normalize.Record, p Package) *time.Time {
	if p.DurationDays <= 0 {
		return nil
	}
	start, ok := startDate(r)
	if !ok {
		return nil
	}
	end := start.AddDate(0, 0, p.DurationDays)
	return &end
}
