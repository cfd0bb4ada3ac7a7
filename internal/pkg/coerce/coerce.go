package coerce

import (
	"strings"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
)

// Coerce maps raw case-insensitively onto a member of allowed. Missing,
// blank or unknown values map to fallback; it never fails because upstream
// values are not trusted to stay within the allowed set.
func Coerce(raw any, allowed []string, fallback string) string {
	s, ok := normalize.Stringify(raw)
	if !ok || s == "" {
		return fallback
	}
	for _, member := range allowed {
		if strings.EqualFold(s, strings.TrimSpace(member)) {
			return member
		}
	}
	return fallback
}

// Field coerces r[field] in place. Records without the field are left alone.
func Field(r normalize.Record, field string, allowed []string, fallback string) {
	if r == nil || field == "" {
		return
	}
	if _, ok := r[field]; !ok {
		return
	}
	r[field] = Coerce(r[field], allowed, fallback)
}
