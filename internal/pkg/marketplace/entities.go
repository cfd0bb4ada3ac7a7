package marketplace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ManuelReschke/SellerDesk/app/models"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
)

// Kind names an entity collection of the admin.
type Kind string

const (
	KindCategories           Kind = "categories"
	KindSellers              Kind = "sellers"
	KindProducts             Kind = "products"
	KindSubscriptionPackages Kind = "subscription-packages"
	KindSubscriptions        Kind = "subscriptions"
	KindOrders               Kind = "orders"
	KindFAQs                 Kind = "faqs"
	KindColors               Kind = "colors"
	KindFinishes             Kind = "finishes"
	KindCountries            Kind = "countries"
)

// UnknownKindError is returned for kinds missing from the registry.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown entity kind %q", e.Kind)
}

// Entity describes how one kind is addressed and shaped by the backend.
type Entity struct {
	Kind Kind
	// Names are the collection path segments tried in order, plural first.
	Names []string
	// ListKeys are the wrapper keys a list may be nested under.
	ListKeys []string
	Shape    normalize.RecordShape

	StatusField   string
	Statuses      []string
	DefaultStatus string

	// NewInput returns a pointer to the input model bound by the gateway.
	NewInput func() any
}

// CollectionPaths returns the collection path variants: every name, without
// and with a trailing slash.
func (e Entity) CollectionPaths() []string {
	out := make([]string, 0, len(e.Names)*2)
	for _, n := range e.Names {
		n = strings.Trim(n, "/")
		out = append(out, "/"+n, "/"+n+"/")
	}
	return out
}

// ItemPaths returns the path variants addressing a single record.
func (e Entity) ItemPaths(id string) []string {
	id = strings.Trim(strings.TrimSpace(id), "/")
	out := make([]string, 0, len(e.Names)*2)
	for _, n := range e.Names {
		n = strings.Trim(n, "/")
		out = append(out, "/"+n+"/"+id, "/"+n+"/"+id+"/")
	}
	return out
}

func (e Entity) listProbes() []normalize.Path {
	return normalize.ListProbes(e.ListKeys...)
}

var registry = map[Kind]Entity{
	KindCategories: {
		Kind:          KindCategories,
		Names:         []string{"categories", "category"},
		ListKeys:      []string{"categories", "items"},
		Shape:         normalize.RecordShape{Keys: []string{"category"}},
		StatusField:   "status",
		Statuses:      models.ActiveStatuses,
		DefaultStatus: models.StatusInactive,
		NewInput:      func() any { return &models.CategoryInput{} },
	},
	KindSellers: {
		Kind:     KindSellers,
		Names:    []string{"sellers", "seller"},
		ListKeys: []string{"sellers", "items"},
		Shape: normalize.RecordShape{
			Keys:     []string{"seller"},
			Sections: []string{"seller", "user", "profile", "business"},
		},
		StatusField:   "status",
		Statuses:      models.SellerStatuses,
		DefaultStatus: models.StatusPending,
		NewInput:      func() any { return &models.SellerInput{} },
	},
	KindProducts: {
		Kind:          KindProducts,
		Names:         []string{"products", "product"},
		ListKeys:      []string{"products", "items"},
		Shape:         normalize.RecordShape{Keys: []string{"product"}},
		StatusField:   "status",
		Statuses:      models.ProductStatuses,
		DefaultStatus: models.StatusInactive,
		NewInput:      func() any { return &models.ProductInput{} },
	},
	KindSubscriptionPackages: {
		Kind:          KindSubscriptionPackages,
		Names:         []string{"subscription-packages", "subscription_packages", "subscription-package", "packages", "package"},
		ListKeys:      []string{"packages", "subscription_packages", "items"},
		Shape:         normalize.RecordShape{Keys: []string{"package", "subscription_package"}},
		StatusField:   "status",
		Statuses:      models.ActiveStatuses,
		DefaultStatus: models.StatusInactive,
		NewInput:      func() any { return &models.SubscriptionPackageInput{} },
	},
	KindSubscriptions: {
		Kind:          KindSubscriptions,
		Names:         []string{"subscriptions", "subscription"},
		ListKeys:      []string{"subscriptions", "items"},
		Shape:         normalize.RecordShape{Keys: []string{"subscription"}},
		StatusField:   "status",
		Statuses:      models.SubscriptionStatuses,
		DefaultStatus: models.StatusPending,
		NewInput:      func() any { return &models.SubscriptionInput{} },
	},
	KindOrders: {
		Kind:          KindOrders,
		Names:         []string{"orders", "order"},
		ListKeys:      []string{"orders", "items"},
		Shape:         normalize.RecordShape{Keys: []string{"order"}},
		StatusField:   "status",
		Statuses:      models.OrderStatuses,
		DefaultStatus: models.OrderStatusPending,
		NewInput:      func() any { return &models.OrderInput{} },
	},
	KindFAQs: {
		Kind:          KindFAQs,
		Names:         []string{"faqs", "faq"},
		ListKeys:      []string{"faqs", "items"},
		Shape:         normalize.RecordShape{Keys: []string{"faq"}},
		StatusField:   "status",
		Statuses:      models.ActiveStatuses,
		DefaultStatus: models.StatusInactive,
		NewInput:      func() any { return &models.FAQInput{} },
	},
	KindColors: {
		Kind:          KindColors,
		Names:         []string{"colors", "color", "colours"},
		ListKeys:      []string{"colors", "items"},
		Shape:         normalize.RecordShape{Keys: []string{"color"}},
		StatusField:   "status",
		Statuses:      models.ActiveStatuses,
		DefaultStatus: models.StatusInactive,
		NewInput:      func() any { return &models.ColorInput{} },
	},
	KindFinishes: {
		Kind:          KindFinishes,
		Names:         []string{"finishes", "finish"},
		ListKeys:      []string{"finishes", "items"},
		Shape:         normalize.RecordShape{Keys: []string{"finish"}},
		StatusField:   "status",
		Statuses:      models.ActiveStatuses,
		DefaultStatus: models.StatusInactive,
		NewInput:      func() any { return &models.FinishInput{} },
	},
	KindCountries: {
		Kind:          KindCountries,
		Names:         []string{"countries", "country"},
		ListKeys:      []string{"countries", "items"},
		Shape:         normalize.RecordShape{Keys: []string{"country"}},
		StatusField:   "status",
		Statuses:      models.ActiveStatuses,
		DefaultStatus: models.StatusInactive,
		NewInput:      func() any { return &models.CountryInput{} },
	},
}

// Lookup returns the registry entry for kind.
func Lookup(kind string) (Entity, error) {
	e, ok := registry[Kind(strings.ToLower(strings.TrimSpace(kind)))]
	if !ok {
		return Entity{}, &UnknownKindError{Kind: kind}
	}
	return e, nil
}

// Kinds lists the registered kinds in sorted order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
