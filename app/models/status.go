package models

// Record statuses accepted by the marketplace backend. Unknown values coming
// back from the backend are coerced to the default of their set.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusPending   = "pending"
	StatusSuspended = "suspended"
	StatusDraft     = "draft"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"

	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

var (
	ActiveStatuses       = []string{StatusActive, StatusInactive}
	SellerStatuses       = []string{StatusActive, StatusInactive, StatusPending, StatusSuspended}
	ProductStatuses      = []string{StatusActive, StatusInactive, StatusDraft}
	SubscriptionStatuses = []string{StatusActive, StatusPending, StatusExpired, StatusCancelled}
	OrderStatuses        = []string{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusRefunded,
	}
)
