package entities

import "time"

// Fulfillment log statuses.
const (
	FulfillBlockedByGovernor = "BLOCKED_BY_GOVERNOR"
	FulfillBlockedByEthics   = "BLOCKED_BY_ETHICS"
	FulfillPendingReview     = "PENDING_REVIEW_CREATED"
	FulfillAutoExecuted      = "AUTO_EXECUTED"
	FulfillApprovedByAdmin   = "APPROVED_BY_ADMIN"
	FulfillRejectedByAdmin   = "REJECTED_BY_ADMIN"
	FulfillDispatched        = "DISPATCHED"
	FulfillDispatchFailed    = "DISPATCH_FAILED"
)

// FulfillmentLog is one entry in the append-only execution trace.
type FulfillmentLog struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id,omitempty"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
