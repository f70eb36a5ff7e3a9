package entities

import "time"

// Action is one of the closed set of mitigation action types.
type Action string

const (
	ActionMonitor             Action = "MONITOR"
	ActionSafetyStockIncrease Action = "SAFETY_STOCK_INCREASE"
	ActionSupplierEscalation  Action = "SUPPLIER_ESCALATION"
	ActionRestockImmediate    Action = "RESTOCK_IMMEDIATE"
)

// ReviewStatus tracks a mitigation review's lifecycle. Terminal states are
// approved and rejected, set exactly once by a human reviewer.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// MitigationReview is a persisted deferred decision awaiting a human.
// Created whenever governance routes an action to REVIEW instead of
// executing it.
type MitigationReview struct {
	ID           string        `json:"id"`
	MitigationID string        `json:"mitigation_id"` // medicine the action targets
	RiskScore    int           `json:"risk_score"`
	ActionType   Action        `json:"action_type"`
	Payload      ReviewPayload `json:"payload"`
	Status       ReviewStatus  `json:"status"`
	ReviewedBy   string        `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ReviewPayload is the frozen decision snapshot stored with a review.
// Approval executes exactly this payload, bypassing re-evaluation.
type ReviewPayload struct {
	MedicineID string `json:"medicine_id"`
	Action     Action `json:"action"`
	Quantity   int    `json:"quantity"`
	RiskScore  int    `json:"risk_score"`
}

// OutcomeStatus is the terminal status of one orchestrated evaluation.
type OutcomeStatus string

const (
	OutcomeSkipped        OutcomeStatus = "skipped" // no consumption data
	OutcomeBlocked        OutcomeStatus = "blocked"
	OutcomePendingReview  OutcomeStatus = "pending_review"
	OutcomeExecuted       OutcomeStatus = "executed"
	OutcomeManualRequired OutcomeStatus = "manual_required"
)

// MitigationOutcome is the structured result of evaluating one medicine.
// Denials and deferrals are expected outcomes, never errors.
type MitigationOutcome struct {
	MedicineID string        `json:"medicine_id"`
	Status     OutcomeStatus `json:"status"`
	Action     Action        `json:"action,omitempty"`
	Quantity   int           `json:"quantity,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	ReviewID   string        `json:"review_id,omitempty"`
	Snapshot   *RiskSnapshot `json:"snapshot,omitempty"`
}
