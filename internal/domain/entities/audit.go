package entities

import "time"

// Audit event types written by the governance pipeline.
const (
	EventSafeBlocked        = "SAFE_BLOCKED"
	EventReviewCreated      = "REVIEW_CREATED"
	EventReviewApproved     = "REVIEW_APPROVED"
	EventReviewRejected     = "REVIEW_REJECTED"
	EventMitigationExecuted = "MITIGATION_EXECUTED"
	EventEthicalOverride    = "ETHICAL_OVERRIDE"
	EventDriftAlert         = "DRIFT_ALERT"
	EventConfidenceScore    = "CONFIDENCE_SCORE"
	EventMultiplierUpdate   = "MULTIPLIER_UPDATE"
	EventModeChanged        = "MODE_CHANGED"
)

// Actors recorded on audit events.
const (
	ActorSystem = "system"
	ActorAdmin  = "admin"
)

// AuditEvent is one immutable entry in the append-only audit trail.
// Events are never updated or deleted; recency queries order by
// created_at descending.
type AuditEvent struct {
	ID             int64     `json:"id"`
	EventType      string    `json:"event_type"`
	Actor          string    `json:"actor"`
	RiskScore      *int      `json:"risk_score,omitempty"`
	ModeAtTime     Mode      `json:"mode_at_time"`
	Decision       string    `json:"decision"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	ReferenceTable string    `json:"reference_table,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RiskScoreValue returns the event's risk score, or 0 when none was recorded.
func (e AuditEvent) RiskScoreValue() int {
	if e.RiskScore == nil {
		return 0
	}
	return *e.RiskScore
}
