package ports

import (
	"context"
	"time"

	"github.com/ersonp/restock-core/internal/domain/entities"
)

// RelationalDB defines the persistence interface for the governance core.
// The audit trail and fulfillment log are append-only: nothing here updates
// or deletes an event once written.
type RelationalDB interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Audit trail (append-only)

	// AppendAuditEvent appends one immutable event. The event's ID and
	// CreatedAt are assigned by the store.
	AppendAuditEvent(ctx context.Context, event *entities.AuditEvent) error

	// RecentAuditEvents returns up to limit events, newest first.
	RecentAuditEvents(ctx context.Context, limit int) ([]entities.AuditEvent, error)

	// CountAuditEvents returns the total number of audit events.
	CountAuditEvents(ctx context.Context) (int, error)

	// CountAuditEventsByType counts events of one event type.
	CountAuditEventsByType(ctx context.Context, eventType string) (int, error)

	// Governance config (singleton row)

	// GetGovernanceConfig returns the live config row, or nil if it has
	// never been written.
	GetGovernanceConfig(ctx context.Context) (*entities.GovernanceConfig, error)

	// SetGovernanceMode atomically upserts the singleton config row.
	// updatedBy is empty for system-initiated changes.
	SetGovernanceMode(ctx context.Context, mode entities.Mode, updatedBy string) error

	// Inventory

	// SaveMedicine inserts or updates a medicine.
	SaveMedicine(ctx context.Context, medicine *entities.Medicine) error

	// FindMedicineByID returns a medicine, or nil if not found.
	FindMedicineByID(ctx context.Context, medicineID string) (*entities.Medicine, error)

	// ListMedicines lists all medicines ordered by name.
	ListMedicines(ctx context.Context) ([]entities.Medicine, error)

	// UpdateMedicineStock sets a medicine's current stock level.
	UpdateMedicineStock(ctx context.Context, medicineID string, stock int) error

	// Orders (consumption history)

	// SaveOrder records one consumption order.
	SaveOrder(ctx context.Context, order *entities.Order) error

	// SumOrderQuantity sums order quantities for a medicine with
	// from <= order_date < to.
	SumOrderQuantity(ctx context.Context, medicineID string, from, to time.Time) (int, error)

	// CountOrders counts orders for a medicine on or after since.
	CountOrders(ctx context.Context, medicineID string, since time.Time) (int, error)

	// Inventory escalations

	// SaveEscalation inserts a new escalation record.
	SaveEscalation(ctx context.Context, escalation *entities.InventoryEscalation) error

	// FindEscalation finds an escalation by (medicine, stock level) pair,
	// or nil if none exists. Used for deduplication.
	FindEscalation(ctx context.Context, medicineID string, currentStock int) (*entities.InventoryEscalation, error)

	// HasOpenEscalation reports whether an escalation exists for the
	// medicine with restock_triggered still false.
	HasOpenEscalation(ctx context.Context, medicineID string) (bool, error)

	// CountEscalationsSince counts escalations for a medicine created on or
	// after since.
	CountEscalationsSince(ctx context.Context, medicineID string, since time.Time) (int, error)

	// MarkLatestEscalationTriggered flags the newest escalation for the
	// medicine as restock_triggered. A medicine with no escalations is not
	// an error.
	MarkLatestEscalationTriggered(ctx context.Context, medicineID string) error

	// Mitigation reviews

	// SaveReview persists a new pending review.
	SaveReview(ctx context.Context, review *entities.MitigationReview) error

	// FindReviewByID returns a review, or nil if not found.
	FindReviewByID(ctx context.Context, reviewID string) (*entities.MitigationReview, error)

	// ListPendingReviews lists reviews still awaiting a decision, oldest first.
	ListPendingReviews(ctx context.Context) ([]entities.MitigationReview, error)

	// ResolveReview moves a pending review to a terminal status exactly
	// once. Resolving a non-pending review is an error.
	ResolveReview(ctx context.Context, reviewID string, status entities.ReviewStatus, reviewedBy string, reviewedAt time.Time) error

	// Fulfillment log (append-only)

	// AppendFulfillmentLog appends one execution trace entry.
	AppendFulfillmentLog(ctx context.Context, log *entities.FulfillmentLog) error

	// RecentFulfillmentLogs returns up to limit entries, newest first.
	RecentFulfillmentLogs(ctx context.Context, limit int) ([]entities.FulfillmentLog, error)
}
