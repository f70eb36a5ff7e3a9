// Package sqlite provides a SQLite implementation of the RelationalDB interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.RelationalDB using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Medicines (inventory items under governance)
	CREATE TABLE IF NOT EXISTS medicines (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_medicines_name ON medicines(name);

	-- Orders (consumption history driving the forecasting windows)
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		medicine_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		order_date TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_medicine ON orders(medicine_id, order_date);

	-- Audit log (append-only; rows are never updated or deleted)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		actor TEXT NOT NULL,
		risk_score INTEGER,
		mode_at_time TEXT NOT NULL,
		decision TEXT NOT NULL DEFAULT '',
		reference_id TEXT,
		reference_table TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_type ON audit_log(event_type);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);

	-- Governance config (single live row keyed by a well-known id)
	CREATE TABLE IF NOT EXISTS governance_config (
		id TEXT PRIMARY KEY,
		current_mode TEXT NOT NULL,
		updated_by TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL
	);

	-- Inventory escalations (low-stock crossings, deduplicated per stock level)
	CREATE TABLE IF NOT EXISTS inventory_escalations (
		id TEXT PRIMARY KEY,
		medicine_id TEXT NOT NULL,
		medicine_name TEXT NOT NULL DEFAULT '',
		current_stock INTEGER NOT NULL,
		threshold INTEGER NOT NULL,
		restock_triggered INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_escalations_medicine ON inventory_escalations(medicine_id, current_stock);
	CREATE INDEX IF NOT EXISTS idx_escalations_created ON inventory_escalations(medicine_id, created_at);

	-- Mitigation reviews (deferred decisions awaiting a human)
	CREATE TABLE IF NOT EXISTS mitigation_reviews (
		id TEXT PRIMARY KEY,
		mitigation_id TEXT NOT NULL,
		risk_score INTEGER NOT NULL,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		reviewed_by TEXT,
		reviewed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reviews_status ON mitigation_reviews(status, created_at);

	-- Fulfillment logs (append-only execution trace)
	CREATE TABLE IF NOT EXISTS fulfillment_logs (
		id TEXT PRIMARY KEY,
		order_id TEXT,
		status TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_fulfillment_logs_created ON fulfillment_logs(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// AppendAuditEvent appends one immutable event and assigns its ID.
func (r *Repository) AppendAuditEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = timeNow()
	}

	var riskScore sql.NullInt64
	if event.RiskScore != nil {
		riskScore = sql.NullInt64{Int64: int64(*event.RiskScore), Valid: true}
	}

	query := `
		INSERT INTO audit_log (event_type, actor, risk_score, mode_at_time, decision, reference_id, reference_table, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		event.EventType,
		event.Actor,
		riskScore,
		string(event.ModeAtTime),
		event.Decision,
		event.ReferenceID,
		event.ReferenceTable,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading audit event id: %w", err)
	}
	event.ID = id
	return nil
}

// RecentAuditEvents returns up to limit events, newest first.
func (r *Repository) RecentAuditEvents(ctx context.Context, limit int) ([]entities.AuditEvent, error) {
	query := `
		SELECT id, event_type, actor, risk_score, mode_at_time, decision, reference_id, reference_table, created_at
		FROM audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit events: %w", err)
	}
	defer rows.Close()

	result := make([]entities.AuditEvent, 0, limit)
	for rows.Next() {
		event, err := scanAuditEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

// CountAuditEvents returns the total number of audit events.
func (r *Repository) CountAuditEvents(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_log").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting audit events: %w", err)
	}
	return count, nil
}

// CountAuditEventsByType counts events of one event type.
func (r *Repository) CountAuditEventsByType(ctx context.Context, eventType string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_log WHERE event_type = ?", eventType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting audit events by type: %w", err)
	}
	return count, nil
}

func scanAuditEvent(rows *sql.Rows) (entities.AuditEvent, error) {
	var event entities.AuditEvent
	var riskScore sql.NullInt64
	var referenceID, referenceTable sql.NullString
	var mode string

	err := rows.Scan(
		&event.ID,
		&event.EventType,
		&event.Actor,
		&riskScore,
		&mode,
		&event.Decision,
		&referenceID,
		&referenceTable,
		&event.CreatedAt,
	)
	if err != nil {
		return entities.AuditEvent{}, fmt.Errorf("scanning audit event: %w", err)
	}

	if riskScore.Valid {
		score := int(riskScore.Int64)
		event.RiskScore = &score
	}
	event.ModeAtTime = entities.Mode(mode)
	event.ReferenceID = referenceID.String
	event.ReferenceTable = referenceTable.String
	return event, nil
}

// GetGovernanceConfig returns the live config row, or nil if it has never
// been written.
func (r *Repository) GetGovernanceConfig(ctx context.Context) (*entities.GovernanceConfig, error) {
	query := `
		SELECT id, current_mode, updated_by, updated_at
		FROM governance_config
		WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, entities.GovernanceConfigID)

	var cfg entities.GovernanceConfig
	var mode string
	err := row.Scan(&cfg.ID, &mode, &cfg.UpdatedBy, &cfg.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning governance config: %w", err)
	}
	cfg.CurrentMode = entities.Mode(mode)
	return &cfg, nil
}

// SetGovernanceMode atomically upserts the singleton config row.
func (r *Repository) SetGovernanceMode(ctx context.Context, mode entities.Mode, updatedBy string) error {
	query := `
		INSERT INTO governance_config (id, current_mode, updated_by, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_mode = excluded.current_mode,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		entities.GovernanceConfigID,
		string(mode),
		updatedBy,
		timeNow(),
	)
	if err != nil {
		return fmt.Errorf("setting governance mode: %w", err)
	}
	return nil
}

// SaveMedicine inserts or updates a medicine.
func (r *Repository) SaveMedicine(ctx context.Context, medicine *entities.Medicine) error {
	if medicine.CreatedAt.IsZero() {
		medicine.CreatedAt = timeNow()
	}
	query := `
		INSERT INTO medicines (id, name, stock, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			stock = excluded.stock
	`
	_, err := r.db.ExecContext(ctx, query,
		medicine.ID,
		medicine.Name,
		medicine.Stock,
		medicine.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving medicine: %w", err)
	}
	return nil
}

// FindMedicineByID finds a medicine by its ID, or returns nil if not found.
func (r *Repository) FindMedicineByID(ctx context.Context, medicineID string) (*entities.Medicine, error) {
	query := `
		SELECT id, name, stock, created_at
		FROM medicines
		WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, medicineID)

	var medicine entities.Medicine
	err := row.Scan(&medicine.ID, &medicine.Name, &medicine.Stock, &medicine.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning medicine: %w", err)
	}
	return &medicine, nil
}

// ListMedicines lists all medicines ordered by name.
func (r *Repository) ListMedicines(ctx context.Context) ([]entities.Medicine, error) {
	query := `
		SELECT id, name, stock, created_at
		FROM medicines
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying medicines: %w", err)
	}
	defer rows.Close()

	var result []entities.Medicine
	for rows.Next() {
		var medicine entities.Medicine
		if err := rows.Scan(&medicine.ID, &medicine.Name, &medicine.Stock, &medicine.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning medicine: %w", err)
		}
		result = append(result, medicine)
	}
	return result, rows.Err()
}

// UpdateMedicineStock sets a medicine's current stock level.
func (r *Repository) UpdateMedicineStock(ctx context.Context, medicineID string, stock int) error {
	result, err := r.db.ExecContext(ctx, "UPDATE medicines SET stock = ? WHERE id = ?", stock, medicineID)
	if err != nil {
		return fmt.Errorf("updating medicine stock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("medicine not found: %s", medicineID)
	}
	return nil
}

// SaveOrder records one consumption order.
func (r *Repository) SaveOrder(ctx context.Context, order *entities.Order) error {
	query := `
		INSERT INTO orders (id, medicine_id, quantity, order_date)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.MedicineID,
		order.Quantity,
		order.OrderDate,
	)
	if err != nil {
		return fmt.Errorf("saving order: %w", err)
	}
	return nil
}

// SumOrderQuantity sums order quantities with from <= order_date < to.
func (r *Repository) SumOrderQuantity(ctx context.Context, medicineID string, from, to time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM orders
		WHERE medicine_id = ? AND order_date >= ? AND order_date < ?
	`
	var sum int
	err := r.db.QueryRowContext(ctx, query, medicineID, from, to).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("summing order quantities: %w", err)
	}
	return sum, nil
}

// CountOrders counts orders for a medicine on or after since.
func (r *Repository) CountOrders(ctx context.Context, medicineID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM orders
		WHERE medicine_id = ? AND order_date >= ?
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, medicineID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return count, nil
}

// SaveEscalation inserts a new escalation record.
func (r *Repository) SaveEscalation(ctx context.Context, escalation *entities.InventoryEscalation) error {
	if escalation.CreatedAt.IsZero() {
		escalation.CreatedAt = timeNow()
	}
	query := `
		INSERT INTO inventory_escalations (id, medicine_id, medicine_name, current_stock, threshold, restock_triggered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		escalation.ID,
		escalation.MedicineID,
		escalation.MedicineName,
		escalation.CurrentStock,
		escalation.Threshold,
		boolToInt(escalation.RestockTriggered),
		escalation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving escalation: %w", err)
	}
	return nil
}

// FindEscalation finds an escalation by (medicine, stock level), or returns
// nil if none exists.
func (r *Repository) FindEscalation(ctx context.Context, medicineID string, currentStock int) (*entities.InventoryEscalation, error) {
	query := `
		SELECT id, medicine_id, medicine_name, current_stock, threshold, restock_triggered, created_at
		FROM inventory_escalations
		WHERE medicine_id = ? AND current_stock = ?
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, medicineID, currentStock)

	escalation, err := scanEscalationRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return escalation, nil
}

// HasOpenEscalation reports whether an untriggered escalation exists for
// the medicine.
func (r *Repository) HasOpenEscalation(ctx context.Context, medicineID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM inventory_escalations
			WHERE medicine_id = ? AND restock_triggered = 0
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, medicineID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking open escalations: %w", err)
	}
	return exists, nil
}

// CountEscalationsSince counts escalations created on or after since.
func (r *Repository) CountEscalationsSince(ctx context.Context, medicineID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM inventory_escalations
		WHERE medicine_id = ? AND created_at >= ?
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, medicineID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting escalations: %w", err)
	}
	return count, nil
}

// MarkLatestEscalationTriggered flags the newest escalation for the
// medicine as handled. A medicine with no escalations is not an error.
func (r *Repository) MarkLatestEscalationTriggered(ctx context.Context, medicineID string) error {
	query := `
		UPDATE inventory_escalations
		SET restock_triggered = 1
		WHERE id = (
			SELECT id FROM inventory_escalations
			WHERE medicine_id = ?
			ORDER BY created_at DESC
			LIMIT 1
		)
	`
	_, err := r.db.ExecContext(ctx, query, medicineID)
	if err != nil {
		return fmt.Errorf("marking escalation triggered: %w", err)
	}
	return nil
}

func scanEscalationRow(row *sql.Row) (*entities.InventoryEscalation, error) {
	var escalation entities.InventoryEscalation
	var triggered int
	err := row.Scan(
		&escalation.ID,
		&escalation.MedicineID,
		&escalation.MedicineName,
		&escalation.CurrentStock,
		&escalation.Threshold,
		&triggered,
		&escalation.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning escalation: %w", err)
	}
	escalation.RestockTriggered = triggered != 0
	return &escalation, nil
}

// SaveReview persists a new pending review. The payload is stored as JSON.
func (r *Repository) SaveReview(ctx context.Context, review *entities.MitigationReview) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = timeNow()
	}
	payload, err := json.Marshal(review.Payload)
	if err != nil {
		return fmt.Errorf("marshaling review payload: %w", err)
	}

	query := `
		INSERT INTO mitigation_reviews (id, mitigation_id, risk_score, action_type, payload, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		review.ID,
		review.MitigationID,
		review.RiskScore,
		string(review.ActionType),
		string(payload),
		string(review.Status),
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving review: %w", err)
	}
	return nil
}

// FindReviewByID finds a review by its ID, or returns nil if not found.
func (r *Repository) FindReviewByID(ctx context.Context, reviewID string) (*entities.MitigationReview, error) {
	query := `
		SELECT id, mitigation_id, risk_score, action_type, payload, status, reviewed_by, reviewed_at, created_at
		FROM mitigation_reviews
		WHERE id = ?
	`
	rows, err := r.db.QueryContext(ctx, query, reviewID)
	if err != nil {
		return nil, fmt.Errorf("querying review: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	review, err := scanReview(rows)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListPendingReviews lists reviews still awaiting a decision, oldest first.
func (r *Repository) ListPendingReviews(ctx context.Context) ([]entities.MitigationReview, error) {
	query := `
		SELECT id, mitigation_id, risk_score, action_type, payload, status, reviewed_by, reviewed_at, created_at
		FROM mitigation_reviews
		WHERE status = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, string(entities.ReviewPending))
	if err != nil {
		return nil, fmt.Errorf("querying pending reviews: %w", err)
	}
	defer rows.Close()

	var result []entities.MitigationReview
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *review)
	}
	return result, rows.Err()
}

// ResolveReview moves a pending review to a terminal status exactly once.
func (r *Repository) ResolveReview(ctx context.Context, reviewID string, status entities.ReviewStatus, reviewedBy string, reviewedAt time.Time) error {
	query := `
		UPDATE mitigation_reviews
		SET status = ?, reviewed_by = ?, reviewed_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		string(status),
		reviewedBy,
		reviewedAt,
		reviewID,
		string(entities.ReviewPending),
	)
	if err != nil {
		return fmt.Errorf("resolving review: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		existing, err := r.FindReviewByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("review not found: %s", reviewID)
		}
		return fmt.Errorf("review %s already processed", reviewID)
	}
	return nil
}

func scanReview(rows *sql.Rows) (*entities.MitigationReview, error) {
	var review entities.MitigationReview
	var actionType, status, payload string
	var reviewedBy sql.NullString
	var reviewedAt sql.NullTime

	err := rows.Scan(
		&review.ID,
		&review.MitigationID,
		&review.RiskScore,
		&actionType,
		&payload,
		&status,
		&reviewedBy,
		&reviewedAt,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning review: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &review.Payload); err != nil {
		return nil, fmt.Errorf("unmarshaling review payload: %w", err)
	}
	review.ActionType = entities.Action(actionType)
	review.Status = entities.ReviewStatus(status)
	review.ReviewedBy = reviewedBy.String
	if reviewedAt.Valid {
		t := reviewedAt.Time
		review.ReviewedAt = &t
	}
	return &review, nil
}

// AppendFulfillmentLog appends one execution trace entry.
func (r *Repository) AppendFulfillmentLog(ctx context.Context, log *entities.FulfillmentLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = timeNow()
	}
	query := `
		INSERT INTO fulfillment_logs (id, order_id, status, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.OrderID,
		log.Status,
		log.Message,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appending fulfillment log: %w", err)
	}
	return nil
}

// RecentFulfillmentLogs returns up to limit entries, newest first.
func (r *Repository) RecentFulfillmentLogs(ctx context.Context, limit int) ([]entities.FulfillmentLog, error) {
	query := `
		SELECT id, order_id, status, message, created_at
		FROM fulfillment_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying fulfillment logs: %w", err)
	}
	defer rows.Close()

	result := make([]entities.FulfillmentLog, 0, limit)
	for rows.Next() {
		var log entities.FulfillmentLog
		var orderID sql.NullString
		if err := rows.Scan(&log.ID, &orderID, &log.Status, &log.Message, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning fulfillment log: %w", err)
		}
		log.OrderID = orderID.String
		result = append(result, log)
	}
	return result, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
