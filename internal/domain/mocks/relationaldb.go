// Package mocks provides in-memory fakes for the domain ports, used by
// service tests and handler tests.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ersonp/restock-core/internal/domain/entities"
)

// RelationalDB is an in-memory fake of ports.RelationalDB. Setting Err makes
// every call fail with it, for error-path tests.
type RelationalDB struct {
	mu sync.Mutex

	Events          []entities.AuditEvent
	Config          *entities.GovernanceConfig
	Medicines       map[string]*entities.Medicine
	Orders          []entities.Order
	Escalations     []*entities.InventoryEscalation
	Reviews         map[string]*entities.MitigationReview
	FulfillmentLogs []entities.FulfillmentLog

	Err error

	// Now can be overridden for deterministic timestamps.
	Now func() time.Time

	nextEventID int64
}

// NewRelationalDB creates an empty fake store.
func NewRelationalDB() *RelationalDB {
	return &RelationalDB{
		Medicines: make(map[string]*entities.Medicine),
		Reviews:   make(map[string]*entities.MitigationReview),
		Now:       time.Now,
	}
}

func (m *RelationalDB) EnsureSchema(_ context.Context) error { return m.Err }
func (m *RelationalDB) Close() error                         { return nil }

func (m *RelationalDB) AppendAuditEvent(_ context.Context, event *entities.AuditEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextEventID++
	event.ID = m.nextEventID
	if event.CreatedAt.IsZero() {
		event.CreatedAt = m.Now()
	}
	m.Events = append(m.Events, *event)
	return nil
}

func (m *RelationalDB) RecentAuditEvents(_ context.Context, limit int) ([]entities.AuditEvent, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]entities.AuditEvent, 0, limit)
	for i := len(m.Events) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.Events[i])
	}
	return result, nil
}

func (m *RelationalDB) CountAuditEvents(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events), nil
}

func (m *RelationalDB) CountAuditEventsByType(_ context.Context, eventType string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, e := range m.Events {
		if e.EventType == eventType {
			count++
		}
	}
	return count, nil
}

// EventsOfType returns the recorded events matching one event type, in
// append order. Test helper, not part of the port.
func (m *RelationalDB) EventsOfType(eventType string) []entities.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []entities.AuditEvent
	for _, e := range m.Events {
		if e.EventType == eventType {
			result = append(result, e)
		}
	}
	return result
}

func (m *RelationalDB) GetGovernanceConfig(_ context.Context) (*entities.GovernanceConfig, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Config == nil {
		return nil, nil
	}
	cfg := *m.Config
	return &cfg, nil
}

func (m *RelationalDB) SetGovernanceMode(_ context.Context, mode entities.Mode, updatedBy string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Config = &entities.GovernanceConfig{
		ID:          entities.GovernanceConfigID,
		CurrentMode: mode,
		UpdatedBy:   updatedBy,
		UpdatedAt:   m.Now(),
	}
	return nil
}

func (m *RelationalDB) SaveMedicine(_ context.Context, medicine *entities.Medicine) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *medicine
	m.Medicines[medicine.ID] = &copied
	return nil
}

func (m *RelationalDB) FindMedicineByID(_ context.Context, medicineID string) (*entities.Medicine, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	med, ok := m.Medicines[medicineID]
	if !ok {
		return nil, nil
	}
	copied := *med
	return &copied, nil
}

func (m *RelationalDB) ListMedicines(_ context.Context) ([]entities.Medicine, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]entities.Medicine, 0, len(m.Medicines))
	for _, med := range m.Medicines {
		result = append(result, *med)
	}
	return result, nil
}

func (m *RelationalDB) UpdateMedicineStock(_ context.Context, medicineID string, stock int) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	med, ok := m.Medicines[medicineID]
	if !ok {
		return fmt.Errorf("medicine not found: %s", medicineID)
	}
	med.Stock = stock
	return nil
}

func (m *RelationalDB) SaveOrder(_ context.Context, order *entities.Order) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Orders = append(m.Orders, *order)
	return nil
}

func (m *RelationalDB) SumOrderQuantity(_ context.Context, medicineID string, from, to time.Time) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0
	for _, o := range m.Orders {
		if o.MedicineID == medicineID && !o.OrderDate.Before(from) && o.OrderDate.Before(to) {
			sum += o.Quantity
		}
	}
	return sum, nil
}

func (m *RelationalDB) CountOrders(_ context.Context, medicineID string, since time.Time) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, o := range m.Orders {
		if o.MedicineID == medicineID && !o.OrderDate.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *RelationalDB) SaveEscalation(_ context.Context, escalation *entities.InventoryEscalation) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *escalation
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = m.Now()
	}
	m.Escalations = append(m.Escalations, &copied)
	return nil
}

func (m *RelationalDB) FindEscalation(_ context.Context, medicineID string, currentStock int) (*entities.InventoryEscalation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Escalations {
		if e.MedicineID == medicineID && e.CurrentStock == currentStock {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *RelationalDB) HasOpenEscalation(_ context.Context, medicineID string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Escalations {
		if e.MedicineID == medicineID && !e.RestockTriggered {
			return true, nil
		}
	}
	return false, nil
}

func (m *RelationalDB) CountEscalationsSince(_ context.Context, medicineID string, since time.Time) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, e := range m.Escalations {
		if e.MedicineID == medicineID && !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *RelationalDB) MarkLatestEscalationTriggered(_ context.Context, medicineID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *entities.InventoryEscalation
	for _, e := range m.Escalations {
		if e.MedicineID != medicineID {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			latest = e
		}
	}
	if latest != nil {
		latest.RestockTriggered = true
	}
	return nil
}

func (m *RelationalDB) SaveReview(_ context.Context, review *entities.MitigationReview) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *review
	m.Reviews[review.ID] = &copied
	return nil
}

func (m *RelationalDB) FindReviewByID(_ context.Context, reviewID string) (*entities.MitigationReview, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.Reviews[reviewID]
	if !ok {
		return nil, nil
	}
	copied := *review
	return &copied, nil
}

func (m *RelationalDB) ListPendingReviews(_ context.Context) ([]entities.MitigationReview, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []entities.MitigationReview
	for _, r := range m.Reviews {
		if r.Status == entities.ReviewPending {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *RelationalDB) ResolveReview(_ context.Context, reviewID string, status entities.ReviewStatus, reviewedBy string, reviewedAt time.Time) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.Reviews[reviewID]
	if !ok {
		return fmt.Errorf("review not found: %s", reviewID)
	}
	if review.Status != entities.ReviewPending {
		return fmt.Errorf("review %s already processed", reviewID)
	}
	review.Status = status
	review.ReviewedBy = reviewedBy
	review.ReviewedAt = &reviewedAt
	return nil
}

func (m *RelationalDB) AppendFulfillmentLog(_ context.Context, log *entities.FulfillmentLog) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *log
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = m.Now()
	}
	m.FulfillmentLogs = append(m.FulfillmentLogs, copied)
	return nil
}

func (m *RelationalDB) RecentFulfillmentLogs(_ context.Context, limit int) ([]entities.FulfillmentLog, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]entities.FulfillmentLog, 0, limit)
	for i := len(m.FulfillmentLogs) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.FulfillmentLogs[i])
	}
	return result, nil
}
