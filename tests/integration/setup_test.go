package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/restock-core/internal/application/handlers"
	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/services"
	"github.com/ersonp/restock-core/internal/infrastructure/config"
	"github.com/ersonp/restock-core/internal/infrastructure/fulfillment/warehouse"
	"github.com/ersonp/restock-core/internal/infrastructure/relationaldb/sqlite"
)

// fulfillRecord mirrors the warehouse wire payload.
type fulfillRecord struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// recordingWarehouse is an in-process fulfillment endpoint that records
// every request it receives.
type recordingWarehouse struct {
	mu       sync.Mutex
	server   *httptest.Server
	requests []fulfillRecord
	failing  bool
}

func newRecordingWarehouse(t *testing.T) *recordingWarehouse {
	t.Helper()
	w := &recordingWarehouse{}
	w.server = httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		var record fulfillRecord
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			rw.WriteHeader(http.StatusBadRequest)
			return
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.failing {
			rw.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.requests = append(w.requests, record)
		rw.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(w.server.Close)
	return w
}

func (w *recordingWarehouse) setFailing(failing bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failing = failing
}

func (w *recordingWarehouse) recorded() []fulfillRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]fulfillRecord, len(w.requests))
	copy(out, w.requests)
	return out
}

// testStack wires the full dependency graph against a file-backed SQLite
// database and an in-process warehouse.
type testStack struct {
	repo       *sqlite.Repository
	warehouse  *recordingWarehouse
	dispatcher *services.DispatchService
	mitigation *services.MitigationService
	governor   *services.GovernorService
	handler    *handlers.MitigationHandler
	review     *handlers.ReviewHandler
	admin      *handlers.AdminHandler
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "restock.db")
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.EnsureSchema(t.Context()))

	wh := newRecordingWarehouse(t)
	fulfiller, err := warehouse.NewClient(config.WarehouseConfig{URL: wh.server.URL, TimeoutSeconds: 5})
	require.NoError(t, err)

	dispatcher := services.NewDispatchService(repo, fulfiller)
	t.Cleanup(dispatcher.Close)

	governor := services.NewGovernorService(repo, services.DefaultSafeThreshold)
	risk := services.NewRiskService(repo)
	mitigation := services.NewMitigationService(
		repo,
		risk,
		services.NewInstabilityService(repo),
		services.NewDriftService(repo),
		services.NewConfidenceService(repo),
		services.NewEscalationService(repo),
		governor,
		services.NewRecommenderService(),
		dispatcher,
		services.DefaultSafeThreshold,
	)
	scanner := services.NewScannerService(repo, risk, mitigation, dispatcher, services.DefaultLowStockThreshold)
	metrics := services.NewMetricsService(repo, governor)

	return &testStack{
		repo:       repo,
		warehouse:  wh,
		dispatcher: dispatcher,
		mitigation: mitigation,
		governor:   governor,
		handler:    handlers.NewMitigationHandler(mitigation, scanner, dispatcher),
		review:     handlers.NewReviewHandler(repo, mitigation, dispatcher),
		admin:      handlers.NewAdminHandler(repo, governor, metrics),
	}
}

// seedUrgentMedicine persists a medicine whose stock and consumption put it
// right at the unattended execution threshold.
func (s *testStack) seedUrgentMedicine(t *testing.T, name string) string {
	t.Helper()
	medicineID := uuid.New().String()
	require.NoError(t, s.repo.SaveMedicine(t.Context(), &entities.Medicine{
		ID:    medicineID,
		Name:  name,
		Stock: 5,
	}))
	require.NoError(t, s.repo.SaveOrder(t.Context(), &entities.Order{
		ID:         uuid.New().String(),
		MedicineID: medicineID,
		Quantity:   50,
		OrderDate:  time.Now().AddDate(0, 0, -20),
	}))
	return medicineID
}

func (s *testStack) setMode(t *testing.T, mode entities.Mode) {
	t.Helper()
	require.NoError(t, s.repo.SetGovernanceMode(t.Context(), mode, "admin"))
}

// auditEventsOfType filters the recent audit trail by event type.
func (s *testStack) auditEventsOfType(t *testing.T, eventType string) []entities.AuditEvent {
	t.Helper()
	events, err := s.repo.RecentAuditEvents(t.Context(), 100)
	require.NoError(t, err)
	var matched []entities.AuditEvent
	for _, event := range events {
		if event.EventType == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

// fulfillmentStatuses returns the statuses of the recent fulfillment log,
// newest first.
func (s *testStack) fulfillmentStatuses(t *testing.T) []string {
	t.Helper()
	logs, err := s.repo.RecentFulfillmentLogs(t.Context(), 100)
	require.NoError(t, err)
	statuses := make([]string, 0, len(logs))
	for _, entry := range logs {
		statuses = append(statuses, entry.Status)
	}
	return statuses
}
