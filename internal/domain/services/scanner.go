package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

const (
	DefaultLowStockThreshold = 10
	demandDepletionHorizon   = 7.0
)

// ScanReport summarizes one batch scan pass. Per-item failures land in
// Failures and never abort the batch.
type ScanReport struct {
	Scanned  int      `json:"scanned"`
	Flagged  int      `json:"flagged"`
	Failures []string `json:"failures,omitempty"`
}

func (r *ScanReport) fail(medicineID string, err error) {
	r.Failures = append(r.Failures, fmt.Sprintf("%s: %v", medicineID, err))
}

// ScannerService runs the scheduled batch passes over the whole inventory:
// the threshold scan raises escalations, the demand scan enqueues urgent
// restocks, and the mitigation scan drives the full governance pipeline.
type ScannerService struct {
	db                ports.RelationalDB
	risk              ports.RiskScorer
	evaluator         ports.Evaluator
	dispatcher        ports.Dispatcher
	lowStockThreshold int
	now               func() time.Time
}

// NewScannerService creates a scanner. A non-positive threshold falls back
// to the default.
func NewScannerService(db ports.RelationalDB, risk ports.RiskScorer, evaluator ports.Evaluator, dispatcher ports.Dispatcher, lowStockThreshold int) *ScannerService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &ScannerService{
		db:                db,
		risk:              risk,
		evaluator:         evaluator,
		dispatcher:        dispatcher,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// InventoryScan raises an escalation for every medicine whose stock sits
// below the low-stock threshold. Escalations deduplicate on the
// (medicine, stock level) pair, so an unchanged low level raises exactly
// one escalation until the stock moves.
func (s *ScannerService) InventoryScan(ctx context.Context) (ScanReport, error) {
	medicines, err := s.db.ListMedicines(ctx)
	if err != nil {
		return ScanReport{}, fmt.Errorf("listing medicines: %w", err)
	}

	var report ScanReport
	for _, medicine := range medicines {
		report.Scanned++
		if medicine.Stock >= s.lowStockThreshold {
			continue
		}

		existing, err := s.db.FindEscalation(ctx, medicine.ID, medicine.Stock)
		if err != nil {
			report.fail(medicine.ID, err)
			continue
		}
		if existing != nil {
			continue
		}

		escalation := &entities.InventoryEscalation{
			ID:           uuid.New().String(),
			MedicineID:   medicine.ID,
			MedicineName: medicine.Name,
			CurrentStock: medicine.Stock,
			Threshold:    s.lowStockThreshold,
			CreatedAt:    s.now(),
		}
		if err := s.db.SaveEscalation(ctx, escalation); err != nil {
			report.fail(medicine.ID, err)
			continue
		}
		report.Flagged++
	}
	return report, nil
}

// DemandScan assesses every medicine's consumption velocity and enqueues a
// restock dispatch for any projected to deplete within seven days or
// classified CRITICAL.
func (s *ScannerService) DemandScan(ctx context.Context) (ScanReport, error) {
	medicines, err := s.db.ListMedicines(ctx)
	if err != nil {
		return ScanReport{}, fmt.Errorf("listing medicines: %w", err)
	}

	var report ScanReport
	for _, medicine := range medicines {
		report.Scanned++

		snapshot, err := s.risk.Snapshot(ctx, medicine.ID)
		if err != nil {
			report.fail(medicine.ID, err)
			continue
		}
		if !snapshot.HasConsumptionData() {
			continue
		}
		if snapshot.DaysUntilDepletion >= demandDepletionHorizon && snapshot.Priority != entities.PriorityCritical {
			continue
		}

		s.dispatcher.Enqueue(entities.DispatchTask{
			Priority:   snapshot.Priority,
			MedicineID: medicine.ID,
			Quantity:   snapshot.RecommendedQuantity,
		})
		report.Flagged++
	}
	return report, nil
}

// MitigationScan runs the full governance pipeline for every medicine.
// Flagged counts evaluations that ended in an executed or deferred action.
func (s *ScannerService) MitigationScan(ctx context.Context) (ScanReport, error) {
	medicines, err := s.db.ListMedicines(ctx)
	if err != nil {
		return ScanReport{}, fmt.Errorf("listing medicines: %w", err)
	}

	var report ScanReport
	for _, medicine := range medicines {
		report.Scanned++

		outcome, err := s.evaluator.Evaluate(ctx, medicine.ID)
		if err != nil {
			report.fail(medicine.ID, err)
			continue
		}
		switch outcome.Status {
		case entities.OutcomeExecuted, entities.OutcomePendingReview:
			report.Flagged++
		}
	}
	return report, nil
}
