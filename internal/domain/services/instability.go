package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

const (
	instabilityLookbackDays   = 14
	instabilityEscalationStep = 25
	instabilityOrderThreshold = 20
	instabilityOrderPoints    = 20
)

// Instability score to multiplier mapping, evaluated in order.
var multiplierBands = []struct {
	maxScore   int
	multiplier float64
}{
	{30, 1.0},
	{60, 1.15},
	{90, 1.30},
}

const maxMultiplier = 1.50

// InstabilityService derives the self-healing quantity multiplier from the
// last 14 days of escalation and order volatility for an item. Every
// evaluation logs a MULTIPLIER_UPDATE event so the drift detector can track
// the multiplier's history.
type InstabilityService struct {
	db  ports.RelationalDB
	now func() time.Time
}

// NewInstabilityService creates a new InstabilityService.
func NewInstabilityService(db ports.RelationalDB) *InstabilityService {
	return &InstabilityService{db: db, now: time.Now}
}

// Estimate computes the instability score and multiplier for a medicine.
func (s *InstabilityService) Estimate(ctx context.Context, medicineID string) (entities.InstabilityReport, error) {
	cutoff := s.now().AddDate(0, 0, -instabilityLookbackDays)

	escalations, err := s.db.CountEscalationsSince(ctx, medicineID, cutoff)
	if err != nil {
		return entities.InstabilityReport{}, fmt.Errorf("counting recent escalations: %w", err)
	}
	orders, err := s.db.CountOrders(ctx, medicineID, cutoff)
	if err != nil {
		return entities.InstabilityReport{}, fmt.Errorf("counting recent orders: %w", err)
	}

	score := escalations * instabilityEscalationStep
	if orders >= instabilityOrderThreshold {
		score += instabilityOrderPoints
	}

	report := entities.InstabilityReport{
		MedicineID:        medicineID,
		RecentEscalations: escalations,
		RecentOrders:      orders,
		InstabilityScore:  score,
		Multiplier:        multiplierFor(score),
	}

	mode := currentModeOrSafe(ctx, s.db)
	event := &entities.AuditEvent{
		EventType:      entities.EventMultiplierUpdate,
		Actor:          entities.ActorSystem,
		ModeAtTime:     mode,
		Decision:       strconv.FormatFloat(report.Multiplier, 'f', 2, 64),
		ReferenceID:    medicineID,
		ReferenceTable: "medicines",
	}
	if err := s.db.AppendAuditEvent(ctx, event); err != nil {
		return entities.InstabilityReport{}, fmt.Errorf("logging multiplier update: %w", err)
	}

	return report, nil
}

func multiplierFor(score int) float64 {
	for _, b := range multiplierBands {
		if score <= b.maxScore {
			return b.multiplier
		}
	}
	return maxMultiplier
}

// currentModeOrSafe reads the live governance mode, failing closed to SAFE
// when the config row is missing or unreadable.
func currentModeOrSafe(ctx context.Context, db ports.RelationalDB) entities.Mode {
	cfg, err := db.GetGovernanceConfig(ctx)
	if err != nil || cfg == nil {
		return entities.ModeSafe
	}
	return cfg.CurrentMode
}
