package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

const (
	driftLookbackLimit         = 10
	driftRiskSequenceLength    = 3
	driftReviewSpikeThreshold  = 5
	driftMultiplierVarianceMax = 0.30
)

// DriftService scans the most recent audit events for behavioral anomalies.
// The three rules are independent; all may fire on one evaluation. Missing
// history never raises an error.
type DriftService struct {
	db ports.RelationalDB
}

// NewDriftService creates a new DriftService.
func NewDriftService(db ports.RelationalDB) *DriftService {
	return &DriftService{db: db}
}

// Evaluate returns the raised drift flags. Every flag is written to the
// audit trail as a DRIFT_ALERT before returning.
func (s *DriftService) Evaluate(ctx context.Context, currentRisk int, currentMultiplier float64) ([]entities.DriftFlag, error) {
	recent, err := s.db.RecentAuditEvents(ctx, driftLookbackLimit)
	if err != nil {
		return nil, fmt.Errorf("reading recent audit events: %w", err)
	}

	var flags []entities.DriftFlag
	if risksEscalating(recent) {
		flags = append(flags, entities.DriftRiskEscalation)
	}
	if reviewSpike(recent) {
		flags = append(flags, entities.DriftReviewSpike)
	}
	if multiplierAnomalous(recent, currentMultiplier) {
		flags = append(flags, entities.DriftMultiplierAnomaly)
	}

	for _, flag := range flags {
		event := &entities.AuditEvent{
			EventType:  entities.EventDriftAlert,
			Actor:      entities.ActorSystem,
			RiskScore:  &currentRisk,
			ModeAtTime: currentModeOrSafe(ctx, s.db),
			Decision:   string(flag),
		}
		if err := s.db.AppendAuditEvent(ctx, event); err != nil {
			return nil, fmt.Errorf("logging drift alert: %w", err)
		}
	}
	return flags, nil
}

// risksEscalating checks the three most recent risk-carrying events. The
// flag fires when, oldest to newest, each score is strictly below the next.
func risksEscalating(recent []entities.AuditEvent) bool {
	var scores []int // newest first
	for _, e := range recent {
		if e.RiskScore == nil {
			continue
		}
		scores = append(scores, *e.RiskScore)
		if len(scores) == driftRiskSequenceLength {
			break
		}
	}
	if len(scores) < driftRiskSequenceLength {
		return false
	}
	// reversed: scores[2] is the oldest of the three
	return scores[2] < scores[1] && scores[1] < scores[0]
}

func reviewSpike(recent []entities.AuditEvent) bool {
	count := 0
	for _, e := range recent {
		if e.ModeAtTime == entities.ModeReview {
			count++
		}
	}
	return count >= driftReviewSpikeThreshold
}

// multiplierAnomalous compares the current multiplier against the mean of
// recently logged multiplier updates.
func multiplierAnomalous(recent []entities.AuditEvent, current float64) bool {
	var values []float64
	for _, e := range recent {
		if e.EventType != entities.EventMultiplierUpdate {
			continue
		}
		if v, err := strconv.ParseFloat(e.Decision, 64); err == nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return false
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return false
	}
	return math.Abs(current-mean)/mean > driftMultiplierVarianceMax
}
