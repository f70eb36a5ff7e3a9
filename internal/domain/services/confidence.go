package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

const (
	baseConfidence            = 100.0
	confidenceRiskWeight      = 0.5
	confidenceDriftPenalty    = 15.0
	confidenceMultiplierLimit = 1.5
	confidenceMultiplierFee   = 10.0
)

// Mode penalty table: conservative modes signal lower trust in the system.
var modePenalties = map[entities.Mode]float64{
	entities.ModeSafe:   20,
	entities.ModeReview: 10,
	entities.ModeAuto:   0,
}

// ConfidenceService computes the deterministic trust score. It is a pure
// function of its inputs; the audit trail write is its only side effect.
type ConfidenceService struct {
	db ports.RelationalDB
}

// NewConfidenceService creates a new ConfidenceService.
func NewConfidenceService(db ports.RelationalDB) *ConfidenceService {
	return &ConfidenceService{db: db}
}

// Score computes the confidence value in [0,100] and logs it as a
// CONFIDENCE_SCORE event with the value encoded in the decision field.
func (s *ConfidenceService) Score(ctx context.Context, riskScore int, flags []entities.DriftFlag, mode entities.Mode, multiplier float64) (float64, error) {
	confidence := baseConfidence
	confidence -= float64(riskScore) * confidenceRiskWeight
	confidence -= float64(len(flags)) * confidenceDriftPenalty
	confidence -= modePenalties[mode]
	if multiplier > confidenceMultiplierLimit {
		confidence -= confidenceMultiplierFee
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	event := &entities.AuditEvent{
		EventType:  entities.EventConfidenceScore,
		Actor:      entities.ActorSystem,
		RiskScore:  &riskScore,
		ModeAtTime: mode,
		Decision:   strconv.FormatFloat(confidence, 'f', -1, 64),
	}
	if err := s.db.AppendAuditEvent(ctx, event); err != nil {
		return 0, fmt.Errorf("logging confidence score: %w", err)
	}
	return confidence, nil
}
