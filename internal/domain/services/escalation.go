package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

// Ethical safety thresholds. Deliberately not configurable.
const (
	ethicalConfidenceCritical = 40.0
	ethicalConfidenceWarning  = 60.0
	ethicalDriftCriticalCount = 2
)

// EscalationService is the ethical safety state machine. It evaluates the
// rules in strict priority order and can only raise the governance mode;
// SAFE is a sink that only a human administrator can leave.
type EscalationService struct {
	db ports.RelationalDB

	// mu serializes mode writes so two concurrent evaluators cannot
	// interleave their persist and audit steps. Last write wins; each
	// writer's audit event records the mode it actually observed.
	mu sync.Mutex
}

// NewEscalationService creates a new EscalationService.
func NewEscalationService(db ports.RelationalDB) *EscalationService {
	return &EscalationService{db: db}
}

// Evaluate applies the escalation rules and returns the resulting mode.
// Rules, first match wins:
//
//	A. confidence < 40: force SAFE
//	B. drift flags >= 2: escalate one step (AUTO->REVIEW, REVIEW->SAFE)
//	C. confidence in [40,60) while AUTO: REVIEW
//	D. otherwise unchanged
//
// A changed mode is persisted system-initiated and recorded as an
// ETHICAL_OVERRIDE audit event.
func (s *EscalationService) Evaluate(ctx context.Context, confidence float64, driftCount int, current entities.Mode) (entities.Mode, error) {
	var next entities.Mode
	switch {
	case confidence < ethicalConfidenceCritical:
		next = entities.ModeSafe
	case driftCount >= ethicalDriftCriticalCount:
		next = escalateOneStep(current)
	case confidence < ethicalConfidenceWarning && current == entities.ModeAuto:
		next = entities.ModeReview
	default:
		next = current
	}

	if next == current {
		return next, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.SetGovernanceMode(ctx, next, ""); err != nil {
		return current, fmt.Errorf("persisting escalated mode: %w", err)
	}
	event := &entities.AuditEvent{
		EventType:  entities.EventEthicalOverride,
		Actor:      entities.ActorSystem,
		ModeAtTime: current,
		Decision:   fmt.Sprintf("%s -> %s", current, next),
	}
	if err := s.db.AppendAuditEvent(ctx, event); err != nil {
		return next, fmt.Errorf("logging ethical override: %w", err)
	}
	return next, nil
}

func escalateOneStep(mode entities.Mode) entities.Mode {
	switch mode {
	case entities.ModeAuto:
		return entities.ModeReview
	case entities.ModeReview:
		return entities.ModeSafe
	}
	return entities.ModeSafe
}
