package services

import (
	"context"
	"fmt"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

// DefaultSafeThreshold is the minimum risk score AUTO mode requires before
// executing a mitigation unattended.
const DefaultSafeThreshold = 80

// Governor decision reasons.
const (
	ReasonSafeMode     = "System in SAFE mode"
	ReasonReviewActive = "REVIEW_MODE_ACTIVE"
	ReasonAutoAllowed  = "AUTO_MODE_ALLOWED"
	ReasonRiskBelow    = "Risk below threshold"
	ReasonUnknownMode  = "Unknown mode fallback"
)

// GovernorService gates execution by governance mode and risk score.
type GovernorService struct {
	db            ports.RelationalDB
	safeThreshold int
}

// NewGovernorService creates a governor with the given auto-execution risk
// threshold; zero or negative falls back to the default.
func NewGovernorService(db ports.RelationalDB, safeThreshold int) *GovernorService {
	if safeThreshold <= 0 {
		safeThreshold = DefaultSafeThreshold
	}
	return &GovernorService{db: db, safeThreshold: safeThreshold}
}

// SafeThreshold returns the configured auto-execution risk threshold.
func (s *GovernorService) SafeThreshold() int {
	return s.safeThreshold
}

// CurrentMode reads the live governance mode. A missing config row reads as
// SAFE (fail closed); the row is lazily created on the first mode write.
func (s *GovernorService) CurrentMode(ctx context.Context) (entities.Mode, error) {
	cfg, err := s.db.GetGovernanceConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("reading governance config: %w", err)
	}
	if cfg == nil {
		return entities.ModeSafe, nil
	}
	return cfg.CurrentMode, nil
}

// Decide returns the single synchronous execution decision for a request.
// Unrecognized modes deny (fail closed).
func (s *GovernorService) Decide(ctx context.Context, riskScore int) (ports.GovernorDecision, error) {
	mode, err := s.CurrentMode(ctx)
	if err != nil {
		return ports.GovernorDecision{}, err
	}

	switch mode {
	case entities.ModeSafe:
		return ports.GovernorDecision{Allowed: false, Reason: ReasonSafeMode, Mode: mode}, nil
	case entities.ModeReview:
		// Allowed through, but the caller must route to human review.
		return ports.GovernorDecision{Allowed: true, Reason: ReasonReviewActive, Mode: mode}, nil
	case entities.ModeAuto:
		if riskScore >= s.safeThreshold {
			return ports.GovernorDecision{Allowed: true, Reason: ReasonAutoAllowed, Mode: mode}, nil
		}
		return ports.GovernorDecision{Allowed: false, Reason: ReasonRiskBelow, Mode: mode}, nil
	}
	return ports.GovernorDecision{Allowed: false, Reason: ReasonUnknownMode, Mode: mode}, nil
}

// SetMode is the administrator mode-change path, the only way the system
// leaves SAFE. It validates the mode, persists it with the actor identity
// and records a MODE_CHANGED audit event carrying the observed transition.
func (s *GovernorService) SetMode(ctx context.Context, mode entities.Mode, updatedBy string) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown governance mode %q", mode)
	}

	previous, err := s.CurrentMode(ctx)
	if err != nil {
		return err
	}
	if err := s.db.SetGovernanceMode(ctx, mode, updatedBy); err != nil {
		return fmt.Errorf("updating governance mode: %w", err)
	}

	event := &entities.AuditEvent{
		EventType:  entities.EventModeChanged,
		Actor:      entities.ActorAdmin,
		ModeAtTime: previous,
		Decision:   fmt.Sprintf("%s -> %s", previous, mode),
	}
	if err := s.db.AppendAuditEvent(ctx, event); err != nil {
		return fmt.Errorf("logging mode change: %w", err)
	}
	return nil
}
