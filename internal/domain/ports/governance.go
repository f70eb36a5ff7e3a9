package ports

import (
	"context"

	"github.com/ersonp/restock-core/internal/domain/entities"
)

// The orchestrator depends on these capability interfaces rather than on
// concrete services, wired at construction time.

// RiskScorer produces the per-medicine risk assessment.
type RiskScorer interface {
	// Snapshot computes the transient risk snapshot for a medicine.
	// Missing consumption history yields a zero-risk snapshot, not an error.
	Snapshot(ctx context.Context, medicineID string) (*entities.RiskSnapshot, error)
}

// InstabilityEstimator derives the self-healing quantity multiplier from
// recent escalation and order volatility.
type InstabilityEstimator interface {
	Estimate(ctx context.Context, medicineID string) (entities.InstabilityReport, error)
}

// DriftDetector scans recent audit history for behavioral anomalies.
type DriftDetector interface {
	// Evaluate returns the raised drift flags, possibly none. Every flag is
	// recorded in the audit trail before returning.
	Evaluate(ctx context.Context, currentRisk int, currentMultiplier float64) ([]entities.DriftFlag, error)
}

// ConfidenceScorer combines risk, drift, mode and multiplier into a trust
// score in [0,100].
type ConfidenceScorer interface {
	Score(ctx context.Context, riskScore int, flags []entities.DriftFlag, mode entities.Mode, multiplier float64) (float64, error)
}

// EscalationPolicy is the ethical safety state machine. It may only raise
// the governance mode; de-escalation is an external human action.
type EscalationPolicy interface {
	Evaluate(ctx context.Context, confidence float64, driftCount int, current entities.Mode) (entities.Mode, error)
}

// GovernorDecision is the execution governor's answer for one request.
// Mode records the governance mode the governor actually observed.
type GovernorDecision struct {
	Allowed bool
	Reason  string
	Mode    entities.Mode
}

// ExecutionGovernor gates execution by governance mode and risk score.
type ExecutionGovernor interface {
	// Decide evaluates whether execution may proceed. An unknown mode is
	// denied (fail closed).
	Decide(ctx context.Context, riskScore int) (GovernorDecision, error)

	// CurrentMode returns the live governance mode. A missing config row
	// reads as SAFE.
	CurrentMode(ctx context.Context) (entities.Mode, error)
}

// Recommender maps risk signals to a mitigation action.
type Recommender interface {
	Recommend(snapshot *entities.RiskSnapshot, multiplier float64) (entities.Action, string)
}

// Dispatcher accepts restock work for capacity-bounded execution.
type Dispatcher interface {
	Enqueue(task entities.DispatchTask)
}

// Evaluator runs the full mitigation pipeline for one medicine. Used by the
// scheduled mitigation scan.
type Evaluator interface {
	Evaluate(ctx context.Context, medicineID string) (*entities.MitigationOutcome, error)
}
