package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

const (
	actionAccelThreshold = 0.3
	reasonEthicalBlock   = "ethical safety escalation"
)

// MitigationService sequences the full governance pipeline into one
// decision per medicine: risk, governor gate, recommendation, instability,
// drift, confidence, ethical escalation, then the action handler. Every
// terminal branch leaves an audit trace.
type MitigationService struct {
	db            ports.RelationalDB
	risk          ports.RiskScorer
	instability   ports.InstabilityEstimator
	drift         ports.DriftDetector
	confidence    ports.ConfidenceScorer
	escalation    ports.EscalationPolicy
	governor      ports.ExecutionGovernor
	recommender   ports.Recommender
	dispatcher    ports.Dispatcher
	safeThreshold int
	now           func() time.Time
}

// NewMitigationService wires the orchestrator's collaborators at
// construction time.
func NewMitigationService(
	db ports.RelationalDB,
	risk ports.RiskScorer,
	instability ports.InstabilityEstimator,
	drift ports.DriftDetector,
	confidence ports.ConfidenceScorer,
	escalation ports.EscalationPolicy,
	governor ports.ExecutionGovernor,
	recommender ports.Recommender,
	dispatcher ports.Dispatcher,
	safeThreshold int,
) *MitigationService {
	if safeThreshold <= 0 {
		safeThreshold = DefaultSafeThreshold
	}
	return &MitigationService{
		db:            db,
		risk:          risk,
		instability:   instability,
		drift:         drift,
		confidence:    confidence,
		escalation:    escalation,
		governor:      governor,
		recommender:   recommender,
		dispatcher:    dispatcher,
		safeThreshold: safeThreshold,
		now:           time.Now,
	}
}

// Evaluate runs the pipeline for one medicine and returns the structured
// outcome. Denials and deferrals are outcomes, not errors.
func (s *MitigationService) Evaluate(ctx context.Context, medicineID string) (*entities.MitigationOutcome, error) {
	snapshot, err := s.risk.Snapshot(ctx, medicineID)
	if err != nil {
		return nil, fmt.Errorf("computing risk snapshot: %w", err)
	}
	if !snapshot.HasConsumptionData() {
		return &entities.MitigationOutcome{
			MedicineID: medicineID,
			Status:     entities.OutcomeSkipped,
			Reason:     snapshot.Explanation,
			Snapshot:   snapshot,
		}, nil
	}

	decision, err := s.governor.Decide(ctx, snapshot.RiskScore)
	if err != nil {
		return nil, fmt.Errorf("consulting execution governor: %w", err)
	}
	if !decision.Allowed {
		if err := s.auditBlocked(ctx, medicineID, snapshot.RiskScore, decision.Mode); err != nil {
			return nil, err
		}
		if err := s.logFulfillment(ctx, entities.FulfillBlockedByGovernor, decision.Reason); err != nil {
			return nil, err
		}
		return &entities.MitigationOutcome{
			MedicineID: medicineID,
			Status:     entities.OutcomeBlocked,
			Reason:     decision.Reason,
			Snapshot:   snapshot,
		}, nil
	}

	report, err := s.instability.Estimate(ctx, medicineID)
	if err != nil {
		return nil, fmt.Errorf("estimating instability: %w", err)
	}
	action, _ := s.recommender.Recommend(snapshot, report.Multiplier)
	finalQuantity := int(math.Round(float64(snapshot.RecommendedQuantity) * report.Multiplier))

	flags, err := s.drift.Evaluate(ctx, snapshot.RiskScore, report.Multiplier)
	if err != nil {
		return nil, fmt.Errorf("detecting drift: %w", err)
	}

	// The escalation input mode is derived from the governor's answer, not
	// re-read from storage: REVIEW if the governor deferred, else AUTO.
	currentMode := entities.ModeAuto
	if decision.Reason == ReasonReviewActive {
		currentMode = entities.ModeReview
	}

	confidence, err := s.confidence.Score(ctx, snapshot.RiskScore, flags, currentMode, report.Multiplier)
	if err != nil {
		return nil, fmt.Errorf("scoring confidence: %w", err)
	}

	finalMode, err := s.escalation.Evaluate(ctx, confidence, len(flags), currentMode)
	if err != nil {
		return nil, fmt.Errorf("evaluating ethical escalation: %w", err)
	}
	if finalMode == entities.ModeSafe && currentMode != entities.ModeSafe {
		if err := s.auditBlocked(ctx, medicineID, snapshot.RiskScore, entities.ModeSafe); err != nil {
			return nil, err
		}
		if err := s.logFulfillment(ctx, entities.FulfillBlockedByEthics, "Ethical safety enforcement escalated mode to SAFE"); err != nil {
			return nil, err
		}
		return &entities.MitigationOutcome{
			MedicineID: medicineID,
			Status:     entities.OutcomeBlocked,
			Reason:     reasonEthicalBlock,
			Snapshot:   snapshot,
		}, nil
	}

	if finalMode == entities.ModeReview || currentMode == entities.ModeReview {
		reviewID, err := s.createReview(ctx, medicineID, snapshot.RiskScore, action, finalQuantity, finalMode)
		if err != nil {
			return nil, err
		}
		return &entities.MitigationOutcome{
			MedicineID: medicineID,
			Status:     entities.OutcomePendingReview,
			Action:     action,
			Quantity:   finalQuantity,
			ReviewID:   reviewID,
			Snapshot:   snapshot,
		}, nil
	}

	outcome, err := s.executeAction(ctx, medicineID, action, snapshot, finalQuantity, snapshot.RiskScore)
	if err != nil {
		return nil, err
	}
	if outcome.Status == entities.OutcomeExecuted {
		if err := s.auditExecuted(ctx, medicineID, snapshot.RiskScore, entities.ModeAuto); err != nil {
			return nil, err
		}
	}
	outcome.Snapshot = snapshot
	return outcome, nil
}

// ExecuteApproved executes a previously approved review's stored payload
// through the same action handler. Governance was satisfied at review
// creation; the approval itself is the override, so no re-evaluation.
func (s *MitigationService) ExecuteApproved(ctx context.Context, payload entities.ReviewPayload) (*entities.MitigationOutcome, error) {
	outcome, err := s.executeAction(ctx, payload.MedicineID, payload.Action, nil, payload.Quantity, payload.RiskScore)
	if err != nil {
		return nil, err
	}
	if outcome.Status == entities.OutcomeExecuted {
		if err := s.auditExecuted(ctx, payload.MedicineID, payload.RiskScore, entities.ModeReview); err != nil {
			return nil, err
		}
	}
	return outcome, nil
}

// ApproveReview resolves a pending review and executes its payload.
func (s *MitigationService) ApproveReview(ctx context.Context, reviewID, reviewedBy string) (*entities.MitigationOutcome, error) {
	review, err := s.db.FindReviewByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("finding review: %w", err)
	}
	if review == nil {
		return nil, fmt.Errorf("review not found: %s", reviewID)
	}
	if err := s.db.ResolveReview(ctx, reviewID, entities.ReviewApproved, reviewedBy, s.now()); err != nil {
		return nil, fmt.Errorf("approving review: %w", err)
	}

	event := &entities.AuditEvent{
		EventType:      entities.EventReviewApproved,
		Actor:          entities.ActorAdmin,
		RiskScore:      &review.RiskScore,
		ModeAtTime:     entities.ModeReview,
		Decision:       "approved",
		ReferenceID:    review.ID,
		ReferenceTable: "mitigation_reviews",
	}
	if err := s.db.AppendAuditEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("logging review approval: %w", err)
	}

	outcome, err := s.ExecuteApproved(ctx, review.Payload)
	if err != nil {
		return nil, err
	}
	if err := s.logFulfillment(ctx, entities.FulfillApprovedByAdmin, fmt.Sprintf("Review %s approved and executed", reviewID)); err != nil {
		return nil, err
	}
	return outcome, nil
}

// RejectReview resolves a pending review without executing anything.
func (s *MitigationService) RejectReview(ctx context.Context, reviewID, reviewedBy string) error {
	review, err := s.db.FindReviewByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("finding review: %w", err)
	}
	if review == nil {
		return fmt.Errorf("review not found: %s", reviewID)
	}
	if err := s.db.ResolveReview(ctx, reviewID, entities.ReviewRejected, reviewedBy, s.now()); err != nil {
		return fmt.Errorf("rejecting review: %w", err)
	}

	event := &entities.AuditEvent{
		EventType:      entities.EventReviewRejected,
		Actor:          entities.ActorAdmin,
		RiskScore:      &review.RiskScore,
		ModeAtTime:     entities.ModeReview,
		Decision:       "rejected",
		ReferenceID:    review.ID,
		ReferenceTable: "mitigation_reviews",
	}
	if err := s.db.AppendAuditEvent(ctx, event); err != nil {
		return fmt.Errorf("logging review rejection: %w", err)
	}
	return s.logFulfillment(ctx, entities.FulfillRejectedByAdmin, fmt.Sprintf("Review %s rejected", reviewID))
}

// executeAction is the terminal action handler. The approved-payload path
// passes a nil snapshot; its acceleration reads as zero.
func (s *MitigationService) executeAction(ctx context.Context, medicineID string, action entities.Action, snapshot *entities.RiskSnapshot, quantity, riskScore int) (*entities.MitigationOutcome, error) {
	switch action {
	case entities.ActionRestockImmediate:
		if riskScore < s.safeThreshold {
			return &entities.MitigationOutcome{
				MedicineID: medicineID,
				Status:     entities.OutcomeBlocked,
				Action:     action,
				Reason:     ReasonRiskBelow,
			}, nil
		}
		return s.dispatchRestock(ctx, medicineID, action, snapshot, quantity)

	case entities.ActionSafetyStockIncrease:
		acceleration := 0.0
		if snapshot != nil {
			acceleration = snapshot.AccelerationFactor
		}
		if acceleration <= actionAccelThreshold {
			return &entities.MitigationOutcome{
				MedicineID: medicineID,
				Status:     entities.OutcomeBlocked,
				Action:     action,
				Reason:     "No demand acceleration",
			}, nil
		}
		return s.dispatchRestock(ctx, medicineID, action, snapshot, quantity)

	case entities.ActionSupplierEscalation, entities.ActionMonitor:
		return &entities.MitigationOutcome{
			MedicineID: medicineID,
			Status:     entities.OutcomeManualRequired,
			Action:     action,
		}, nil
	}
	// Closed action set; anything else is a corrupted payload.
	return &entities.MitigationOutcome{
		MedicineID: medicineID,
		Status:     entities.OutcomeBlocked,
		Action:     action,
		Reason:     fmt.Sprintf("unknown action type %q", action),
	}, nil
}

// dispatchRestock hands the restock to the priority queue. The fulfillment
// call itself is fire-and-forget relative to this decision.
func (s *MitigationService) dispatchRestock(ctx context.Context, medicineID string, action entities.Action, snapshot *entities.RiskSnapshot, quantity int) (*entities.MitigationOutcome, error) {
	priority := entities.PriorityStable
	if snapshot != nil {
		priority = snapshot.Priority
	}
	s.dispatcher.Enqueue(entities.DispatchTask{
		Priority:   priority,
		MedicineID: medicineID,
		Quantity:   quantity,
	})
	message := fmt.Sprintf("%s executed with adaptive qty %d", action, quantity)
	if err := s.logFulfillment(ctx, entities.FulfillAutoExecuted, message); err != nil {
		return nil, err
	}
	return &entities.MitigationOutcome{
		MedicineID: medicineID,
		Status:     entities.OutcomeExecuted,
		Action:     action,
		Quantity:   quantity,
	}, nil
}

func (s *MitigationService) createReview(ctx context.Context, medicineID string, riskScore int, action entities.Action, quantity int, mode entities.Mode) (string, error) {
	review := &entities.MitigationReview{
		ID:           uuid.New().String(),
		MitigationID: medicineID,
		RiskScore:    riskScore,
		ActionType:   action,
		Payload: entities.ReviewPayload{
			MedicineID: medicineID,
			Action:     action,
			Quantity:   quantity,
			RiskScore:  riskScore,
		},
		Status:    entities.ReviewPending,
		CreatedAt: s.now(),
	}
	if err := s.db.SaveReview(ctx, review); err != nil {
		return "", fmt.Errorf("saving mitigation review: %w", err)
	}

	event := &entities.AuditEvent{
		EventType:      entities.EventReviewCreated,
		Actor:          entities.ActorSystem,
		RiskScore:      &riskScore,
		ModeAtTime:     mode,
		Decision:       "pending",
		ReferenceID:    review.ID,
		ReferenceTable: "mitigation_reviews",
	}
	if err := s.db.AppendAuditEvent(ctx, event); err != nil {
		return "", fmt.Errorf("logging review creation: %w", err)
	}
	if err := s.logFulfillment(ctx, entities.FulfillPendingReview, fmt.Sprintf("Mitigation queued for review. Review ID: %s", review.ID)); err != nil {
		return "", err
	}
	return review.ID, nil
}

func (s *MitigationService) auditBlocked(ctx context.Context, medicineID string, riskScore int, observedMode entities.Mode) error {
	event := &entities.AuditEvent{
		EventType:      entities.EventSafeBlocked,
		Actor:          entities.ActorSystem,
		RiskScore:      &riskScore,
		ModeAtTime:     observedMode,
		Decision:       "blocked",
		ReferenceID:    medicineID,
		ReferenceTable: "medicines",
	}
	if err := s.db.AppendAuditEvent(ctx, event); err != nil {
		return fmt.Errorf("logging blocked execution: %w", err)
	}
	return nil
}

func (s *MitigationService) auditExecuted(ctx context.Context, medicineID string, riskScore int, mode entities.Mode) error {
	event := &entities.AuditEvent{
		EventType:      entities.EventMitigationExecuted,
		Actor:          entities.ActorSystem,
		RiskScore:      &riskScore,
		ModeAtTime:     mode,
		Decision:       "executed",
		ReferenceID:    medicineID,
		ReferenceTable: "medicines",
	}
	if err := s.db.AppendAuditEvent(ctx, event); err != nil {
		return fmt.Errorf("logging executed mitigation: %w", err)
	}
	return nil
}

func (s *MitigationService) logFulfillment(ctx context.Context, status, message string) error {
	log := &entities.FulfillmentLog{
		ID:      uuid.New().String(),
		Status:  status,
		Message: message,
	}
	if err := s.db.AppendFulfillmentLog(ctx, log); err != nil {
		return fmt.Errorf("appending fulfillment log: %w", err)
	}
	return nil
}
