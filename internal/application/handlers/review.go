package handlers

import (
	"context"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
	"github.com/ersonp/restock-core/internal/domain/services"
)

// ReviewHandler handles the human review administration surface.
type ReviewHandler struct {
	db                ports.RelationalDB
	mitigationService *services.MitigationService
	dispatchService   *services.DispatchService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(db ports.RelationalDB, mitigation *services.MitigationService, dispatcher *services.DispatchService) *ReviewHandler {
	return &ReviewHandler{
		db:                db,
		mitigationService: mitigation,
		dispatchService:   dispatcher,
	}
}

// HandleListPending returns reviews awaiting a decision, oldest first.
func (h *ReviewHandler) HandleListPending(ctx context.Context) ([]entities.MitigationReview, error) {
	return h.db.ListPendingReviews(ctx)
}

// HandleApprove resolves a review, executes its stored payload and drains
// any dispatched work.
func (h *ReviewHandler) HandleApprove(ctx context.Context, reviewID, reviewedBy string) (*entities.MitigationOutcome, error) {
	outcome, err := h.mitigationService.ApproveReview(ctx, reviewID, reviewedBy)
	if err != nil {
		return nil, err
	}
	h.dispatchService.Drain(ctx)
	return outcome, nil
}

// HandleReject resolves a review without executing anything.
func (h *ReviewHandler) HandleReject(ctx context.Context, reviewID, reviewedBy string) error {
	return h.mitigationService.RejectReview(ctx, reviewID, reviewedBy)
}
