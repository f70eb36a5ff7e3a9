package handlers

import (
	"context"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
	"github.com/ersonp/restock-core/internal/domain/services"
)

// AdminHandler handles governance mode administration, metrics and the
// audit surfaces.
type AdminHandler struct {
	db              ports.RelationalDB
	governorService *services.GovernorService
	metricsService  *services.MetricsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db ports.RelationalDB, governor *services.GovernorService, metrics *services.MetricsService) *AdminHandler {
	return &AdminHandler{
		db:              db,
		governorService: governor,
		metricsService:  metrics,
	}
}

// HandleCurrentMode returns the live governance mode.
func (h *AdminHandler) HandleCurrentMode(ctx context.Context) (entities.Mode, error) {
	return h.governorService.CurrentMode(ctx)
}

// HandleSetMode changes the governance mode on behalf of an administrator.
// This is the only path that can leave SAFE.
func (h *AdminHandler) HandleSetMode(ctx context.Context, mode string, updatedBy string) (entities.Mode, error) {
	parsed, err := entities.ParseMode(mode)
	if err != nil {
		return "", err
	}
	if err := h.governorService.SetMode(ctx, parsed, updatedBy); err != nil {
		return "", err
	}
	return parsed, nil
}

// HandleMetrics collects the system health aggregates.
func (h *AdminHandler) HandleMetrics(ctx context.Context) (*services.SystemMetrics, error) {
	return h.metricsService.Collect(ctx)
}

// HandleRecentAudit returns the newest audit events.
func (h *AdminHandler) HandleRecentAudit(ctx context.Context, limit int) ([]entities.AuditEvent, error) {
	return h.db.RecentAuditEvents(ctx, limit)
}

// HandleRecentFulfillment returns the newest fulfillment log entries.
func (h *AdminHandler) HandleRecentFulfillment(ctx context.Context, limit int) ([]entities.FulfillmentLog, error) {
	return h.db.RecentFulfillmentLogs(ctx, limit)
}
