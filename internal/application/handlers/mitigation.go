// Package handlers exposes the application layer operations the CLI and
// serve loop drive.
package handlers

import (
	"context"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/services"
)

// MitigationHandler handles mitigation evaluation and scan operations.
type MitigationHandler struct {
	mitigationService *services.MitigationService
	scannerService    *services.ScannerService
	dispatchService   *services.DispatchService
}

// NewMitigationHandler creates a new MitigationHandler.
func NewMitigationHandler(mitigation *services.MitigationService, scanner *services.ScannerService, dispatcher *services.DispatchService) *MitigationHandler {
	return &MitigationHandler{
		mitigationService: mitigation,
		scannerService:    scanner,
		dispatchService:   dispatcher,
	}
}

// HandleEvaluate runs the full governance pipeline for one medicine and
// drains any work it queued.
func (h *MitigationHandler) HandleEvaluate(ctx context.Context, medicineID string) (*entities.MitigationOutcome, error) {
	outcome, err := h.mitigationService.Evaluate(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	h.dispatchService.Drain(ctx)
	return outcome, nil
}

// ScanResult bundles one scan pass with the dispatch work it produced.
type ScanResult struct {
	Scan     services.ScanReport     `json:"scan"`
	Dispatch services.DispatchReport `json:"dispatch"`
}

// HandleInventoryScan runs the low-stock threshold scan.
func (h *MitigationHandler) HandleInventoryScan(ctx context.Context) (*ScanResult, error) {
	report, err := h.scannerService.InventoryScan(ctx)
	if err != nil {
		return nil, err
	}
	return &ScanResult{Scan: report}, nil
}

// HandleDemandScan runs the velocity scan and dispatches the queued work.
func (h *MitigationHandler) HandleDemandScan(ctx context.Context) (*ScanResult, error) {
	report, err := h.scannerService.DemandScan(ctx)
	if err != nil {
		return nil, err
	}
	dispatch := h.dispatchService.Drain(ctx)
	return &ScanResult{Scan: report, Dispatch: dispatch}, nil
}

// HandleMitigationScan runs the full pipeline over the inventory and
// dispatches the queued work.
func (h *MitigationHandler) HandleMitigationScan(ctx context.Context) (*ScanResult, error) {
	report, err := h.scannerService.MitigationScan(ctx)
	if err != nil {
		return nil, err
	}
	dispatch := h.dispatchService.Drain(ctx)
	return &ScanResult{Scan: report, Dispatch: dispatch}, nil
}
