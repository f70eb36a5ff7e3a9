package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

// InventoryHandler handles medicine and order record keeping.
type InventoryHandler struct {
	db ports.RelationalDB
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(db ports.RelationalDB) *InventoryHandler {
	return &InventoryHandler{db: db}
}

// HandleAddMedicine registers a medicine under governance.
func (h *InventoryHandler) HandleAddMedicine(ctx context.Context, name string, stock int) (*entities.Medicine, error) {
	medicine := &entities.Medicine{
		ID:    uuid.New().String(),
		Name:  name,
		Stock: stock,
	}
	if err := h.db.SaveMedicine(ctx, medicine); err != nil {
		return nil, err
	}
	return medicine, nil
}

// HandleListMedicines lists all medicines ordered by name.
func (h *InventoryHandler) HandleListMedicines(ctx context.Context) ([]entities.Medicine, error) {
	return h.db.ListMedicines(ctx)
}

// HandleSetStock updates a medicine's stock level.
func (h *InventoryHandler) HandleSetStock(ctx context.Context, medicineID string, stock int) error {
	return h.db.UpdateMedicineStock(ctx, medicineID, stock)
}

// HandleRecordOrder records one consumption order dated now.
func (h *InventoryHandler) HandleRecordOrder(ctx context.Context, medicineID string, quantity int) (*entities.Order, error) {
	order := &entities.Order{
		ID:         uuid.New().String(),
		MedicineID: medicineID,
		Quantity:   quantity,
		OrderDate:  time.Now(),
	}
	if err := h.db.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
