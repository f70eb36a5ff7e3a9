package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/mocks"
	"github.com/ersonp/restock-core/internal/domain/services"
)

func newAdminHandler(db *mocks.RelationalDB) *AdminHandler {
	governor := services.NewGovernorService(db, services.DefaultSafeThreshold)
	metrics := services.NewMetricsService(db, governor)
	return NewAdminHandler(db, governor, metrics)
}

func TestAdminHandler_HandleSetMode(t *testing.T) {
	db := mocks.NewRelationalDB()
	handler := newAdminHandler(db)

	mode, err := handler.HandleSetMode(context.Background(), "AUTO", "ops-admin")
	require.NoError(t, err)
	assert.Equal(t, entities.ModeAuto, mode)

	current, err := handler.HandleCurrentMode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.ModeAuto, current)
}

func TestAdminHandler_HandleSetMode_Invalid(t *testing.T) {
	db := mocks.NewRelationalDB()
	handler := newAdminHandler(db)

	_, err := handler.HandleSetMode(context.Background(), "TURBO", "ops-admin")
	require.Error(t, err)
	assert.Empty(t, db.Events)
}

func TestAdminHandler_HandleCurrentMode_FailsClosed(t *testing.T) {
	handler := newAdminHandler(mocks.NewRelationalDB())

	mode, err := handler.HandleCurrentMode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.ModeSafe, mode)
}

func TestAdminHandler_HandleMetrics(t *testing.T) {
	db := mocks.NewRelationalDB()
	handler := newAdminHandler(db)

	metrics, err := handler.HandleMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.ModeSafe, metrics.CurrentMode)
	assert.Equal(t, 0, metrics.TotalAuditEvents)
}

func TestInventoryHandler_AddAndList(t *testing.T) {
	db := mocks.NewRelationalDB()
	handler := NewInventoryHandler(db)

	medicine, err := handler.HandleAddMedicine(context.Background(), "Paracetamol", 100)
	require.NoError(t, err)
	require.NotEmpty(t, medicine.ID)

	medicines, err := handler.HandleListMedicines(context.Background())
	require.NoError(t, err)
	require.Len(t, medicines, 1)
	assert.Equal(t, "Paracetamol", medicines[0].Name)

	require.NoError(t, handler.HandleSetStock(context.Background(), medicine.ID, 40))

	order, err := handler.HandleRecordOrder(context.Background(), medicine.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, order.Quantity)
}
