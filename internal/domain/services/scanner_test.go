package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/mocks"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

func newScannerForTest(db *mocks.RelationalDB, evaluator ports.Evaluator) *ScannerService {
	risk := NewRiskService(db)
	risk.now = fixedNow
	dispatcher := NewDispatchService(db, &mocks.Fulfiller{})
	svc := NewScannerService(db, risk, evaluator, dispatcher, DefaultLowStockThreshold)
	svc.now = fixedNow
	return svc
}

func TestScannerService_InventoryScan(t *testing.T) {
	db := mocks.NewRelationalDB()
	seedMedicine(db, "low", "Paracetamol", 4)
	seedMedicine(db, "ok", "Ibuprofen", 50)
	svc := newScannerForTest(db, nil)

	report, err := svc.InventoryScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Flagged)
	assert.Empty(t, report.Failures)

	require.Len(t, db.Escalations, 1)
	assert.Equal(t, "low", db.Escalations[0].MedicineID)
	assert.Equal(t, 4, db.Escalations[0].CurrentStock)
	assert.Equal(t, DefaultLowStockThreshold, db.Escalations[0].Threshold)
	assert.False(t, db.Escalations[0].RestockTriggered)
}

func TestScannerService_InventoryScan_DeduplicatesByStockLevel(t *testing.T) {
	db := mocks.NewRelationalDB()
	seedMedicine(db, "low", "Paracetamol", 4)
	svc := newScannerForTest(db, nil)

	_, err := svc.InventoryScan(context.Background())
	require.NoError(t, err)
	report, err := svc.InventoryScan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Flagged)
	assert.Len(t, db.Escalations, 1)

	// A different low level raises a fresh escalation.
	require.NoError(t, db.UpdateMedicineStock(context.Background(), "low", 2))
	report, err = svc.InventoryScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Flagged)
	assert.Len(t, db.Escalations, 2)
}

func TestScannerService_DemandScan(t *testing.T) {
	db := mocks.NewRelationalDB()
	// Depletes in 5 days: flagged and enqueued.
	seedMedicine(db, "urgent", "Amoxicillin", 50)
	seedOrder(db, "urgent", 300, 20)
	// Months of stock: skipped.
	seedMedicine(db, "calm", "Ibuprofen", 5000)
	_ = db.SaveOrder(context.Background(), &entities.Order{
		ID: "calm-order", MedicineID: "calm", Quantity: 300, OrderDate: fixedNow().AddDate(0, 0, -20),
	})
	// No consumption: skipped.
	seedMedicine(db, "dormant", "Insulin", 5)
	svc := newScannerForTest(db, nil)

	report, err := svc.DemandScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Flagged)
}

func TestScannerService_MitigationScan(t *testing.T) {
	db := mocks.NewRelationalDB()
	seedThresholdRisk(db)
	seedMedicine(db, "med-2", "Ibuprofen", 5000)
	setMode(t, db, entities.ModeAuto)
	p := newPipeline(db)
	svc := newScannerForTest(db, p.service)

	report, err := svc.MitigationScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Flagged)
	assert.Empty(t, report.Failures)
}

func TestScannerService_ThresholdFallback(t *testing.T) {
	svc := NewScannerService(mocks.NewRelationalDB(), nil, nil, nil, 0)
	assert.Equal(t, DefaultLowStockThreshold, svc.lowStockThreshold)
}
