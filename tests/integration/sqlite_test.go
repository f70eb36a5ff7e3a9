package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/infrastructure/config"
	"github.com/ersonp/restock-core/internal/infrastructure/relationaldb/sqlite"
)

func TestSQLiteIntegration_FileDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	defer repo.Close()

	ctx := t.Context()
	require.NoError(t, repo.EnsureSchema(ctx))

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "database file should exist")

	require.NoError(t, repo.SaveMedicine(ctx, &entities.Medicine{
		ID:    "med-1",
		Name:  "Amoxicillin",
		Stock: 25,
	}))
	require.NoError(t, repo.SaveOrder(ctx, &entities.Order{
		ID:         "ord-1",
		MedicineID: "med-1",
		Quantity:   40,
		OrderDate:  time.Now().AddDate(0, 0, -5),
	}))
	require.NoError(t, repo.SetGovernanceMode(ctx, entities.ModeReview, "alice"))

	riskScore := 55
	require.NoError(t, repo.AppendAuditEvent(ctx, &entities.AuditEvent{
		EventType:  entities.EventMitigationExecuted,
		Actor:      entities.ActorSystem,
		RiskScore:  &riskScore,
		ModeAtTime: entities.ModeReview,
		Decision:   "allowed",
	}))

	// Close and reopen. Data should persist.
	require.NoError(t, repo.Close())

	repo2, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	defer repo2.Close()

	medicine, err := repo2.FindMedicineByID(ctx, "med-1")
	require.NoError(t, err)
	require.NotNil(t, medicine)
	assert.Equal(t, 25, medicine.Stock)

	total, err := repo2.SumOrderQuantity(ctx, "med-1", time.Now().AddDate(0, 0, -30), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 40, total)

	cfg, err := repo2.GetGovernanceConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, entities.ModeReview, cfg.CurrentMode)
	assert.Equal(t, "alice", cfg.UpdatedBy)

	events, err := repo2.RecentAuditEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 55, events[0].RiskScoreValue())
}

func TestSQLiteIntegration_ReviewResolutionIsTerminal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	defer repo.Close()

	ctx := t.Context()
	require.NoError(t, repo.EnsureSchema(ctx))

	review := &entities.MitigationReview{
		ID:           "rev-1",
		MitigationID: "med-1",
		RiskScore:    72,
		ActionType:   entities.ActionRestockImmediate,
		Payload: entities.ReviewPayload{
			MedicineID: "med-1",
			Action:     entities.ActionRestockImmediate,
			Quantity:   80,
			RiskScore:  72,
		},
		Status: entities.ReviewPending,
	}
	require.NoError(t, repo.SaveReview(ctx, review))

	pending, err := repo.ListPendingReviews(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 80, pending[0].Payload.Quantity)

	require.NoError(t, repo.ResolveReview(ctx, "rev-1", entities.ReviewApproved, "alice", time.Now()))

	// The terminal status is written exactly once.
	err = repo.ResolveReview(ctx, "rev-1", entities.ReviewRejected, "bob", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already processed")

	resolved, err := repo.FindReviewByID(ctx, "rev-1")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, entities.ReviewApproved, resolved.Status)
	assert.Equal(t, "alice", resolved.ReviewedBy)
	require.NotNil(t, resolved.ReviewedAt)

	empty, err := repo.ListPendingReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteIntegration_ConcurrentAppends(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	defer repo.Close()

	ctx := t.Context()
	require.NoError(t, repo.EnsureSchema(ctx))

	// WAL mode plus the busy timeout must absorb concurrent writers.
	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			done <- repo.AppendAuditEvent(ctx, &entities.AuditEvent{
				EventType:  entities.EventConfidenceScore,
				Actor:      entities.ActorSystem,
				ModeAtTime: entities.ModeAuto,
				Decision:   "55.0",
			})
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}

	count, err := repo.CountAuditEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}
