package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	// Verify tables exist
	tables := []string{"medicines", "orders", "audit_log", "governance_config", "inventory_escalations", "mitigation_reviews", "fulfillment_logs"}
	for _, table := range tables {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestRepository_EnsureSchema_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)

	// Should not error when called again
	err := repo.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestRepository_AuditTrail(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("append assigns sequential ids", func(t *testing.T) {
		risk := 75
		first := &entities.AuditEvent{
			EventType:  entities.EventConfidenceScore,
			Actor:      entities.ActorSystem,
			RiskScore:  &risk,
			ModeAtTime: entities.ModeAuto,
			Decision:   "62.5",
		}
		second := &entities.AuditEvent{
			EventType:  entities.EventDriftAlert,
			Actor:      entities.ActorSystem,
			ModeAtTime: entities.ModeAuto,
			Decision:   string(entities.DriftReviewSpike),
		}

		require.NoError(t, repo.AppendAuditEvent(ctx, first))
		require.NoError(t, repo.AppendAuditEvent(ctx, second))
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("recent events newest first", func(t *testing.T) {
		events, err := repo.RecentAuditEvents(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, entities.EventDriftAlert, events[0].EventType)
		assert.Equal(t, entities.EventConfidenceScore, events[1].EventType)
		assert.Equal(t, 75, events[1].RiskScoreValue())
		assert.Nil(t, events[0].RiskScore)
	})

	t.Run("counts", func(t *testing.T) {
		total, err := repo.CountAuditEvents(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		byType, err := repo.CountAuditEventsByType(ctx, entities.EventDriftAlert)
		require.NoError(t, err)
		assert.Equal(t, 1, byType)
	})

	t.Run("limit respected", func(t *testing.T) {
		events, err := repo.RecentAuditEvents(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func TestRepository_GovernanceConfig(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("missing row reads as nil", func(t *testing.T) {
		cfg, err := repo.GetGovernanceConfig(ctx)
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("upsert creates then updates", func(t *testing.T) {
		require.NoError(t, repo.SetGovernanceMode(ctx, entities.ModeAuto, ""))

		cfg, err := repo.GetGovernanceConfig(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, entities.ModeAuto, cfg.CurrentMode)
		assert.Empty(t, cfg.UpdatedBy)

		require.NoError(t, repo.SetGovernanceMode(ctx, entities.ModeSafe, "ops-admin"))
		cfg, err = repo.GetGovernanceConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, entities.ModeSafe, cfg.CurrentMode)
		assert.Equal(t, "ops-admin", cfg.UpdatedBy)
	})
}

func TestRepository_Medicines(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("save and find", func(t *testing.T) {
		med := &entities.Medicine{ID: "med-1", Name: "Paracetamol", Stock: 100}
		require.NoError(t, repo.SaveMedicine(ctx, med))

		found, err := repo.FindMedicineByID(ctx, "med-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Paracetamol", found.Name)
		assert.Equal(t, 100, found.Stock)
	})

	t.Run("not found returns nil", func(t *testing.T) {
		found, err := repo.FindMedicineByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("update stock", func(t *testing.T) {
		require.NoError(t, repo.UpdateMedicineStock(ctx, "med-1", 40))
		found, err := repo.FindMedicineByID(ctx, "med-1")
		require.NoError(t, err)
		assert.Equal(t, 40, found.Stock)
	})

	t.Run("update stock missing medicine", func(t *testing.T) {
		require.Error(t, repo.UpdateMedicineStock(ctx, "missing", 40))
	})

	t.Run("list ordered by name", func(t *testing.T) {
		require.NoError(t, repo.SaveMedicine(ctx, &entities.Medicine{ID: "med-2", Name: "Amoxicillin", Stock: 50}))

		medicines, err := repo.ListMedicines(ctx)
		require.NoError(t, err)
		require.Len(t, medicines, 2)
		assert.Equal(t, "Amoxicillin", medicines[0].Name)
		assert.Equal(t, "Paracetamol", medicines[1].Name)
	})
}

func TestRepository_Orders(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	save := func(id string, qty, daysAgo int) {
		require.NoError(t, repo.SaveOrder(ctx, &entities.Order{
			ID:         id,
			MedicineID: "med-1",
			Quantity:   qty,
			OrderDate:  now.AddDate(0, 0, -daysAgo),
		}))
	}
	save("o1", 100, 2)
	save("o2", 50, 10)
	save("o3", 75, 40) // outside the 30-day window

	t.Run("sum respects half-open window", func(t *testing.T) {
		sum, err := repo.SumOrderQuantity(ctx, "med-1", now.AddDate(0, 0, -30), now)
		require.NoError(t, err)
		assert.Equal(t, 150, sum)
	})

	t.Run("sum excludes upper bound", func(t *testing.T) {
		sum, err := repo.SumOrderQuantity(ctx, "med-1", now.AddDate(0, 0, -30), now.AddDate(0, 0, -2))
		require.NoError(t, err)
		assert.Equal(t, 50, sum)
	})

	t.Run("empty window sums zero", func(t *testing.T) {
		sum, err := repo.SumOrderQuantity(ctx, "other", now.AddDate(0, 0, -30), now)
		require.NoError(t, err)
		assert.Equal(t, 0, sum)
	})

	t.Run("count since", func(t *testing.T) {
		count, err := repo.CountOrders(ctx, "med-1", now.AddDate(0, 0, -14))
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestRepository_Escalations(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	t.Run("save and find by stock level", func(t *testing.T) {
		esc := &entities.InventoryEscalation{
			ID:           "esc-1",
			MedicineID:   "med-1",
			MedicineName: "Paracetamol",
			CurrentStock: 4,
			Threshold:    10,
			CreatedAt:    now.AddDate(0, 0, -2),
		}
		require.NoError(t, repo.SaveEscalation(ctx, esc))

		found, err := repo.FindEscalation(ctx, "med-1", 4)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "esc-1", found.ID)
		assert.False(t, found.RestockTriggered)

		missing, err := repo.FindEscalation(ctx, "med-1", 2)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("open escalation tracking", func(t *testing.T) {
		open, err := repo.HasOpenEscalation(ctx, "med-1")
		require.NoError(t, err)
		assert.True(t, open)

		require.NoError(t, repo.MarkLatestEscalationTriggered(ctx, "med-1"))

		open, err = repo.HasOpenEscalation(ctx, "med-1")
		require.NoError(t, err)
		assert.False(t, open)
	})

	t.Run("mark newest escalation only", func(t *testing.T) {
		require.NoError(t, repo.SaveEscalation(ctx, &entities.InventoryEscalation{
			ID: "esc-2", MedicineID: "med-1", CurrentStock: 2, Threshold: 10, CreatedAt: now.AddDate(0, 0, -1),
		}))
		require.NoError(t, repo.SaveEscalation(ctx, &entities.InventoryEscalation{
			ID: "esc-3", MedicineID: "med-1", CurrentStock: 1, Threshold: 10, CreatedAt: now,
		}))

		require.NoError(t, repo.MarkLatestEscalationTriggered(ctx, "med-1"))

		newest, err := repo.FindEscalation(ctx, "med-1", 1)
		require.NoError(t, err)
		assert.True(t, newest.RestockTriggered)

		older, err := repo.FindEscalation(ctx, "med-1", 2)
		require.NoError(t, err)
		assert.False(t, older.RestockTriggered)
	})

	t.Run("mark with no escalations is not an error", func(t *testing.T) {
		require.NoError(t, repo.MarkLatestEscalationTriggered(ctx, "unknown"))
	})

	t.Run("count since", func(t *testing.T) {
		count, err := repo.CountEscalationsSince(ctx, "med-1", now.AddDate(0, 0, -1))
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestRepository_Reviews(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	review := &entities.MitigationReview{
		ID:           "rev-1",
		MitigationID: "med-1",
		RiskScore:    85,
		ActionType:   entities.ActionRestockImmediate,
		Payload: entities.ReviewPayload{
			MedicineID: "med-1",
			Action:     entities.ActionRestockImmediate,
			Quantity:   320,
			RiskScore:  85,
		},
		Status: entities.ReviewPending,
	}

	t.Run("save and find with payload round trip", func(t *testing.T) {
		require.NoError(t, repo.SaveReview(ctx, review))

		found, err := repo.FindReviewByID(ctx, "rev-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entities.ReviewPending, found.Status)
		assert.Equal(t, 320, found.Payload.Quantity)
		assert.Equal(t, entities.ActionRestockImmediate, found.Payload.Action)
		assert.Nil(t, found.ReviewedAt)
	})

	t.Run("not found returns nil", func(t *testing.T) {
		found, err := repo.FindReviewByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("pending listing", func(t *testing.T) {
		pending, err := repo.ListPendingReviews(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "rev-1", pending[0].ID)
	})

	t.Run("resolve exactly once", func(t *testing.T) {
		reviewedAt := time.Now().UTC()
		require.NoError(t, repo.ResolveReview(ctx, "rev-1", entities.ReviewApproved, "ops-admin", reviewedAt))

		found, err := repo.FindReviewByID(ctx, "rev-1")
		require.NoError(t, err)
		assert.Equal(t, entities.ReviewApproved, found.Status)
		assert.Equal(t, "ops-admin", found.ReviewedBy)
		require.NotNil(t, found.ReviewedAt)

		err = repo.ResolveReview(ctx, "rev-1", entities.ReviewRejected, "ops-admin", reviewedAt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already processed")

		pending, err := repo.ListPendingReviews(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("resolve missing review", func(t *testing.T) {
		err := repo.ResolveReview(ctx, "missing", entities.ReviewApproved, "ops-admin", time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestRepository_FulfillmentLogs(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first := &entities.FulfillmentLog{ID: "log-1", Status: entities.FulfillAutoExecuted, Message: "qty 320"}
	second := &entities.FulfillmentLog{ID: "log-2", Status: entities.FulfillDispatched, Message: "dispatched"}
	require.NoError(t, repo.AppendFulfillmentLog(ctx, first))
	require.NoError(t, repo.AppendFulfillmentLog(ctx, second))

	logs, err := repo.RecentFulfillmentLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "log-2", logs[0].ID)
	assert.Equal(t, "log-1", logs[1].ID)
	assert.Empty(t, logs[0].OrderID)
}
