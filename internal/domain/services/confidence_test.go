package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/mocks"
)

func TestConfidenceService_Score(t *testing.T) {
	twoFlags := []entities.DriftFlag{entities.DriftRiskEscalation, entities.DriftReviewSpike}

	tests := []struct {
		name       string
		risk       int
		flags      []entities.DriftFlag
		mode       entities.Mode
		multiplier float64
		want       float64
	}{
		{"clean auto run", 75, nil, entities.ModeAuto, 1.0, 62.5},
		{"zero risk", 0, nil, entities.ModeAuto, 1.0, 100},
		{"review mode penalty", 50, nil, entities.ModeReview, 1.0, 65},
		{"safe mode penalty", 50, nil, entities.ModeSafe, 1.0, 55},
		{"drift flags", 50, twoFlags, entities.ModeAuto, 1.0, 45},
		{"multiplier fee above limit", 50, nil, entities.ModeAuto, 1.51, 65},
		{"multiplier at limit no fee", 50, nil, entities.ModeAuto, 1.5, 75},
		{"clamped at zero", 100, twoFlags, entities.ModeSafe, 2.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := mocks.NewRelationalDB()
			svc := NewConfidenceService(db)

			got, err := svc.Score(context.Background(), tt.risk, tt.flags, tt.mode, tt.multiplier)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestConfidenceService_Score_LogsEvent(t *testing.T) {
	db := mocks.NewRelationalDB()
	svc := NewConfidenceService(db)

	got, err := svc.Score(context.Background(), 75, nil, entities.ModeAuto, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 62.5, got)

	events := db.EventsOfType(entities.EventConfidenceScore)
	require.Len(t, events, 1)
	assert.Equal(t, "62.5", events[0].Decision)
	assert.Equal(t, 75, events[0].RiskScoreValue())
	assert.Equal(t, entities.ModeAuto, events[0].ModeAtTime)
}
