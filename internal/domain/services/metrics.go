package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

const metricsWindowSize = 100

// SystemMetrics aggregates governance health from the audit trail. Rolling
// figures cover the most recent events up to the window size.
type SystemMetrics struct {
	CurrentMode         entities.Mode `json:"current_mode"`
	TotalAuditEvents    int           `json:"total_audit_events"`
	EthicalOverrides    int           `json:"ethical_overrides"`
	DriftAlerts         int           `json:"drift_alerts"`
	WindowSize          int           `json:"window_size"`
	AverageRiskScore    float64       `json:"average_risk_score"`
	AverageConfidence   float64       `json:"average_confidence"`
	ReviewModeFrequency float64       `json:"review_mode_frequency"`
}

// MetricsService computes system health aggregates on demand.
type MetricsService struct {
	db       ports.RelationalDB
	governor ports.ExecutionGovernor
}

// NewMetricsService creates a MetricsService.
func NewMetricsService(db ports.RelationalDB, governor ports.ExecutionGovernor) *MetricsService {
	return &MetricsService{db: db, governor: governor}
}

// Collect assembles the current metrics snapshot.
func (s *MetricsService) Collect(ctx context.Context) (*SystemMetrics, error) {
	mode, err := s.governor.CurrentMode(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading governance mode: %w", err)
	}
	total, err := s.db.CountAuditEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting audit events: %w", err)
	}
	overrides, err := s.db.CountAuditEventsByType(ctx, entities.EventEthicalOverride)
	if err != nil {
		return nil, fmt.Errorf("counting ethical overrides: %w", err)
	}
	alerts, err := s.db.CountAuditEventsByType(ctx, entities.EventDriftAlert)
	if err != nil {
		return nil, fmt.Errorf("counting drift alerts: %w", err)
	}
	recent, err := s.db.RecentAuditEvents(ctx, metricsWindowSize)
	if err != nil {
		return nil, fmt.Errorf("reading recent audit events: %w", err)
	}

	metrics := &SystemMetrics{
		CurrentMode:      mode,
		TotalAuditEvents: total,
		EthicalOverrides: overrides,
		DriftAlerts:      alerts,
		WindowSize:       len(recent),
	}

	var riskSum float64
	var riskCount int
	var confidenceSum float64
	var confidenceCount int
	var reviewModeCount int
	for _, event := range recent {
		if event.RiskScore != nil {
			riskSum += float64(*event.RiskScore)
			riskCount++
		}
		if event.EventType == entities.EventConfidenceScore {
			if value, err := strconv.ParseFloat(event.Decision, 64); err == nil {
				confidenceSum += value
				confidenceCount++
			}
		}
		if event.ModeAtTime == entities.ModeReview {
			reviewModeCount++
		}
	}
	if riskCount > 0 {
		metrics.AverageRiskScore = riskSum / float64(riskCount)
	}
	if confidenceCount > 0 {
		metrics.AverageConfidence = confidenceSum / float64(confidenceCount)
	}
	if len(recent) > 0 {
		metrics.ReviewModeFrequency = float64(reviewModeCount) / float64(len(recent))
	}
	return metrics, nil
}
