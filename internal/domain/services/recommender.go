package services

import (
	"github.com/ersonp/restock-core/internal/domain/entities"
)

const (
	recommenderAccelThreshold   = 0.3
	recommenderLadderMultiplier = 1.3
)

// severityLadder maps each action to the next more aggressive one, applied
// when chronic instability is detected. RESTOCK_IMMEDIATE is already the top.
var severityLadder = map[entities.Action]entities.Action{
	entities.ActionMonitor:             entities.ActionSafetyStockIncrease,
	entities.ActionSafetyStockIncrease: entities.ActionRestockImmediate,
	entities.ActionSupplierEscalation:  entities.ActionRestockImmediate,
}

// RecommenderService deterministically maps risk signals to a mitigation
// action. Pure: no persistence, no clock.
type RecommenderService struct{}

// NewRecommenderService creates a new RecommenderService.
func NewRecommenderService() *RecommenderService {
	return &RecommenderService{}
}

// Recommend returns the action for a snapshot plus a short reason. A
// multiplier at or above 1.3 escalates the action one severity step.
func (s *RecommenderService) Recommend(snapshot *entities.RiskSnapshot, multiplier float64) (entities.Action, string) {
	action, reason := baseRecommendation(snapshot)

	if multiplier >= recommenderLadderMultiplier {
		if escalated, ok := severityLadder[action]; ok {
			return escalated, "Chronic instability detected, escalating mitigation severity"
		}
	}
	return action, reason
}

func baseRecommendation(snapshot *entities.RiskSnapshot) (entities.Action, string) {
	coverage := snapshot.CoverageRatio

	switch snapshot.RiskLevel {
	case entities.RiskHigh:
		if coverage != nil && *coverage < 0.5 {
			return entities.ActionRestockImmediate, "Coverage ratio critically low"
		}
		if snapshot.AccelerationFactor > recommenderAccelThreshold && snapshot.RecentEscalations > 0 {
			return entities.ActionSupplierEscalation, "Demand accelerating with repeated escalations"
		}
		return entities.ActionRestockImmediate, "High risk score"

	case entities.RiskMedium:
		if coverage != nil && *coverage < 0.75 {
			return entities.ActionSafetyStockIncrease, "Buffer insufficient for projected demand"
		}
		if snapshot.AccelerationFactor > recommenderAccelThreshold {
			return entities.ActionSupplierEscalation, "Demand trend increasing"
		}
		return entities.ActionMonitor, "Moderate risk but stable"
	}
	return entities.ActionMonitor, "No mitigation required"
}
