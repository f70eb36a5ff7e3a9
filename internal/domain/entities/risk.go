package entities

import "time"

// RiskLevel classifies a risk score: <40 LOW, 40-69 MEDIUM, >=70 HIGH.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// PriorityTier is the dispatch urgency classification. It is a separate
// signal from the risk level.
type PriorityTier string

const (
	PriorityCritical PriorityTier = "CRITICAL"
	PriorityWarning  PriorityTier = "WARNING"
	PriorityStable   PriorityTier = "STABLE"
)

// QueueRank maps a tier to its numeric dispatch priority.
// Lower dispatches first: CRITICAL=1 < WARNING=2 < STABLE=3.
func (p PriorityTier) QueueRank() int {
	switch p {
	case PriorityCritical:
		return 1
	case PriorityWarning:
		return 2
	}
	return 3
}

// RiskSnapshot is the transient per-medicine risk assessment produced by the
// forecasting service. It is never persisted; the audit trail records the
// decisions derived from it.
type RiskSnapshot struct {
	MedicineID           string       `json:"medicine_id"`
	MedicineName         string       `json:"medicine_name"`
	CurrentStock         int          `json:"current_stock"`
	AvgDailyConsumption  float64      `json:"avg_daily_consumption"`
	DaysUntilDepletion   float64      `json:"days_until_depletion"`
	Projected30DayDemand float64      `json:"projected_30_day_demand"`
	CoverageRatio        *float64     `json:"coverage_ratio,omitempty"`
	AccelerationFactor   float64      `json:"acceleration_factor"`
	RecentEscalations    int          `json:"recent_escalation_count"`
	Priority             PriorityTier `json:"priority"`
	RiskScore            int          `json:"risk_score"`
	RiskLevel            RiskLevel    `json:"risk_level"`
	RecommendedQuantity  int          `json:"recommended_restock_quantity"`
	EscalationActive     bool         `json:"escalation_active"`
	Explanation          string       `json:"explanation"`
	GeneratedAt          time.Time    `json:"generated_at"`
}

// HasConsumptionData reports whether the look-back window contained any
// consumption. A snapshot without data is a zero-risk no-op, not an error.
func (s *RiskSnapshot) HasConsumptionData() bool {
	return s.AvgDailyConsumption > 0
}

// CoverageRatioValue returns the coverage ratio, or -1 when projected demand
// was zero and the ratio is undefined.
func (s *RiskSnapshot) CoverageRatioValue() float64 {
	if s.CoverageRatio == nil {
		return -1
	}
	return *s.CoverageRatio
}

// InstabilityReport is the self-healing estimator's view of recent
// escalation and order volatility for one medicine.
type InstabilityReport struct {
	MedicineID        string  `json:"medicine_id"`
	RecentEscalations int     `json:"recent_escalations"`
	RecentOrders      int     `json:"recent_orders"`
	InstabilityScore  int     `json:"instability_score"`
	Multiplier        float64 `json:"multiplier"`
}
