package entities

// DriftFlag names a behavioral anomaly detected in recent audit history.
type DriftFlag string

const (
	// DriftRiskEscalation fires when the last three risk-carrying audit
	// events form a strictly increasing sequence.
	DriftRiskEscalation DriftFlag = "RISK_ESCALATION"
	// DriftReviewSpike fires when review-mode events dominate recent history.
	DriftReviewSpike DriftFlag = "REVIEW_SPIKE"
	// DriftMultiplierAnomaly fires when the current instability multiplier
	// deviates more than 30% from its recent logged mean.
	DriftMultiplierAnomaly DriftFlag = "MULTIPLIER_ANOMALY"
)
