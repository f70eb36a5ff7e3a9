package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

// Forecasting window constants.
const (
	predictiveWindowDays  = 30
	trendWindowDays       = 7
	safetyBufferDays      = 7
	minimumRestockFloor   = 40
	highVelocityThreshold = 20
)

// scoreBand pairs a bound with the points awarded when the bound matches.
// Bands are evaluated in order; the first match wins.
type scoreBand struct {
	bound  float64
	points int
}

// Risk score rule tables. Kept as data so the scoring rules are auditable
// in one place.
var (
	depletionBands  = []scoreBand{{3, 50}, {7, 30}, {14, 15}} // value <= bound
	demandBands     = []scoreBand{{100, 15}, {50, 10}}        // value > bound
	coverageBands   = []scoreBand{{0.5, 30}, {1.0, 20}, {1.5, 10}}
	accelBands      = []scoreBand{{0.4, 25}, {0.2, 15}}
	escalationBands = []scoreBand{{4, 30}, {2, 15}} // value >= bound
)

// Priority rule table (a separate signal from the risk score).
var (
	priorityDepletionBands = []scoreBand{{3, 50}, {7, 30}}
	priorityCoveragePoints = 25
	priorityVelocityPoints = 15
	priorityActivePoints   = 20
)

func firstAtMost(bands []scoreBand, v float64) int {
	for _, b := range bands {
		if v <= b.bound {
			return b.points
		}
	}
	return 0
}

func firstAbove(bands []scoreBand, v float64) int {
	for _, b := range bands {
		if v > b.bound {
			return b.points
		}
	}
	return 0
}

func firstBelow(bands []scoreBand, v float64) int {
	for _, b := range bands {
		if v < b.bound {
			return b.points
		}
	}
	return 0
}

func firstAtLeast(bands []scoreBand, v float64) int {
	for _, b := range bands {
		if v >= b.bound {
			return b.points
		}
	}
	return 0
}

// RiskService computes consumption velocity, depletion projections, priority
// tiers and risk scores over the order history look-back window. All scoring
// is rule-based and reproducible.
type RiskService struct {
	db  ports.RelationalDB
	now func() time.Time
}

// NewRiskService creates a new RiskService.
func NewRiskService(db ports.RelationalDB) *RiskService {
	return &RiskService{db: db, now: time.Now}
}

// Snapshot computes the transient risk snapshot for one medicine. A missing
// medicine or an empty consumption window yields a zero-risk snapshot with
// an explanation, never an error.
func (s *RiskService) Snapshot(ctx context.Context, medicineID string) (*entities.RiskSnapshot, error) {
	now := s.now()

	medicine, err := s.db.FindMedicineByID(ctx, medicineID)
	if err != nil {
		return nil, fmt.Errorf("finding medicine: %w", err)
	}
	if medicine == nil {
		return s.insufficientData(medicineID, "", "No active medicine found.", now), nil
	}

	windowStart := now.AddDate(0, 0, -predictiveWindowDays)
	totalQuantity, err := s.db.SumOrderQuantity(ctx, medicineID, windowStart, now)
	if err != nil {
		return nil, fmt.Errorf("summing order window: %w", err)
	}
	if totalQuantity <= 0 {
		return s.insufficientData(medicineID, medicine.Name, "No recent consumption data available.", now), nil
	}

	avgDaily := float64(totalQuantity) / predictiveWindowDays
	currentStock := medicine.Stock

	daysUntilDepletion := float64(currentStock) / avgDaily
	projectedDemand := avgDaily * predictiveWindowDays

	var coverageRatio *float64
	if projectedDemand > 0 {
		ratio := float64(currentStock) / projectedDemand
		coverageRatio = &ratio
	}

	acceleration, err := s.accelerationFactor(ctx, medicineID, now)
	if err != nil {
		return nil, err
	}

	escalationActive, err := s.db.HasOpenEscalation(ctx, medicineID)
	if err != nil {
		return nil, fmt.Errorf("checking open escalations: %w", err)
	}

	recentEscalations, err := s.db.CountEscalationsSince(ctx, medicineID, now.AddDate(0, 0, -predictiveWindowDays))
	if err != nil {
		return nil, fmt.Errorf("counting escalations: %w", err)
	}

	priority := computePriority(daysUntilDepletion, avgDaily, currentStock, projectedDemand, escalationActive)
	score := computeRiskScore(daysUntilDepletion, projectedDemand, escalationActive, coverageRatio, acceleration, recentEscalations)

	snapshot := &entities.RiskSnapshot{
		MedicineID:           medicineID,
		MedicineName:         medicine.Name,
		CurrentStock:         currentStock,
		AvgDailyConsumption:  avgDaily,
		DaysUntilDepletion:   daysUntilDepletion,
		Projected30DayDemand: projectedDemand,
		CoverageRatio:        coverageRatio,
		AccelerationFactor:   acceleration,
		RecentEscalations:    recentEscalations,
		Priority:             priority,
		RiskScore:            score,
		RiskLevel:            classifyRiskLevel(score),
		RecommendedQuantity:  RestockQuantity(avgDaily, currentStock),
		EscalationActive:     escalationActive,
		GeneratedAt:          now,
	}
	snapshot.Explanation = explainSnapshot(snapshot)
	return snapshot, nil
}

// accelerationFactor compares the last 7 days of demand against the prior
// 7-day window. A zero prior window reads as no acceleration.
func (s *RiskService) accelerationFactor(ctx context.Context, medicineID string, now time.Time) (float64, error) {
	last7Start := now.AddDate(0, 0, -trendWindowDays)
	prev7Start := now.AddDate(0, 0, -2*trendWindowDays)

	recent, err := s.db.SumOrderQuantity(ctx, medicineID, last7Start, now)
	if err != nil {
		return 0, fmt.Errorf("summing recent trend window: %w", err)
	}
	previous, err := s.db.SumOrderQuantity(ctx, medicineID, prev7Start, last7Start)
	if err != nil {
		return 0, fmt.Errorf("summing prior trend window: %w", err)
	}
	if previous <= 0 {
		return 0, nil
	}
	return float64(recent-previous) / float64(previous), nil
}

func (s *RiskService) insufficientData(medicineID, name, explanation string, now time.Time) *entities.RiskSnapshot {
	return &entities.RiskSnapshot{
		MedicineID:   medicineID,
		MedicineName: name,
		RiskScore:    0,
		RiskLevel:    entities.RiskLow,
		Priority:     entities.PriorityStable,
		Explanation:  explanation,
		GeneratedAt:  now,
	}
}

// computePriority accumulates dispatch urgency points and maps them to a
// tier: >=70 CRITICAL, >=40 WARNING, else STABLE.
func computePriority(daysUntilDepletion, avgDaily float64, currentStock int, projectedDemand float64, escalationActive bool) entities.PriorityTier {
	points := firstAtMost(priorityDepletionBands, daysUntilDepletion)
	if float64(currentStock) < projectedDemand*0.5 {
		points += priorityCoveragePoints
	}
	if avgDaily > highVelocityThreshold {
		points += priorityVelocityPoints
	}
	if escalationActive {
		points += priorityActivePoints
	}

	switch {
	case points >= 70:
		return entities.PriorityCritical
	case points >= 40:
		return entities.PriorityWarning
	}
	return entities.PriorityStable
}

// computeRiskScore sums the rule-table contributions and caps at 100.
func computeRiskScore(daysUntilDepletion, projectedDemand float64, escalationActive bool, coverageRatio *float64, acceleration float64, recentEscalations int) int {
	score := firstAtMost(depletionBands, daysUntilDepletion)
	score += firstAbove(demandBands, projectedDemand)
	if coverageRatio != nil {
		score += firstBelow(coverageBands, *coverageRatio)
	}
	score += firstAbove(accelBands, acceleration)
	if escalationActive {
		score += 20
	}
	score += firstAtLeast(escalationBands, float64(recentEscalations))

	if score > 100 {
		score = 100
	}
	return score
}

func classifyRiskLevel(score int) entities.RiskLevel {
	switch {
	case score >= 70:
		return entities.RiskHigh
	case score >= 40:
		return entities.RiskMedium
	}
	return entities.RiskLow
}

// RestockQuantity computes the dynamic restock amount: a 30-day projection
// plus a 7-day safety buffer, less current stock, rounded to the nearest
// multiple of 10 and never below the floor.
func RestockQuantity(avgDaily float64, currentStock int) int {
	if avgDaily <= 0 {
		return minimumRestockFloor
	}

	target := avgDaily*predictiveWindowDays + avgDaily*safetyBufferDays
	needed := target - float64(currentStock)
	if needed < minimumRestockFloor {
		needed = minimumRestockFloor
	}

	rounded := int(math.Round(needed/10.0)) * 10
	if rounded < minimumRestockFloor {
		return minimumRestockFloor
	}
	return rounded
}

// explainSnapshot assembles the human-readable factor summary.
func explainSnapshot(s *entities.RiskSnapshot) string {
	var reasons []string

	reasons = append(reasons,
		fmt.Sprintf("Projected depletion in %.2f days.", s.DaysUntilDepletion),
		fmt.Sprintf("Projected 30-day demand: %.2f units.", s.Projected30DayDemand),
	)
	if s.CoverageRatio != nil {
		reasons = append(reasons, fmt.Sprintf("Stock coverage ratio: %.2f.", *s.CoverageRatio))
	}
	if s.AccelerationFactor > 0 {
		reasons = append(reasons, fmt.Sprintf("Demand acceleration detected at %.2f%% increase.", s.AccelerationFactor*100))
	}
	if s.EscalationActive {
		reasons = append(reasons, "Active inventory escalation detected.")
	}
	if s.RecentEscalations >= 2 {
		reasons = append(reasons, fmt.Sprintf("%d escalations recorded in last 30 days.", s.RecentEscalations))
	}
	reasons = append(reasons, fmt.Sprintf("Priority classified as %s.", s.Priority))

	return strings.Join(reasons, " ")
}
