package scoring

import (
	"lifecfo/internal/domain/budget"
)

// HealthInputs are the aggregates the health score is derived from.
// EmergencyFundProgress is a percentage (100 = fully funded).
type HealthInputs struct {
	TotalIncome           float64
	TotalExpenses         float64
	TotalInvestments      float64
	TotalDebtPayments     float64
	EmergencyFundProgress float64
}

// HealthScore buckets four independent ratios into a 0-100 integer.
// Each bucket awards a fixed number of points with no partial credit.
// All ratios use the degenerate-aggregate policy: zero income reads as 0.
func HealthScore(in HealthInputs) int {
	score := 0

	switch expenseRatio := budget.Ratio(in.TotalExpenses, in.TotalIncome); {
	case expenseRatio < 0.5:
		score += 30
	case expenseRatio < 0.7:
		score += 20
	case expenseRatio < 0.9:
		score += 10
	}

	switch {
	case in.EmergencyFundProgress >= 100:
		score += 25
	case in.EmergencyFundProgress >= 75:
		score += 20
	case in.EmergencyFundProgress >= 50:
		score += 15
	case in.EmergencyFundProgress >= 25:
		score += 10
	}

	switch investmentRate := budget.Ratio(in.TotalInvestments, in.TotalIncome); {
	case investmentRate >= 0.15:
		score += 20
	case investmentRate >= 0.10:
		score += 15
	case investmentRate >= 0.05:
		score += 10
	}

	switch dti := budget.Ratio(in.TotalDebtPayments, in.TotalIncome); {
	case dti < 0.1:
		score += 25
	case dti < 0.2:
		score += 20
	case dti < 0.3:
		score += 15
	case dti < 0.4:
		score += 10
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
