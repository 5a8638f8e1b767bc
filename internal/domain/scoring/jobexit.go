package scoring

import (
	"math"

	"lifecfo/internal/domain/budget"
)

// Risk tolerance labels. Informational only; no formula consumes them.
const (
	ToleranceLow    = "low"
	ToleranceMedium = "medium"
	ToleranceHigh   = "high"
)

// Settings are the household's job-exit targets.
type Settings struct {
	TargetEmergencyFundMonths int     `json:"targetEmergencyFundMonths"`
	TargetSideIncome          float64 `json:"targetSideIncome"`
	CurrentSideIncome         float64 `json:"currentSideIncome"`
	TargetAccountBalance      float64 `json:"targetAccountBalance"`
	RiskTolerance             string  `json:"riskTolerance"`
}

// DefaultSettings mirror the seeded exit plan.
func DefaultSettings() Settings {
	return Settings{
		TargetEmergencyFundMonths: 6,
		TargetSideIncome:          8000,
		CurrentSideIncome:         0,
		TargetAccountBalance:      50000,
		RiskTolerance:             ToleranceMedium,
	}
}

// EmergencyFundPlan describes progress toward the reserve target.
type EmergencyFundPlan struct {
	Needed           float64 `json:"emergencyFundNeeded"`
	Current          float64 `json:"currentEmergencyFund"`
	ProgressPct      float64 `json:"progressPct"`
	MonthsToComplete int     `json:"monthsToComplete"`
}

// PlanEmergencyFund sizes the reserve target at totalExpenses × target
// months and projects completion at the current monthly surplus.
// MonthsToComplete is 0 when the fund is already complete or when there is
// no surplus to make progress with.
func PlanEmergencyFund(set Settings, totalExpenses, currentFund, monthlySurplus float64) EmergencyFundPlan {
	needed := totalExpenses * float64(set.TargetEmergencyFundMonths)
	plan := EmergencyFundPlan{
		Needed:      needed,
		Current:     currentFund,
		ProgressPct: budget.Ratio(currentFund, needed) * 100,
	}

	gap := needed - currentFund
	if gap > 0 && monthlySurplus > 0 {
		plan.MonthsToComplete = int(math.Ceil(gap / monthlySurplus))
	}
	return plan
}

// Readiness is the composite job-exit readiness view. Each sub-progress is
// a percentage capped at 100 before weighting.
type Readiness struct {
	EmergencyFundProgress  float64 `json:"emergencyFundProgress"`
	SideIncomeProgress     float64 `json:"sideIncomeProgress"`
	AccountBalanceProgress float64 `json:"accountBalanceProgress"`
	Overall                float64 `json:"overall"`
}

// Evaluate blends emergency-fund, side-income, and balance-target progress
// with weights 0.4 / 0.35 / 0.25. Sub-progress against a zero target reads
// as 0 per the degenerate-ratio policy.
func Evaluate(set Settings, plan EmergencyFundPlan, accountBalance float64) Readiness {
	r := Readiness{
		EmergencyFundProgress:  cap100(plan.ProgressPct),
		SideIncomeProgress:     cap100(budget.Ratio(set.CurrentSideIncome, set.TargetSideIncome) * 100),
		AccountBalanceProgress: cap100(budget.Ratio(accountBalance, set.TargetAccountBalance) * 100),
	}
	r.Overall = r.EmergencyFundProgress*0.4 + r.SideIncomeProgress*0.35 + r.AccountBalanceProgress*0.25
	return r
}

func cap100(pct float64) float64 {
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
