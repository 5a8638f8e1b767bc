package scenario

import (
	"errors"
	"math"
)

// HorizonMonths is the fixed simulation horizon.
const HorizonMonths = 24

var (
	ErrInvalidDuration   = errors.New("duration must be non-negative")
	ErrInvalidStartMonth = errors.New("start month must be at least 1")
)

// Scenario describes a hypothetical financial decision. UpfrontCost is paid
// once at simulation start when positive; a negative value models a one-time
// windfall. MonthlyIncome and MonthlyExpense are deltas applied from
// StartMonth (inclusive) for Duration months.
type Scenario struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	UpfrontCost    float64 `json:"upfrontCost"`
	MonthlyIncome  float64 `json:"monthlyIncome"`
	MonthlyExpense float64 `json:"monthlyExpense"`
	Duration       int     `json:"duration"`
	StartMonth     int     `json:"startMonth"`
}

func (s Scenario) Validate() error {
	if s.Duration < 0 {
		return ErrInvalidDuration
	}
	if s.StartMonth < 1 {
		return ErrInvalidStartMonth
	}
	return nil
}

// Baseline is the household's steady-state monthly position entering the
// simulation. EmergencyFund is the pre-decision reserve level.
type Baseline struct {
	Income        float64 `json:"income"`
	Expenses      float64 `json:"expenses"`
	EmergencyFund float64 `json:"emergencyFund"`
}

// BaselineEmergencyFund estimates the liquid reserve from connected-account
// balances: 30% of the total balance, floored at 5000.
func BaselineEmergencyFund(totalAccountBalance float64) float64 {
	return math.Max(5000, totalAccountBalance*0.3)
}

// MonthResult is one month of the projection.
type MonthResult struct {
	Month              int     `json:"month"`
	MonthlyIncome      float64 `json:"monthlyIncome"`
	MonthlyExpenses    float64 `json:"monthlyExpenses"`
	MonthlyNetCashFlow float64 `json:"monthlyNetCashFlow"`
	CumulativeCashFlow float64 `json:"cumulativeCashFlow"`
	EmergencyFundLevel float64 `json:"emergencyFundLevel"`
}

// Simulate projects the scenario month by month over the fixed horizon and
// returns exactly HorizonMonths entries. Inputs are never mutated; each call
// recomputes from scratch.
//
// A positive upfront cost is debited from cumulative cash flow before month
// one. A negative upfront cost (windfall) is intentionally not credited at
// start; downstream insight thresholds were tuned against that behavior.
func Simulate(base Baseline, sc Scenario) []MonthResult {
	results := make([]MonthResult, 0, HorizonMonths)

	var cumulative, fundImpact float64
	if sc.UpfrontCost > 0 {
		cumulative -= sc.UpfrontCost
		fundImpact = -sc.UpfrontCost
	}

	for month := 1; month <= HorizonMonths; month++ {
		income := base.Income
		expenses := base.Expenses
		if month >= sc.StartMonth && month < sc.StartMonth+sc.Duration {
			income += sc.MonthlyIncome
			expenses += sc.MonthlyExpense
		}

		net := income - expenses
		cumulative += net

		results = append(results, MonthResult{
			Month:              month,
			MonthlyIncome:      income,
			MonthlyExpenses:    expenses,
			MonthlyNetCashFlow: net,
			CumulativeCashFlow: cumulative,
			EmergencyFundLevel: math.Max(0, base.EmergencyFund+fundImpact+(cumulative-sc.UpfrontCost)),
		})
	}

	return results
}

// Presets are the built-in decision scenarios offered by the dashboard.
func Presets() []Scenario {
	return []Scenario{
		{
			Name:          "Hire Developer",
			Type:          "business_investment",
			UpfrontCost:   7000,
			MonthlyIncome: 300,
			Duration:      6,
			StartMonth:    1,
		},
		{
			Name:          "Quit Job (12 months)",
			Type:          "job_exit",
			MonthlyIncome: -14302.76,
			Duration:      12,
			StartMonth:    12,
		},
		{
			Name:           "Sell Tesla & Invest",
			Type:           "asset_sale",
			UpfrontCost:    -25000,
			MonthlyIncome:  500,
			MonthlyExpense: -1199.96,
			Duration:       24,
			StartMonth:     1,
		},
		{
			Name:          "Side Hustle Growth",
			Type:          "income_change",
			MonthlyIncome: 2000,
			Duration:      24,
			StartMonth:    3,
		},
	}
}
