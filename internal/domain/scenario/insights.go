package scenario

// Risk levels for a simulated scenario.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// emergencyFundFloor is the reserve level below which a month is flagged
// as putting the emergency fund at risk.
const emergencyFundFloor = 1000

// viableBreakEvenLimit is the latest break-even month a scenario can have
// and still be called viable.
const viableBreakEvenLimit = 18

// Insights summarizes a simulation. BreakEvenMonth is 0 when cumulative
// cash flow never reaches zero within the horizon.
type Insights struct {
	BreakEvenMonth    int     `json:"breakEvenMonth"`
	Month12CashFlow   float64 `json:"month12CashFlow"`
	EmergencyFundRisk bool    `json:"emergencyFundRisk"`
	TotalROI          float64 `json:"totalROI"`
	IsViable          bool    `json:"isViable"`
	RiskLevel         string  `json:"riskLevel"`
}

// DeriveInsights inspects a simulation produced by Simulate.
func DeriveInsights(sim []MonthResult) Insights {
	var in Insights

	for _, m := range sim {
		if in.BreakEvenMonth == 0 && m.CumulativeCashFlow >= 0 {
			in.BreakEvenMonth = m.Month
		}
		if m.EmergencyFundLevel < emergencyFundFloor {
			in.EmergencyFundRisk = true
		}
	}
	if len(sim) >= 12 {
		in.Month12CashFlow = sim[11].CumulativeCashFlow
	}
	if len(sim) >= HorizonMonths {
		in.TotalROI = sim[HorizonMonths-1].CumulativeCashFlow
	}

	in.IsViable = in.BreakEvenMonth > 0 && in.BreakEvenMonth <= viableBreakEvenLimit

	switch {
	case in.EmergencyFundRisk:
		in.RiskLevel = RiskHigh
	case in.Month12CashFlow < 0:
		in.RiskLevel = RiskMedium
	default:
		in.RiskLevel = RiskLow
	}

	return in
}
