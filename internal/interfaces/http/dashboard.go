package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/budget"
	"lifecfo/internal/domain/debt"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/domain/scenario"
	"lifecfo/internal/domain/scoring"
)

// BalanceLister reads the last-known balances of connected accounts
type BalanceLister interface {
	ListAll(ctx context.Context) (map[string]bankfeed.Balance, error)
}

// SettingsLoader reads the stored job-exit targets
type SettingsLoader interface {
	Load(ctx context.Context) (scoring.Settings, error)
}

// DashboardHandler serves the aggregate dashboard view
type DashboardHandler struct {
	store    *records.Store
	balances BalanceLister
	settings SettingsLoader
	now      func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(store *records.Store, balances BalanceLister, settings SettingsLoader) *DashboardHandler {
	return &DashboardHandler{
		store:    store,
		balances: balances,
		settings: settings,
		now:      time.Now,
	}
}

// DebtOverview summarizes the payoff trajectory across all debts
type DebtOverview struct {
	TotalBalance  float64 `json:"totalBalance"`
	TotalPayments float64 `json:"totalPayments"`
	PayoffMonths  int     `json:"payoffMonths"`
	DebtFreeDate  string  `json:"debtFreeDate"`
	Amortizes     bool    `json:"amortizes"`
}

// ExitPlanView bundles the job-exit targets with derived progress
type ExitPlanView struct {
	Settings      scoring.Settings          `json:"settings"`
	EmergencyFund scoring.EmergencyFundPlan `json:"emergencyFund"`
	Readiness     scoring.Readiness         `json:"readiness"`
}

// DashboardResponse is the full dashboard payload
type DashboardResponse struct {
	Totals          budget.Totals       `json:"totals"`
	Allocation      budget.Allocation   `json:"allocation"`
	SuggestedSplit  budget.SurplusSplit `json:"suggestedSplit"`
	NonDebtExpenses float64             `json:"nonDebtExpenses"`
	HealthScore     int                 `json:"healthScore"`
	BankBalance     float64             `json:"bankBalance"`
	NetWorth        float64             `json:"netWorth"`
	Debt            DebtOverview        `json:"debt"`
	ExitPlan        ExitPlanView        `json:"exitPlan"`
}

// HandleDashboard serves GET /api/dashboard
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	streams := h.store.IncomeStreams()
	expenses := h.store.Expenses()
	investments := h.store.Investments()
	debts := h.store.Debts()

	totals := budget.Calculate(streams, expenses, investments, debts)

	// Balance reads degrade to zero so the dashboard renders even when no
	// institution is linked or the last sync failed.
	bankBalance := 0.0
	if h.balances != nil {
		if stored, err := h.balances.ListAll(r.Context()); err == nil {
			bankBalance = bankfeed.TotalCurrentBalance(stored)
		} else {
			log.Printf("Error reading balances for dashboard: %v", err)
		}
	}

	settings := scoring.DefaultSettings()
	if h.settings != nil {
		if loaded, err := h.settings.Load(r.Context()); err == nil {
			settings = loaded
		} else {
			log.Printf("Error loading exit-plan settings, using defaults: %v", err)
		}
	}

	// The liquid reserve is an estimate, 30% of the connected balance
	// floored at 5000, not the balance itself.
	currentFund := scenario.BaselineEmergencyFund(bankBalance)
	plan := scoring.PlanEmergencyFund(settings, totals.Expenses, currentFund, totals.AvailableForSpending)
	readiness := scoring.Evaluate(settings, plan, bankBalance)

	score := scoring.HealthScore(scoring.HealthInputs{
		TotalIncome:           totals.Income,
		TotalExpenses:         totals.Expenses,
		TotalInvestments:      totals.Investments,
		TotalDebtPayments:     totals.DebtPayments,
		EmergencyFundProgress: plan.ProgressPct,
	})

	overview := DebtOverview{
		TotalBalance:  totals.DebtBalance,
		TotalPayments: totals.DebtPayments,
	}
	if months, err := debt.PooledPayoffMonths(debts, 0); err == nil {
		overview.PayoffMonths = months
		overview.Amortizes = true
		overview.DebtFreeDate = h.now().AddDate(0, months, 0).Format("January 2006")
	} else {
		log.Printf("Debt pool does not amortize: %v", err)
	}

	_, nonDebtTotal := budget.NonDebtExpenses(expenses, budget.DefaultDebtExpenseCategories)

	response := DashboardResponse{
		Totals:          totals,
		Allocation:      budget.Allocate(totals),
		SuggestedSplit:  budget.SuggestSplit(totals.AvailableForSpending),
		NonDebtExpenses: nonDebtTotal,
		HealthScore:     score,
		BankBalance:     bankBalance,
		NetWorth:        budget.NetWorth(bankBalance, totals.DebtBalance),
		Debt:            overview,
		ExitPlan: ExitPlanView{
			Settings:      settings,
			EmergencyFund: plan,
			Readiness:     readiness,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
