package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/budget"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/domain/scenario"
	"lifecfo/internal/domain/scoring"
)

// SettingsSaver persists the job-exit targets
type SettingsSaver interface {
	Save(ctx context.Context, set scoring.Settings) error
}

// ExitPlanHandler serves the job-exit readiness view and its settings
type ExitPlanHandler struct {
	store    *records.Store
	balances BalanceLister
	loader   SettingsLoader
	saver    SettingsSaver
}

// NewExitPlanHandler creates a new exit-plan handler
func NewExitPlanHandler(store *records.Store, balances BalanceLister, loader SettingsLoader, saver SettingsSaver) *ExitPlanHandler {
	return &ExitPlanHandler{store: store, balances: balances, loader: loader, saver: saver}
}

// HandleExitPlan handles GET and PUT on /api/exit-plan
func (h *ExitPlanHandler) HandleExitPlan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handlePut(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ExitPlanHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	settings := scoring.DefaultSettings()
	if loaded, err := h.loader.Load(r.Context()); err == nil {
		settings = loaded
	} else {
		log.Printf("Error loading exit-plan settings, using defaults: %v", err)
	}

	h.respond(w, r, settings)
}

func (h *ExitPlanHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	var settings scoring.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if settings.TargetEmergencyFundMonths < 0 || settings.TargetSideIncome < 0 || settings.TargetAccountBalance < 0 {
		http.Error(w, "Targets must be non-negative", http.StatusBadRequest)
		return
	}

	if err := h.saver.Save(r.Context(), settings); err != nil {
		log.Printf("Error saving exit-plan settings: %v", err)
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	h.respond(w, r, settings)
}

func (h *ExitPlanHandler) respond(w http.ResponseWriter, r *http.Request, settings scoring.Settings) {
	totals := budget.Calculate(h.store.IncomeStreams(), h.store.Expenses(), h.store.Investments(), h.store.Debts())

	bankBalance := 0.0
	if h.balances != nil {
		if stored, err := h.balances.ListAll(r.Context()); err == nil {
			bankBalance = bankfeed.TotalCurrentBalance(stored)
		} else {
			log.Printf("Error reading balances for exit plan: %v", err)
		}
	}

	// Same reserve estimate as the dashboard: 30% of the bank balance,
	// floored at 5000.
	currentFund := scenario.BaselineEmergencyFund(bankBalance)
	plan := scoring.PlanEmergencyFund(settings, totals.Expenses, currentFund, totals.AvailableForSpending)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ExitPlanView{
		Settings:      settings,
		EmergencyFund: plan,
		Readiness:     scoring.Evaluate(settings, plan, bankBalance),
	})
}
