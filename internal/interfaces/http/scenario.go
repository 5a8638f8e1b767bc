package http

import (
	"encoding/json"
	"log"
	"net/http"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/budget"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/domain/scenario"
)

// ScenarioHandler simulates what-if decisions against the current budget
type ScenarioHandler struct {
	store    *records.Store
	balances BalanceLister
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(store *records.Store, balances BalanceLister) *ScenarioHandler {
	return &ScenarioHandler{store: store, balances: balances}
}

// SimulationResponse pairs the projection with its derived insights
type SimulationResponse struct {
	Scenario scenario.Scenario      `json:"scenario"`
	Baseline scenario.Baseline      `json:"baseline"`
	Months   []scenario.MonthResult `json:"months"`
	Insights scenario.Insights      `json:"insights"`
}

// HandleSimulate serves POST /api/scenarios/simulate
func (h *ScenarioHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var sc scenario.Scenario
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := sc.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	base := h.baseline(r)
	months := scenario.Simulate(base, sc)

	response := SimulationResponse{
		Scenario: sc,
		Baseline: base,
		Months:   months,
		Insights: scenario.DeriveInsights(months),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandlePresets serves GET /api/scenarios/presets
func (h *ScenarioHandler) HandlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scenario.Presets())
}

// baseline derives the steady-state monthly position from the stored
// records and the connected-account balances.
func (h *ScenarioHandler) baseline(r *http.Request) scenario.Baseline {
	totals := budget.Calculate(h.store.IncomeStreams(), h.store.Expenses(), h.store.Investments(), h.store.Debts())

	bankBalance := 0.0
	if h.balances != nil {
		if stored, err := h.balances.ListAll(r.Context()); err == nil {
			bankBalance = bankfeed.TotalCurrentBalance(stored)
		} else {
			log.Printf("Error reading balances for scenario baseline: %v", err)
		}
	}

	return scenario.Baseline{
		Income:        totals.Income,
		Expenses:      totals.Expenses,
		EmergencyFund: scenario.BaselineEmergencyFund(bankBalance),
	}
}
