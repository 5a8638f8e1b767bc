package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/scenario"
)

func TestHandleSimulate(t *testing.T) {
	balances := &mockBalanceLister{
		listAllFunc: func(ctx context.Context) (map[string]bankfeed.Balance, error) {
			return map[string]bankfeed.Balance{"acc-1": {Current: 30000}}, nil
		},
	}
	handler := NewScenarioHandler(testStore(), balances)

	body := `{"name":"Hire Developer","type":"business_investment","upfrontCost":7000,"monthlyIncome":300,"duration":6,"startMonth":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/scenarios/simulate", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleSimulate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp SimulationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Months) != scenario.HorizonMonths {
		t.Fatalf("expected %d months, got %d", scenario.HorizonMonths, len(resp.Months))
	}
	if resp.Baseline.Income != 10000 {
		t.Errorf("expected baseline income 10000, got %f", resp.Baseline.Income)
	}
	// Investments are contributions, not expenses; the baseline burn rate
	// excludes them.
	if resp.Baseline.Expenses != 6000 {
		t.Errorf("expected baseline expenses 6000, got %f", resp.Baseline.Expenses)
	}
	// 30% of 30000 beats the 5000 floor.
	if resp.Baseline.EmergencyFund != 9000 {
		t.Errorf("expected baseline emergency fund 9000, got %f", resp.Baseline.EmergencyFund)
	}

	// Month 1: 10300 income, 6000 expenses, minus the 7000 upfront cost.
	first := resp.Months[0]
	if first.MonthlyNetCashFlow != 4300 {
		t.Errorf("expected month 1 net 4300, got %f", first.MonthlyNetCashFlow)
	}
	if first.CumulativeCashFlow != -2700 {
		t.Errorf("expected month 1 cumulative -2700, got %f", first.CumulativeCashFlow)
	}
}

func TestHandleSimulate_NoBalances(t *testing.T) {
	handler := NewScenarioHandler(testStore(), nil)

	body := `{"name":"Side Hustle","type":"income_change","monthlyIncome":2000,"duration":24,"startMonth":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/scenarios/simulate", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleSimulate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp SimulationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	// With no connected accounts the reserve estimate sits at the floor.
	if resp.Baseline.EmergencyFund != 5000 {
		t.Errorf("expected emergency fund floor 5000, got %f", resp.Baseline.EmergencyFund)
	}
}

func TestHandleSimulate_InvalidScenario(t *testing.T) {
	handler := NewScenarioHandler(testStore(), nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "negative duration", body: `{"name":"Bad","duration":-1,"startMonth":1}`},
		{name: "zero start month", body: `{"name":"Bad","duration":6,"startMonth":0}`},
		{name: "malformed json", body: `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/scenarios/simulate", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.HandleSimulate(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestHandlePresets(t *testing.T) {
	handler := NewScenarioHandler(testStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/scenarios/presets", nil)
	w := httptest.NewRecorder()
	handler.HandlePresets(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var presets []scenario.Scenario
	if err := json.NewDecoder(w.Body).Decode(&presets); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(presets) != 4 {
		t.Fatalf("expected 4 presets, got %d", len(presets))
	}
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			t.Errorf("preset %q does not validate: %v", p.Name, err)
		}
	}
}

func TestHandleSimulate_MethodNotAllowed(t *testing.T) {
	handler := NewScenarioHandler(testStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/scenarios/simulate", nil)
	w := httptest.NewRecorder()
	handler.HandleSimulate(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}
