package http

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"lifecfo/internal/domain/budget"
	"lifecfo/internal/domain/debt"
	"lifecfo/internal/domain/records"
)

// DebtHandler serves payoff projections
type DebtHandler struct {
	store *records.Store
	now   func() time.Time
}

// NewDebtHandler creates a new debt handler
func NewDebtHandler(store *records.Store) *DebtHandler {
	return &DebtHandler{store: store, now: time.Now}
}

// DebtProjection is the payoff math for a single debt
type DebtProjection struct {
	Name          string  `json:"name"`
	Balance       float64 `json:"balance"`
	Payment       float64 `json:"payment"`
	InterestRate  float64 `json:"interestRate"`
	PayoffMonths  int     `json:"payoffMonths"`
	TotalInterest float64 `json:"totalInterest"`
	Amortizes     bool    `json:"amortizes"`
}

// ProjectionResponse is the full payoff projection payload
type ProjectionResponse struct {
	Debts           []DebtProjection `json:"debts"`
	AvalancheOrder  []string         `json:"avalancheOrder"`
	ExtraPayment    float64          `json:"extraPayment"`
	BaseMonths      int              `json:"baseMonths"`
	BoostedMonths   int              `json:"boostedMonths"`
	MonthsSaved     int              `json:"monthsSaved"`
	InterestSaved   float64          `json:"interestSaved"`
	DebtFreeDate    string           `json:"debtFreeDate"`
	Amortizes       bool             `json:"amortizes"`
}

// HandleProjection serves GET /api/debts/projection?extra=N
func (h *DebtHandler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	extra := 0.0
	if raw := r.URL.Query().Get("extra"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			http.Error(w, "extra must be a non-negative number", http.StatusBadRequest)
			return
		}
		extra = parsed
	}

	debts := h.store.Debts()

	// An extra payment can only come out of the monthly surplus; anything
	// beyond that is clamped before projecting.
	totals := budget.Calculate(h.store.IncomeStreams(), h.store.Expenses(), h.store.Investments(), debts)
	if surplus := math.Max(0, totals.AvailableForSpending); extra > surplus {
		extra = surplus
	}

	response := ProjectionResponse{
		Debts:          make([]DebtProjection, 0, len(debts)),
		AvalancheOrder: avalancheOrder(debts),
		ExtraPayment:   extra,
	}

	for _, d := range debts {
		proj := DebtProjection{
			Name:         d.Name,
			Balance:      d.Balance,
			Payment:      d.Payment,
			InterestRate: d.InterestRate,
		}
		months, err := debt.PayoffMonths(d.Balance, d.Payment, d.InterestRate)
		if err == nil {
			proj.PayoffMonths = months
			proj.Amortizes = true
			if interest, err := debt.TotalInterest(d.Balance, d.Payment, d.InterestRate); err == nil {
				proj.TotalInterest = interest
			}
		} else if !errors.Is(err, debt.ErrNoPayment) && !errors.Is(err, debt.ErrNeverAmortizes) {
			log.Printf("Error projecting debt %q: %v", d.Name, err)
		}
		response.Debts = append(response.Debts, proj)
	}

	if base, err := debt.PooledPayoffMonths(debts, 0); err == nil {
		response.BaseMonths = base
		response.Amortizes = true

		boosted, err := debt.PooledPayoffMonths(debts, extra)
		if err != nil {
			boosted = base
		}
		response.BoostedMonths = boosted
		if base > boosted {
			response.MonthsSaved = base - boosted
		}
		response.DebtFreeDate = h.now().AddDate(0, boosted, 0).Format("January 2006")

		if saved, err := debt.InterestSaved(debts, extra); err == nil {
			response.InterestSaved = saved
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// avalancheOrder lists debt names from highest to lowest interest rate,
// the order that minimizes total interest when targeting extra payments.
func avalancheOrder(debts []records.Debt) []string {
	sorted := append([]records.Debt(nil), debts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].InterestRate > sorted[j].InterestRate
	})

	names := make([]string, 0, len(sorted))
	for _, d := range sorted {
		names = append(names, d.Name)
	}
	return names
}
