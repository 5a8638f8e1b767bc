package records

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors
var (
	ErrNonFiniteAmount = errors.New("amount must be a finite number")
	ErrNegativeBalance = errors.New("debt balance cannot be negative")
	ErrMissingName     = errors.New("name is required")
	ErrMissingCategory = errors.New("category is required")
)

// IncomeStream is a recurring monthly income source.
// Frequency and Date are display labels and carry no computational meaning.
type IncomeStream struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	Date      string  `json:"date"`
}

// Validate checks the stream at the construction boundary.
// Negative amounts are accepted (semantically invalid but not rejected,
// matching how records flow in from user edits).
func (s IncomeStream) Validate() error {
	if s.Name == "" {
		return ErrMissingName
	}
	if !isFinite(s.Amount) {
		return fmt.Errorf("income %q: %w", s.Name, ErrNonFiniteAmount)
	}
	return nil
}

// Expense is a recurring monthly expense.
// Priority is stored but not consumed by any formula; grouping is done by
// category name instead.
type Expense struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Priority int     `json:"priority"`
}

func (e Expense) Validate() error {
	if e.Category == "" {
		return ErrMissingCategory
	}
	if !isFinite(e.Amount) {
		return fmt.Errorf("expense %q: %w", e.Category, ErrNonFiniteAmount)
	}
	return nil
}

// Investment is a recurring monthly contribution.
type Investment struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func (i Investment) Validate() error {
	if i.Name == "" {
		return ErrMissingName
	}
	if !isFinite(i.Amount) {
		return fmt.Errorf("investment %q: %w", i.Name, ErrNonFiniteAmount)
	}
	return nil
}

// Debt is an outstanding balance with a fixed monthly payment.
// InterestRate is a nominal annual percentage (6.5 means 6.5%).
// MinPayment is an informational floor; no calculation enforces it.
type Debt struct {
	Name         string  `json:"name"`
	Balance      float64 `json:"balance"`
	Payment      float64 `json:"payment"`
	InterestRate float64 `json:"interestRate"`
	MinPayment   float64 `json:"minPayment"`
}

func (d Debt) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	for _, v := range []float64{d.Balance, d.Payment, d.InterestRate, d.MinPayment} {
		if !isFinite(v) {
			return fmt.Errorf("debt %q: %w", d.Name, ErrNonFiniteAmount)
		}
	}
	if d.Balance < 0 {
		return fmt.Errorf("debt %q: %w", d.Name, ErrNegativeBalance)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
