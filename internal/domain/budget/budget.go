package budget

import (
	"lifecfo/internal/domain/records"
)

// Totals holds the aggregate view derived from the four record collections.
// AvailableForSpending may be negative; no floor is applied.
type Totals struct {
	Income               float64 `json:"totalIncome"`
	Expenses             float64 `json:"totalExpenses"`
	Investments          float64 `json:"totalInvestments"`
	AvailableForSpending float64 `json:"availableForSpending"`
	DebtPayments         float64 `json:"totalDebtPayments"`
	DebtBalance          float64 `json:"totalDebtBalance"`
}

// Calculate derives totals from record snapshots. Empty collections sum
// to zero; the function is pure and never mutates its inputs.
func Calculate(streams []records.IncomeStream, expenses []records.Expense, investments []records.Investment, debts []records.Debt) Totals {
	var t Totals
	for _, s := range streams {
		t.Income += s.Amount
	}
	for _, e := range expenses {
		t.Expenses += e.Amount
	}
	for _, inv := range investments {
		t.Investments += inv.Amount
	}
	for _, d := range debts {
		t.DebtPayments += d.Payment
		t.DebtBalance += d.Balance
	}
	t.AvailableForSpending = t.Income - t.Expenses - t.Investments
	return t
}

// Ratio divides part by whole with the degenerate-aggregate policy:
// a zero (or negative) whole reports 0 rather than NaN/Inf.
func Ratio(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole
}

// Allocation is the budget split as percentages of total income.
type Allocation struct {
	EssentialPct  float64 `json:"essentialPct"`
	InvestmentPct float64 `json:"investmentPct"`
	FlexiblePct   float64 `json:"flexiblePct"`
}

// Allocate computes the income allocation percentages shown on the
// dashboard. With zero income all percentages are 0.
func Allocate(t Totals) Allocation {
	return Allocation{
		EssentialPct:  Ratio(t.Expenses, t.Income) * 100,
		InvestmentPct: Ratio(t.Investments, t.Income) * 100,
		FlexiblePct:   Ratio(t.AvailableForSpending, t.Income) * 100,
	}
}

// SurplusSplit is the suggested use of the monthly surplus:
// 30% emergency fund, 40% extra debt payment, 30% flexible spending.
type SurplusSplit struct {
	EmergencyFund float64 `json:"emergencyFund"`
	ExtraDebt     float64 `json:"extraDebt"`
	Flexible      float64 `json:"flexible"`
}

// SuggestSplit divides the available surplus. A non-positive surplus
// yields a zero split.
func SuggestSplit(available float64) SurplusSplit {
	if available <= 0 {
		return SurplusSplit{}
	}
	return SurplusSplit{
		EmergencyFund: available * 0.3,
		ExtraDebt:     available * 0.4,
		Flexible:      available * 0.3,
	}
}

// NetWorth is connected-account balance minus outstanding debt.
func NetWorth(accountBalance, debtBalance float64) float64 {
	return accountBalance - debtBalance
}

// DefaultDebtExpenseCategories lists the expense categories that duplicate
// a debt payment in the seeded data. Expense grouping by category name is a
// carry-over from the original records; Expense.Priority is not consulted.
var DefaultDebtExpenseCategories = []string{
	"Student Loans",
	"RV Payment",
	"Suburban Payment",
	"Tesla Payment",
}

// NonDebtExpenses filters out expenses whose category appears in
// debtCategories and returns the remainder with its subtotal.
func NonDebtExpenses(expenses []records.Expense, debtCategories []string) ([]records.Expense, float64) {
	isDebt := make(map[string]struct{}, len(debtCategories))
	for _, c := range debtCategories {
		isDebt[c] = struct{}{}
	}

	out := make([]records.Expense, 0, len(expenses))
	var total float64
	for _, e := range expenses {
		if _, ok := isDebt[e.Category]; ok {
			continue
		}
		out = append(out, e)
		total += e.Amount
	}
	return out, total
}
