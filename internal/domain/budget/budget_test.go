package budget

import (
	"math"
	"testing"

	"lifecfo/internal/domain/records"
)

func seedRecords() ([]records.IncomeStream, []records.Expense, []records.Investment, []records.Debt) {
	snap := records.DefaultSnapshot()
	return snap.IncomeStreams, snap.Expenses, snap.Investments, snap.Debts
}

func TestCalculate_SeedData(t *testing.T) {
	streams, expenses, investments, debts := seedRecords()

	totals := Calculate(streams, expenses, investments, debts)

	if got, want := totals.Income, 17123.72; math.Abs(got-want) > 1e-9 {
		t.Errorf("Income = %v, want %v", got, want)
	}
	if got, want := totals.Expenses, 10610.68; math.Abs(got-want) > 1e-9 {
		t.Errorf("Expenses = %v, want %v", got, want)
	}
	if got, want := totals.Investments, 500.0; got != want {
		t.Errorf("Investments = %v, want %v", got, want)
	}
	if got, want := totals.AvailableForSpending, 6013.04; math.Abs(got-want) > 1e-6 {
		t.Errorf("AvailableForSpending = %v, want %v", got, want)
	}
	if got, want := totals.DebtBalance, 120000.0; got != want {
		t.Errorf("DebtBalance = %v, want %v", got, want)
	}
}

func TestCalculate_EmptyCollections(t *testing.T) {
	totals := Calculate(nil, nil, nil, nil)
	if totals != (Totals{}) {
		t.Errorf("Calculate(nil...) = %+v, want zero totals", totals)
	}
}

func TestCalculate_NegativeSurplusNotFloored(t *testing.T) {
	totals := Calculate(
		[]records.IncomeStream{{Name: "Salary", Amount: 1000}},
		[]records.Expense{{Category: "Rent", Amount: 2000}},
		nil, nil,
	)
	if totals.AvailableForSpending != -1000 {
		t.Errorf("AvailableForSpending = %v, want -1000", totals.AvailableForSpending)
	}
}

func TestRatio_ZeroIncomePolicy(t *testing.T) {
	if got := Ratio(500, 0); got != 0 {
		t.Errorf("Ratio(500, 0) = %v, want 0", got)
	}
	if got := Ratio(0, 0); got != 0 {
		t.Errorf("Ratio(0, 0) = %v, want 0", got)
	}
	if got := Ratio(50, 100); got != 0.5 {
		t.Errorf("Ratio(50, 100) = %v, want 0.5", got)
	}
}

func TestAllocate(t *testing.T) {
	streams, expenses, investments, debts := seedRecords()
	totals := Calculate(streams, expenses, investments, debts)

	alloc := Allocate(totals)
	// expenseRatio 10610.68/17123.72 ≈ 0.6196
	if alloc.EssentialPct < 61.9 || alloc.EssentialPct > 62.0 {
		t.Errorf("EssentialPct = %v, want ≈61.96", alloc.EssentialPct)
	}

	zero := Allocate(Totals{})
	if zero != (Allocation{}) {
		t.Errorf("Allocate(zero totals) = %+v, want zeros", zero)
	}
}

func TestSuggestSplit(t *testing.T) {
	split := SuggestSplit(1000)
	if split.EmergencyFund != 300 || split.ExtraDebt != 400 || split.Flexible != 300 {
		t.Errorf("SuggestSplit(1000) = %+v, want 300/400/300", split)
	}
	if SuggestSplit(-50) != (SurplusSplit{}) {
		t.Error("SuggestSplit(-50) should be a zero split")
	}
}

func TestNonDebtExpenses(t *testing.T) {
	_, expenses, _, _ := seedRecords()

	filtered, total := NonDebtExpenses(expenses, DefaultDebtExpenseCategories)
	if len(filtered) != 11 {
		t.Errorf("len(filtered) = %d, want 11", len(filtered))
	}
	// 10610.68 minus the four debt-payment categories.
	want := 10610.68 - (408 + 274 + 1365.59 + 1199.96)
	if math.Abs(total-want) > 1e-9 {
		t.Errorf("non-debt total = %v, want %v", total, want)
	}
}
