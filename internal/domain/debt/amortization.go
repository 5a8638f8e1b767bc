package debt

import (
	"errors"
	"math"

	"lifecfo/internal/domain/records"
)

// Amortization errors. Both mark the payoff as indeterminate; callers
// surface them as a "never pays off" state instead of NaN or Inf.
var (
	ErrNoPayment      = errors.New("payment must be positive")
	ErrNeverAmortizes = errors.New("payment does not cover accruing interest")
)

// PayoffMonths returns the number of months needed to retire a balance at
// the given monthly payment and nominal annual rate (percent, 6.5 = 6.5%).
// A partial final month counts as a full month. A zero or negative balance
// is already paid off.
func PayoffMonths(balance, payment, annualRatePct float64) (int, error) {
	if balance <= 0 {
		return 0, nil
	}
	if payment <= 0 {
		return 0, ErrNoPayment
	}

	monthlyRate := annualRatePct / 100 / 12
	if monthlyRate == 0 {
		return int(math.Ceil(balance / payment)), nil
	}

	// Closed-form amortization period:
	//   n = -ln(1 - B*r/P) / ln(1 + r)
	// The log argument goes non-positive when the payment fails to cover
	// the interest accruing each month.
	if balance*monthlyRate >= payment {
		return 0, ErrNeverAmortizes
	}

	months := -math.Log(1-balance*monthlyRate/payment) / math.Log(1+monthlyRate)
	return int(math.Ceil(months)), nil
}

// TotalInterest returns the interest paid over the full payoff:
// payment × months − balance.
func TotalInterest(balance, payment, annualRatePct float64) (float64, error) {
	months, err := PayoffMonths(balance, payment, annualRatePct)
	if err != nil {
		return 0, err
	}
	return payment*float64(months) - balance, nil
}

// PooledPayoffMonths estimates the time to retire all debts together,
// paying the sum of their payments plus extraPayment against the combined
// balance at the balance-weighted average rate.
//
// This blended-rate pooling is an approximation, not a per-debt avalanche
// schedule: real avalanche ordering retires debts at different months and
// cascades the freed payment, which this formula does not model.
func PooledPayoffMonths(debts []records.Debt, extraPayment float64) (int, error) {
	var totalBalance, totalPayment, weighted float64
	for _, d := range debts {
		totalBalance += d.Balance
		totalPayment += d.Payment
		weighted += d.InterestRate * d.Balance
	}
	if totalBalance == 0 {
		// No outstanding balance means already debt-free.
		return 0, nil
	}
	return PayoffMonths(totalBalance, totalPayment+extraPayment, weighted/totalBalance)
}

// InterestSaved reports how much total interest an even split of
// extraPayment across all debts would save versus the current payments.
// The result is floored at zero: an undercounted payoff month can make the
// raw delta negative, which must never be reported as negative savings.
func InterestSaved(debts []records.Debt, extraPayment float64) (float64, error) {
	if len(debts) == 0 || extraPayment <= 0 {
		return 0, nil
	}

	perDebt := extraPayment / float64(len(debts))
	var base, boosted float64
	for _, d := range debts {
		current, err := TotalInterest(d.Balance, d.Payment, d.InterestRate)
		if err != nil {
			return 0, err
		}
		withExtra, err := TotalInterest(d.Balance, d.Payment+perDebt, d.InterestRate)
		if err != nil {
			return 0, err
		}
		base += current
		boosted += withExtra
	}

	return math.Max(0, base-boosted), nil
}
