package scheduler

import (
	"context"
	"fmt"
	"log"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/budget"
	"lifecfo/internal/domain/notification"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/domain/scenario"
	"lifecfo/internal/shared/messages"
)

// BalanceReader reads the last-known balances of connected accounts.
type BalanceReader interface {
	ListAll(ctx context.Context) (map[string]bankfeed.Balance, error)
}

// ReserveCheckJob projects the household's current trajectory after a sync
// pass and raises an alert when the emergency fund is at risk over the
// projection horizon.
type ReserveCheckJob struct {
	store         *records.Store
	balances      BalanceReader
	alertService  *notification.Service
	alertMessages *messages.Messages
}

// NewReserveCheckJob creates a reserve-risk check against the given records.
func NewReserveCheckJob(store *records.Store, balances BalanceReader, alertService *notification.Service, alertMessages *messages.Messages) *ReserveCheckJob {
	return &ReserveCheckJob{
		store:         store,
		balances:      balances,
		alertService:  alertService,
		alertMessages: alertMessages,
	}
}

// Execute simulates the no-decision baseline and alerts on fund risk.
// A balance read failure degrades to a zero balance, same as the dashboard.
func (j *ReserveCheckJob) Execute(ctx context.Context) error {
	bankBalance := 0.0
	if stored, err := j.balances.ListAll(ctx); err == nil {
		bankBalance = bankfeed.TotalCurrentBalance(stored)
	} else {
		log.Printf("Reserve check: balance read failed, assuming zero balance: %v", err)
	}

	totals := budget.Calculate(j.store.IncomeStreams(), j.store.Expenses(), j.store.Investments(), j.store.Debts())
	base := scenario.Baseline{
		Income:        totals.Income,
		Expenses:      totals.Expenses,
		EmergencyFund: scenario.BaselineEmergencyFund(bankBalance),
	}

	months := scenario.Simulate(base, scenario.Scenario{Name: "Current trajectory", StartMonth: 1})
	insights := scenario.DeriveInsights(months)
	if !insights.EmergencyFundRisk {
		log.Printf("Reserve check: fund projected healthy, risk %s", insights.RiskLevel)
		return nil
	}

	lowest := months[0].EmergencyFundLevel
	for _, m := range months[1:] {
		if m.EmergencyFundLevel < lowest {
			lowest = m.EmergencyFundLevel
		}
	}

	log.Printf("Reserve check: emergency fund at risk, lowest projected level %.2f", lowest)
	j.sendRiskAlert(ctx, lowest, insights.RiskLevel)
	return nil
}

func (j *ReserveCheckJob) sendRiskAlert(ctx context.Context, fundLevel float64, riskLevel string) {
	if j.alertService == nil {
		return
	}

	if j.alertMessages != nil {
		text := j.alertMessages.EmergencyFundRisk
		err := j.alertService.SendAlert(ctx, text.Title,
			fmt.Sprintf(text.Body, fundLevel, riskLevel),
			notification.CategoryEmergencyFund,
			map[string]string{"riskLevel": riskLevel})
		if err != nil {
			log.Printf("Failed to send reserve-risk alert: %v", err)
		}
		return
	}

	if err := j.alertService.EmergencyFundRiskAlert(ctx, riskLevel, fundLevel); err != nil {
		log.Printf("Failed to send reserve-risk alert: %v", err)
	}
}

// Description returns a human-readable description of the job.
func (j *ReserveCheckJob) Description() string {
	return "Emergency fund reserve check"
}
