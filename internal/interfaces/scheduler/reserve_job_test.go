package scheduler

import (
	"context"
	"strings"
	"testing"

	"lifecfo/internal/domain/notification"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/shared/messages"
)

func reserveTestStore(income, expenses float64) *records.Store {
	return records.NewStore(records.Snapshot{
		Version:       records.CurrentSnapshotVersion,
		IncomeStreams: []records.IncomeStream{{Name: "Salary", Amount: income}},
		Expenses:      []records.Expense{{Category: "Living", Amount: expenses}},
	})
}

func TestReserveCheckJob_NegativeTrajectoryAlerts(t *testing.T) {
	messenger := &recordingMessenger{}
	alerts := notification.NewService(stubDeviceRepo{}, messenger)

	msgs := &messages.Messages{
		EmergencyFundRisk: messages.MessageText{
			Title: "Emergency fund at risk",
			Body:  "Projected emergency fund of $%.2f puts reserve risk at %s.",
		},
	}

	// A 4000 monthly shortfall drains the 5000 floor reserve within two
	// months of the projection.
	job := NewReserveCheckJob(reserveTestStore(2000, 6000), stubBalanceRepo{}, alerts, msgs)
	if err := job.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(messenger.bodies) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(messenger.bodies))
	}
	if !strings.Contains(messenger.bodies[0], "High") {
		t.Errorf("alert body does not name the risk level: %q", messenger.bodies[0])
	}
}

func TestReserveCheckJob_HealthyTrajectorySendsNoAlert(t *testing.T) {
	messenger := &recordingMessenger{}
	alerts := notification.NewService(stubDeviceRepo{}, messenger)

	job := NewReserveCheckJob(reserveTestStore(6000, 2000), stubBalanceRepo{}, alerts, nil)
	if err := job.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messenger.bodies) != 0 {
		t.Errorf("expected no alerts, got %v", messenger.bodies)
	}
}

func TestReserveCheckJob_BuiltInTextWhenCatalogMissing(t *testing.T) {
	messenger := &recordingMessenger{}
	alerts := notification.NewService(stubDeviceRepo{}, messenger)

	job := NewReserveCheckJob(reserveTestStore(2000, 6000), stubBalanceRepo{}, alerts, nil)
	if err := job.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(messenger.bodies) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(messenger.bodies))
	}
	if !strings.Contains(messenger.bodies[0], "reserve risk") {
		t.Errorf("unexpected fallback alert body: %q", messenger.bodies[0])
	}
}
