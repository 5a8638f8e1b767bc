package records

import (
	"encoding/json"
	"fmt"
)

// CurrentSnapshotVersion is the schema version written by this build.
// Version 0 means a legacy snapshot persisted before versioning existed.
const CurrentSnapshotVersion = 1

// Snapshot is the persisted form of the four record collections.
type Snapshot struct {
	Version       int            `json:"version"`
	IncomeStreams []IncomeStream `json:"incomeStreams"`
	Expenses      []Expense      `json:"expenses"`
	Investments   []Investment   `json:"investments"`
	Debts         []Debt         `json:"debts"`
}

// DefaultSnapshot returns the documented seed data used when no snapshot
// exists or the stored one cannot be decoded.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Version: CurrentSnapshotVersion,
		IncomeStreams: []IncomeStream{
			{Name: "Salary", Amount: 14302.76, Frequency: "monthly", Date: "10th & 26th"},
			{Name: "VA Disability", Amount: 2820.96, Frequency: "monthly", Date: "1st"},
		},
		Expenses: []Expense{
			{Category: "Tithe", Amount: 700, Priority: 1},
			{Category: "Mortgage/Rent", Amount: 4817.68, Priority: 1},
			{Category: "Suburban Payment", Amount: 1365.59, Priority: 1},
			{Category: "Tesla Payment", Amount: 1199.96, Priority: 1},
			{Category: "Cell Phone", Amount: 312.26, Priority: 1},
			{Category: "Internet", Amount: 110, Priority: 1},
			{Category: "Utilities", Amount: 350, Priority: 1},
			{Category: "Groceries", Amount: 600, Priority: 1},
			{Category: "Transportation", Amount: 60, Priority: 1},
			{Category: "Krystle Turnbull", Amount: 1200, Priority: 1},
			{Category: "Ondra Turnbull", Amount: 221, Priority: 1},
			{Category: "Student Loans", Amount: 408, Priority: 1},
			{Category: "Car Insurance", Amount: 330, Priority: 1},
			{Category: "Solar", Amount: 662.19, Priority: 1},
			{Category: "RV Payment", Amount: 274, Priority: 1},
		},
		Investments: []Investment{
			{Name: "Monthly Investment", Amount: 500},
		},
		Debts: []Debt{
			{Name: "RV Loan", Balance: 18000, Payment: 274, InterestRate: 6.5, MinPayment: 274},
			{Name: "Suburban Loan", Balance: 35000, Payment: 1365.59, InterestRate: 4.2, MinPayment: 1365.59},
			{Name: "Tesla Loan", Balance: 42000, Payment: 1199.96, InterestRate: 3.8, MinPayment: 1199.96},
			{Name: "Student Loans", Balance: 25000, Payment: 408, InterestRate: 5.5, MinPayment: 408},
		},
	}
}

// MigrateSnapshot upgrades a decoded snapshot to the current version.
// Version 0 payloads (written before the version field existed) carry the
// same collection shapes, so migration only normalizes nil slices and stamps
// the version.
func MigrateSnapshot(snap Snapshot) (Snapshot, error) {
	switch snap.Version {
	case 0, CurrentSnapshotVersion:
		snap.Version = CurrentSnapshotVersion
	default:
		return Snapshot{}, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	if snap.IncomeStreams == nil {
		snap.IncomeStreams = []IncomeStream{}
	}
	if snap.Expenses == nil {
		snap.Expenses = []Expense{}
	}
	if snap.Investments == nil {
		snap.Investments = []Investment{}
	}
	if snap.Debts == nil {
		snap.Debts = []Debt{}
	}
	return snap, nil
}

// DecodeSnapshot parses raw persisted bytes and migrates the result.
// A corrupt or unsupported payload falls back to the default seed; the
// error reports what went wrong so callers can log it, but the returned
// snapshot is always usable.
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	if len(raw) == 0 {
		return DefaultSnapshot(), nil
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return DefaultSnapshot(), fmt.Errorf("corrupt snapshot, using defaults: %w", err)
	}

	migrated, err := MigrateSnapshot(snap)
	if err != nil {
		return DefaultSnapshot(), fmt.Errorf("snapshot migration failed, using defaults: %w", err)
	}
	return migrated, nil
}

// EncodeSnapshot serializes a snapshot at the current version.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	snap.Version = CurrentSnapshotVersion
	return json.Marshal(snap)
}
