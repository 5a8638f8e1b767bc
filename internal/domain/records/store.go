package records

import (
	"fmt"
	"sync"
)

// Store owns the canonical record collections. All getters return copies so
// callers compute over immutable snapshots; all setters replace the whole
// ordered list after validating each record.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStore creates a store seeded from a (migrated) snapshot.
func NewStore(snap Snapshot) *Store {
	return &Store{snap: snap}
}

// IncomeStreams returns a copy of the income stream collection.
func (s *Store) IncomeStreams() []IncomeStream {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]IncomeStream, len(s.snap.IncomeStreams))
	copy(out, s.snap.IncomeStreams)
	return out
}

// SetIncomeStreams replaces the income stream collection.
func (s *Store) SetIncomeStreams(streams []IncomeStream) error {
	for i, stream := range streams {
		if err := stream.Validate(); err != nil {
			return fmt.Errorf("income stream %d: %w", i, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.IncomeStreams = append([]IncomeStream(nil), streams...)
	return nil
}

// Expenses returns a copy of the expense collection.
func (s *Store) Expenses() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Expense, len(s.snap.Expenses))
	copy(out, s.snap.Expenses)
	return out
}

// SetExpenses replaces the expense collection.
func (s *Store) SetExpenses(expenses []Expense) error {
	for i, expense := range expenses {
		if err := expense.Validate(); err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Expenses = append([]Expense(nil), expenses...)
	return nil
}

// Investments returns a copy of the investment collection.
func (s *Store) Investments() []Investment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Investment, len(s.snap.Investments))
	copy(out, s.snap.Investments)
	return out
}

// SetInvestments replaces the investment collection.
func (s *Store) SetInvestments(investments []Investment) error {
	for i, inv := range investments {
		if err := inv.Validate(); err != nil {
			return fmt.Errorf("investment %d: %w", i, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Investments = append([]Investment(nil), investments...)
	return nil
}

// Debts returns a copy of the debt collection.
func (s *Store) Debts() []Debt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Debt, len(s.snap.Debts))
	copy(out, s.snap.Debts)
	return out
}

// SetDebts replaces the debt collection.
func (s *Store) SetDebts(debts []Debt) error {
	for i, debt := range debts {
		if err := debt.Validate(); err != nil {
			return fmt.Errorf("debt %d: %w", i, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Debts = append([]Debt(nil), debts...)
	return nil
}

// Snapshot returns a deep copy of the full record state for persistence
// or export.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Version:       CurrentSnapshotVersion,
		IncomeStreams: append([]IncomeStream(nil), s.snap.IncomeStreams...),
		Expenses:      append([]Expense(nil), s.snap.Expenses...),
		Investments:   append([]Investment(nil), s.snap.Investments...),
		Debts:         append([]Debt(nil), s.snap.Debts...),
	}
}
