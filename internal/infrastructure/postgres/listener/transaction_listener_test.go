package listener

import (
	"testing"

	"lifecfo/internal/domain/records"
)

func TestMatchDebtCategory(t *testing.T) {
	debts := []records.Debt{
		{Name: "RV Loan"},
		{Name: "Tesla Payment"},
		{Name: ""},
	}

	tests := []struct {
		name string
		txn  string
		want string
	}{
		{"bank descriptor contains debt name", "RV LOAN PMT 0042", "RV Loan Payment"},
		{"debt name contains short descriptor", "tesla", "Tesla Payment Payment"},
		{"no match", "Grocery Store", ""},
		{"empty descriptor never matches", "", ""},
		{"whitespace descriptor never matches", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchDebtCategory(tt.txn, debts); got != tt.want {
				t.Errorf("matchDebtCategory(%q) = %q, want %q", tt.txn, got, tt.want)
			}
		})
	}
}
