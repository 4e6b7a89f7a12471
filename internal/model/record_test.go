package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func settlements(amounts ...string) []Settlement {
	out := make([]Settlement, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, Settlement{AmountPaid: dec(a)})
	}
	return out
}

func TestRecomputeTotals(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		payments    []string
		wantPaid    string
		wantBalance string
		wantStatus  string
	}{
		{"no settlements", "1000", nil, "0", "1000", RecordPending},
		{"partial payment", "1000", []string{"400"}, "400", "600", RecordPartial},
		{"paid exactly", "1000", []string{"400", "600"}, "1000", "0", RecordPaid},
		{"many small payments", "100", []string{"25", "25", "25", "24.99"}, "99.99", "0.01", RecordPartial},
		{"single full payment", "250.50", []string{"250.50"}, "250.50", "0", RecordPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paid, balance, status := RecomputeTotals(dec(tt.amount), settlements(tt.payments...))
			if !paid.Equal(dec(tt.wantPaid)) {
				t.Errorf("paid = %s, want %s", paid, tt.wantPaid)
			}
			if !balance.Equal(dec(tt.wantBalance)) {
				t.Errorf("balance = %s, want %s", balance, tt.wantBalance)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %s, want %s", status, tt.wantStatus)
			}
		})
	}
}

func TestRecomputeTotalsDecimalExact(t *testing.T) {
	// Ten payments of 0.10 against 1.00 must sum to exactly 1.00; this is
	// the case binary floating point gets wrong.
	payments := make([]string, 10)
	for i := range payments {
		payments[i] = "0.10"
	}
	paid, balance, status := RecomputeTotals(dec("1.00"), settlements(payments...))
	if !paid.Equal(dec("1.00")) {
		t.Errorf("paid = %s, want exactly 1.00", paid)
	}
	if !balance.IsZero() {
		t.Errorf("balance = %s, want exactly 0", balance)
	}
	if status != RecordPaid {
		t.Errorf("status = %s, want paid", status)
	}
}

func TestRecomputeTotalsOverpayment(t *testing.T) {
	// Overpayment is allowed by design: the balance goes negative rather
	// than being clamped, and the record reads as paid.
	paid, balance, status := RecomputeTotals(dec("1000"), settlements("800", "300"))
	if !paid.Equal(dec("1100")) {
		t.Errorf("paid = %s, want 1100", paid)
	}
	if !balance.Equal(dec("-100")) {
		t.Errorf("balance = %s, want -100", balance)
	}
	if status != RecordPaid {
		t.Errorf("status = %s, want paid", status)
	}
}
