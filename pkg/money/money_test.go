package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatARS(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "$0"},
		{"950", "$950"},
		{"1500", "$1.500"},
		{"13200", "$13.200"},
		{"10200", "$10.200"},
		{"1234567", "$1.234.567"},
		{"99.5", "$99,50"},
		{"13200.05", "$13.200,05"},
		{"-1500", "-$1.500"},
	}

	for _, tt := range tests {
		amount, err := decimal.NewFromString(tt.amount)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.amount, err)
		}
		if got := FormatARS(amount); got != tt.want {
			t.Errorf("FormatARS(%s) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
