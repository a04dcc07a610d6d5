package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatARS renders an amount the way Argentine storefronts print prices:
// "$" prefix, dot as the thousands separator, comma decimals. Whole amounts
// drop the decimal part entirely ("$13.200", not "$13.200,00").
func FormatARS(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	rounded := amount.Abs().Round(2)

	intPart := rounded.Truncate(0)
	fracPart := rounded.Sub(intPart)

	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	b.WriteString("$")
	b.WriteString(groupThousands(intPart.String()))

	if !fracPart.IsZero() {
		cents := fracPart.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		b.WriteString(",")
		if cents < 10 {
			b.WriteString("0")
		}
		b.WriteString(decimal.NewFromInt(cents).String())
	}

	return b.String()
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
