package types

import "github.com/shopspring/decimal"

// OrderLine is one line of an order's details snapshot. Lines capture the
// product name and unit price at submission time; later catalog edits must not
// change what the order records.
type OrderLine struct {
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// OrderLines is the jsonb-serialized snapshot stored on an order row.
type OrderLines []OrderLine

// Subtotal sums unit price times quantity across all lines.
func (l OrderLines) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range l {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
