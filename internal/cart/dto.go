package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartDTO is the session cart payload with derived totals.
type CartDTO struct {
	Items      []CartLineDTO   `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartLineDTO is one cart line as seen by the storefront.
type CartLineDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// EmptyCartDTO returns a zero-value cart for sessions that do not exist yet.
func EmptyCartDTO() *CartDTO {
	return NewCartDTO(nil)
}

// NewCartDTO builds the payload from raw cart lines.
func NewCartDTO(lines []Line) *CartDTO {
	dto := &CartDTO{Items: make([]CartLineDTO, len(lines))}
	for i, line := range lines {
		dto.Items[i] = CartLineDTO{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		}
	}
	dto.TotalItems, dto.TotalPrice = Totals(lines)
	return dto
}
