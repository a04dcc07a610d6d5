package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
)

var oneHundred = decimal.NewFromInt(100)

// ResolvedPrice is the outcome of applying today's discount to a product.
type ResolvedPrice struct {
	EffectivePrice  decimal.Decimal
	OriginalPrice   decimal.Decimal
	DiscountActive  bool
	DiscountPercent decimal.Decimal
}

// ResolvePrice applies at most one active discount for the given weekday.
// When more than one active row targets the same day, the largest percent
// wins. Absence of a match is the normal "no sale today" case.
func ResolvePrice(basePrice decimal.Decimal, discounts []models.Discount, today time.Weekday) ResolvedPrice {
	resolved := ResolvedPrice{
		EffectivePrice: basePrice,
		OriginalPrice:  basePrice,
	}

	for _, d := range discounts {
		if !d.IsActive || d.DayOfWeek != int(today) {
			continue
		}
		if resolved.DiscountActive && d.Percent.LessThanOrEqual(resolved.DiscountPercent) {
			continue
		}
		resolved.DiscountActive = true
		resolved.DiscountPercent = d.Percent
	}

	if resolved.DiscountActive {
		factor := oneHundred.Sub(resolved.DiscountPercent).Div(oneHundred)
		resolved.EffectivePrice = basePrice.Mul(factor).Round(2)
	}

	return resolved
}
