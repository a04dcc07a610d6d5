package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestResolvePriceAppliesDiscountOnlyOnItsDay(t *testing.T) {
	base := dec("12000")
	discounts := []models.Discount{
		{DayOfWeek: int(time.Saturday), Percent: dec("15"), IsActive: true},
	}

	saturday := ResolvePrice(base, discounts, time.Saturday)
	if !saturday.DiscountActive {
		t.Fatal("expected active discount on Saturday")
	}
	if !saturday.EffectivePrice.Equal(dec("10200")) {
		t.Fatalf("expected 10200 on Saturday, got %s", saturday.EffectivePrice)
	}
	if !saturday.OriginalPrice.Equal(base) {
		t.Fatalf("original price must stay %s, got %s", base, saturday.OriginalPrice)
	}

	for day := time.Sunday; day <= time.Friday; day++ {
		resolved := ResolvePrice(base, discounts, day)
		if resolved.DiscountActive {
			t.Fatalf("no discount should apply on %s", day)
		}
		if !resolved.EffectivePrice.Equal(base) {
			t.Fatalf("expected base price on %s, got %s", day, resolved.EffectivePrice)
		}
	}
}

func TestResolvePriceIgnoresInactiveRows(t *testing.T) {
	base := dec("5000")
	discounts := []models.Discount{
		{DayOfWeek: int(time.Monday), Percent: dec("50"), IsActive: false},
	}

	resolved := ResolvePrice(base, discounts, time.Monday)
	if resolved.DiscountActive {
		t.Fatal("inactive discount must not apply")
	}
	if !resolved.EffectivePrice.Equal(base) {
		t.Fatalf("expected base price, got %s", resolved.EffectivePrice)
	}
}

func TestResolvePriceLargestPercentWins(t *testing.T) {
	base := dec("1000")
	discounts := []models.Discount{
		{DayOfWeek: int(time.Monday), Percent: dec("10"), IsActive: true},
		{DayOfWeek: int(time.Monday), Percent: dec("25"), IsActive: true},
		{DayOfWeek: int(time.Monday), Percent: dec("20"), IsActive: true},
	}

	resolved := ResolvePrice(base, discounts, time.Monday)
	if !resolved.DiscountPercent.Equal(dec("25")) {
		t.Fatalf("expected the 25%% row to win, got %s", resolved.DiscountPercent)
	}
	if !resolved.EffectivePrice.Equal(dec("750")) {
		t.Fatalf("expected 750, got %s", resolved.EffectivePrice)
	}
}

func TestResolvePriceRoundsToCents(t *testing.T) {
	base := dec("999.99")
	discounts := []models.Discount{
		{DayOfWeek: int(time.Friday), Percent: dec("33"), IsActive: true},
	}

	resolved := ResolvePrice(base, discounts, time.Friday)
	if resolved.EffectivePrice.Exponent() < -2 {
		t.Fatalf("effective price must be rounded to cents, got %s", resolved.EffectivePrice)
	}
	if !resolved.EffectivePrice.Equal(dec("669.99")) {
		t.Fatalf("expected 669.99, got %s", resolved.EffectivePrice)
	}
}

func TestResolvePriceWithoutDiscounts(t *testing.T) {
	base := dec("4200")
	resolved := ResolvePrice(base, nil, time.Wednesday)
	if resolved.DiscountActive || !resolved.EffectivePrice.Equal(base) {
		t.Fatalf("expected passthrough price, got %+v", resolved)
	}
}
