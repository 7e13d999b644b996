package pricing

import (
	"math"
	"strconv"

	"gymbook-promotions/internal/domain"

	"github.com/shopspring/decimal"
)

// currencyPlaces is the precision of Thai Baht amounts.
const currencyPlaces = 2

var hundred = decimal.NewFromInt(100)

// discountAmount returns the unrounded discount for price, capped at price.
func discountAmount(price float64, promotion *domain.Promotion) (decimal.Decimal, error) {
	if promotion.DiscountType == nil {
		return decimal.Zero, nil
	}
	if !validAmount(promotion.DiscountValue) {
		return decimal.Zero, domain.ErrInvalidPromotionConfig
	}

	base := decimal.NewFromFloat(price)
	value := decimal.NewFromFloat(*promotion.DiscountValue)

	var discount decimal.Decimal
	switch *promotion.DiscountType {
	case domain.DiscountTypePercentage:
		discount = base.Mul(value).Div(hundred)
		if promotion.MaxDiscountAmount != nil {
			if !validAmount(promotion.MaxDiscountAmount) {
				return decimal.Zero, domain.ErrInvalidPromotionConfig
			}
			discount = decimal.Min(discount, decimal.NewFromFloat(*promotion.MaxDiscountAmount))
		}
	case domain.DiscountTypeFixedAmount:
		discount = value
	default:
		return decimal.Zero, domain.ErrInvalidPromotionConfig
	}

	return decimal.Min(discount, base), nil
}

// settle rounds the discount half-up to satang and derives a non-negative final price.
// Rounding never pushes the final price above price minus discount, so a price with
// sub-satang precision is left as-is by a zero discount.
func settle(price float64, discount decimal.Decimal) (float64, float64) {
	rounded := discount.Round(currencyPlaces)
	exact := decimal.NewFromFloat(price).Sub(rounded)
	final := decimal.Min(exact.Round(currencyPlaces), exact)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return rounded.InexactFloat64(), final.InexactFloat64()
}

func validAmount(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v >= 0
}

// FormatAmount renders an amount with no trailing zeros: 2000 -> "2000", 33.5 -> "33.5".
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
