package pricing

import "gymbook-promotions/internal/domain"

// FormatDiscountText renders the marketing label for a promotion, e.g. "ลด 20%" or "ลด ฿500".
// It ignores activity, dates and usage.
func FormatDiscountText(promotion *domain.Promotion) string {
	if promotion == nil || promotion.DiscountType == nil || promotion.DiscountValue == nil {
		return ""
	}

	value := FormatAmount(*promotion.DiscountValue)
	switch *promotion.DiscountType {
	case domain.DiscountTypePercentage:
		return "ลด " + value + "%"
	case domain.DiscountTypeFixedAmount:
		return "ลด ฿" + value
	default:
		return ""
	}
}
