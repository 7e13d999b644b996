// Package pricing evaluates promotions against package prices.
//
// Everything here is pure: inputs are read-only snapshots and the only ambient
// input is the clock, which a Calculator lets callers pin.
package pricing

import (
	"fmt"
	"math"
	"time"

	"gymbook-promotions/internal/domain"
)

// Calculator applies promotion rules at the time reported by its clock.
type Calculator struct {
	now func() time.Time
}

// NewCalculator returns a Calculator using now as its clock. A nil now means time.Now.
func NewCalculator(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

var defaultCalculator = NewCalculator(nil)

// CalculateDiscountPrice prices one package against one promotion at the current time.
func CalculateDiscountPrice(price float64, promotion *domain.Promotion) domain.DiscountResult {
	return defaultCalculator.Calculate(price, promotion)
}

// Calculate validates promotion and computes the discounted price.
// Checks run in a fixed order and the first failure is reported; it never panics.
func (c *Calculator) Calculate(price float64, promotion *domain.Promotion) domain.DiscountResult {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return invalid(domain.DiscountResult{}, domain.ErrInvalidPrice)
	}

	result := domain.DiscountResult{
		OriginalPrice: price,
		FinalPrice:    price,
		IsValid:       true,
	}
	if promotion == nil {
		return result
	}

	if err := c.Validate(price, promotion); err != nil {
		return invalid(result, err)
	}

	discount, err := discountAmount(price, promotion)
	if err != nil {
		return invalid(result, err)
	}

	result.DiscountAmount, result.FinalPrice = settle(price, discount)
	id := promotion.ID
	result.PromotionID = &id
	return result
}

// Validate runs the gate checks in order: active, start, end, usage, minimum purchase.
func (c *Calculator) Validate(price float64, promotion *domain.Promotion) error {
	now := c.now()

	if !promotion.IsActive {
		return domain.ErrPromotionInactive
	}
	if promotion.StartDate != nil && now.Before(*promotion.StartDate) {
		return domain.ErrPromotionNotStarted
	}
	if promotion.EndDate != nil && now.After(*promotion.EndDate) {
		return domain.ErrPromotionExpired
	}
	if promotion.Exhausted() {
		return domain.ErrPromotionExhausted
	}
	if promotion.MinPurchaseAmount != nil && price < *promotion.MinPurchaseAmount {
		return fmt.Errorf("%w ฿%s", domain.ErrBelowMinimumPurchase, FormatAmount(*promotion.MinPurchaseAmount))
	}
	return nil
}

func invalid(result domain.DiscountResult, err error) domain.DiscountResult {
	result.DiscountAmount = 0
	result.FinalPrice = result.OriginalPrice
	result.PromotionID = nil
	result.IsValid = false
	result.Error = err.Error()
	result.Reason = domain.ReasonFor(err)
	return result
}
