package pricing

import (
	"time"

	"gymbook-promotions/internal/domain"
)

// FilterApplicablePromotions keeps the promotions that can be offered for packageID right now.
func FilterApplicablePromotions(promotions []domain.Promotion, packageID string) []domain.Promotion {
	return defaultCalculator.FilterApplicable(promotions, packageID)
}

// FilterApplicable returns, in input order, the promotions that are active, not exhausted,
// global or scoped to packageID, and inside their validity window.
// Passing the filter does not guarantee Calculate succeeds later; minimum purchase is not checked here.
func (c *Calculator) FilterApplicable(promotions []domain.Promotion, packageID string) []domain.Promotion {
	now := c.now()
	applicable := make([]domain.Promotion, 0, len(promotions))
	for i := range promotions {
		if Applicable(&promotions[i], packageID, now) {
			applicable = append(applicable, promotions[i])
		}
	}
	return applicable
}

// Applicable reports whether a single promotion passes the filter at now.
func Applicable(p *domain.Promotion, packageID string, now time.Time) bool {
	if !p.IsActive || p.Exhausted() || !p.AppliesToPackage(packageID) {
		return false
	}
	if p.StartDate != nil && p.StartDate.After(now) {
		return false
	}
	if p.EndDate != nil && p.EndDate.Before(now) {
		return false
	}
	return true
}
