package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymbook-promotions/internal/domain"
	"gymbook-promotions/internal/pricing"
	"gymbook-promotions/pkg/cache"
	"gymbook-promotions/pkg/logger"

	"github.com/google/uuid"
)

// PromotionMetrics records engine outcomes. A nil PromotionMetrics is allowed.
type PromotionMetrics interface {
	ObserveQuote(result domain.DiscountResult)
	ObserveOffers(n int)
}

// CacheTTL controls how long repository reads are kept in the cache.
type CacheTTL struct {
	Candidates time.Duration
	Package    time.Duration
}

// PromotionUsecase serves promotion offers and checkout quotes for packages.
// It only reads promotions; usage counters are incremented by the booking flow.
type PromotionUsecase struct {
	promotionRepo domain.PromotionRepository
	packageRepo   domain.PackageRepository
	cache         cache.CacheService
	calc          *pricing.Calculator
	metrics       PromotionMetrics
	ttl           CacheTTL
}

func NewPromotionUsecase(
	promotionRepo domain.PromotionRepository,
	packageRepo domain.PackageRepository,
	cacheService cache.CacheService,
	calc *pricing.Calculator,
	metrics PromotionMetrics,
	ttl CacheTTL,
) *PromotionUsecase {
	if calc == nil {
		calc = pricing.NewCalculator(nil)
	}
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &PromotionUsecase{
		promotionRepo: promotionRepo,
		packageRepo:   packageRepo,
		cache:         cacheService,
		calc:          calc,
		metrics:       metrics,
		ttl:           ttl,
	}
}

// Offer is an applicable promotion with its display label and the price it would produce.
type Offer struct {
	Promotion domain.Promotion      `json:"promotion"`
	Label     string                `json:"label"`
	Preview   domain.DiscountResult `json:"preview"`
}

type OffersResponse struct {
	Package domain.Package `json:"package"`
	Offers  []Offer        `json:"offers"`
}

// ListOffers returns the promotions a customer can currently see for a package.
func (uc *PromotionUsecase) ListOffers(ctx context.Context, packageID string) (*OffersResponse, error) {
	pkg, err := uc.activePackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	candidates, err := cache.Remember(ctx, uc.cache, candidatesKey(pkg.ID), uc.ttl.Candidates, func(ctx context.Context) ([]domain.Promotion, error) {
		return uc.promotionRepo.ListPromotionsForPackage(ctx, pkg.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("load promotions: %w", err)
	}

	applicable := uc.calc.FilterApplicable(candidates, pkg.ID)
	offers := make([]Offer, 0, len(applicable))
	for i := range applicable {
		p := &applicable[i]
		offers = append(offers, Offer{
			Promotion: *p,
			Label:     pricing.FormatDiscountText(p),
			Preview:   uc.calc.Calculate(pkg.Price, p),
		})
	}

	if uc.metrics != nil {
		uc.metrics.ObserveOffers(len(offers))
	}
	logger.WithContext(ctx).Debug().
		Str("package_id", pkg.ID).
		Int("candidates", len(candidates)).
		Int("offers", len(offers)).
		Msg("Listed promotion offers")

	return &OffersResponse{Package: *pkg, Offers: offers}, nil
}

type QuoteRequest struct {
	PackageID   string `json:"packageId"`
	PromotionID string `json:"promotionId"`
}

type QuoteResponse struct {
	Package   domain.Package        `json:"package"`
	Promotion *domain.Promotion     `json:"promotion,omitempty"`
	Result    domain.DiscountResult `json:"result"`
}

// Quote prices a package with an optional promotion at checkout.
// Engine failures are returned in Result, not as errors.
func (uc *PromotionUsecase) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	pkg, err := uc.activePackage(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}

	var promotion *domain.Promotion
	if promotionID := strings.TrimSpace(req.PromotionID); promotionID != "" {
		if _, err := uuid.Parse(promotionID); err != nil {
			return nil, fmt.Errorf("%w: promotionId", domain.ErrInvalidID)
		}
		promotion, err = uc.promotionRepo.GetPromotionByID(ctx, promotionID)
		if err != nil {
			return nil, err
		}
		if !promotion.AppliesToPackage(pkg.ID) {
			return nil, domain.ErrPromotionNotApplicable
		}
	}

	result := uc.calc.Calculate(pkg.Price, promotion)
	if uc.metrics != nil {
		uc.metrics.ObserveQuote(result)
	}

	l := logger.WithContext(ctx)
	if !result.IsValid {
		l.Info().
			Str("package_id", pkg.ID).
			Str("promotion_id", req.PromotionID).
			Str("reason", string(result.Reason)).
			Msg("Promotion rejected at checkout")
	} else {
		l.Debug().
			Str("package_id", pkg.ID).
			Float64("final_price", result.FinalPrice).
			Msg("Quote computed")
	}

	return &QuoteResponse{Package: *pkg, Promotion: promotion, Result: result}, nil
}

// AuditEntry explains how the engine treats one promotion for a package.
type AuditEntry struct {
	Promotion  domain.Promotion      `json:"promotion"`
	Label      string                `json:"label"`
	Applicable bool                  `json:"applicable"`
	Result     domain.DiscountResult `json:"result"`
}

type AuditResponse struct {
	Package domain.Package `json:"package"`
	Entries []AuditEntry   `json:"entries"`
}

// AuditPackage evaluates every candidate promotion for a package, including inactive ones.
// It reads the database directly and works for inactive packages too.
func (uc *PromotionUsecase) AuditPackage(ctx context.Context, packageID string) (*AuditResponse, error) {
	if _, err := uuid.Parse(packageID); err != nil {
		return nil, fmt.Errorf("%w: packageId", domain.ErrInvalidID)
	}
	pkg, err := uc.packageRepo.GetPackageByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	candidates, err := uc.promotionRepo.ListPromotionsForPackage(ctx, pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("load promotions: %w", err)
	}

	applicable := make(map[string]bool)
	for _, p := range uc.calc.FilterApplicable(candidates, pkg.ID) {
		applicable[p.ID] = true
	}

	entries := make([]AuditEntry, 0, len(candidates))
	for i := range candidates {
		p := &candidates[i]
		entries = append(entries, AuditEntry{
			Promotion:  *p,
			Label:      pricing.FormatDiscountText(p),
			Applicable: applicable[p.ID],
			Result:     uc.calc.Calculate(pkg.Price, p),
		})
	}
	return &AuditResponse{Package: *pkg, Entries: entries}, nil
}

func (uc *PromotionUsecase) activePackage(ctx context.Context, packageID string) (*domain.Package, error) {
	packageID = strings.TrimSpace(packageID)
	if _, err := uuid.Parse(packageID); err != nil {
		return nil, fmt.Errorf("%w: packageId", domain.ErrInvalidID)
	}

	pkg, err := cache.Remember(ctx, uc.cache, packageKey(packageID), uc.ttl.Package, func(ctx context.Context) (*domain.Package, error) {
		return uc.packageRepo.GetPackageByID(ctx, packageID)
	})
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, domain.ErrPackageNotFound
	}
	return pkg, nil
}

func candidatesKey(packageID string) string { return "promotions:package:" + packageID }
func packageKey(packageID string) string    { return "package:" + packageID }
