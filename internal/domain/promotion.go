package domain

import (
	"context"
	"errors"
	"time"
)

type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

// Promotion is a discount rule, optionally scoped to a single package.
// Nil pointer fields mean "not set" and are never treated as zero by the engine.
type Promotion struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	DiscountType      *DiscountType `json:"discount_type"`
	DiscountValue     *float64      `json:"discount_value"`
	PackageID         *string       `json:"package_id"`
	MinPurchaseAmount *float64      `json:"min_purchase_amount"`
	MaxDiscountAmount *float64      `json:"max_discount_amount"`
	MaxUses           *int          `json:"max_uses"`
	CurrentUses       int           `json:"current_uses"`
	IsActive          bool          `json:"is_active"`
	StartDate         *time.Time    `json:"start_date"`
	EndDate           *time.Time    `json:"end_date"`
}

// Exhausted reports whether the usage cap has been reached.
func (p *Promotion) Exhausted() bool {
	return p.MaxUses != nil && p.CurrentUses >= *p.MaxUses
}

// AppliesToPackage is true for global promotions and for promotions scoped to packageID.
func (p *Promotion) AppliesToPackage(packageID string) bool {
	return p.PackageID == nil || *p.PackageID == packageID
}

// ReasonCode is a stable machine-readable tag for an invalid DiscountResult.
type ReasonCode string

const (
	ReasonInactive      ReasonCode = "inactive"
	ReasonNotStarted    ReasonCode = "not_started"
	ReasonExpired       ReasonCode = "expired"
	ReasonExhausted     ReasonCode = "exhausted"
	ReasonBelowMinimum  ReasonCode = "below_minimum"
	ReasonInvalidConfig ReasonCode = "invalid_config"
	ReasonInvalidPrice  ReasonCode = "invalid_price"
)

// Engine errors. The messages are shown to end users as-is.
var (
	ErrPromotionInactive      = errors.New("โปรโมชั่นไม่เปิดใช้งาน")
	ErrPromotionNotStarted    = errors.New("โปรโมชั่นยังไม่เริ่มต้น")
	ErrPromotionExpired       = errors.New("โปรโมชั่นหมดอายุแล้ว")
	ErrPromotionExhausted     = errors.New("โปรโมชั่นถูกใช้ครบแล้ว")
	ErrBelowMinimumPurchase   = errors.New("ต้องซื้อขั้นต่ำ")
	ErrInvalidPromotionConfig = errors.New("การตั้งค่าโปรโมชั่นไม่ถูกต้อง")
	ErrInvalidPrice           = errors.New("ราคาไม่ถูกต้อง")
)

var reasonByError = map[error]ReasonCode{
	ErrPromotionInactive:      ReasonInactive,
	ErrPromotionNotStarted:    ReasonNotStarted,
	ErrPromotionExpired:       ReasonExpired,
	ErrPromotionExhausted:     ReasonExhausted,
	ErrBelowMinimumPurchase:   ReasonBelowMinimum,
	ErrInvalidPromotionConfig: ReasonInvalidConfig,
	ErrInvalidPrice:           ReasonInvalidPrice,
}

// ReasonFor maps an engine error (possibly wrapped) to its ReasonCode.
func ReasonFor(err error) ReasonCode {
	for sentinel, code := range reasonByError {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

// DiscountResult is the outcome of pricing one package against one promotion.
// Callers must check IsValid before trusting FinalPrice.
type DiscountResult struct {
	OriginalPrice  float64    `json:"originalPrice"`
	DiscountAmount float64    `json:"discountAmount"`
	FinalPrice     float64    `json:"finalPrice"`
	PromotionID    *string    `json:"promotionId"`
	IsValid        bool       `json:"isValid"`
	Error          string     `json:"error,omitempty"`
	Reason         ReasonCode `json:"reason,omitempty"`
}

// Use-case level errors.
var (
	ErrPromotionNotFound      = errors.New("promotion not found")
	ErrPromotionNotApplicable = errors.New("promotion does not apply to this package")
	ErrInvalidID              = errors.New("invalid id")
)

type PromotionRepository interface {
	GetPromotionByID(ctx context.Context, id string) (*Promotion, error)
	// ListPromotionsForPackage returns global promotions and promotions scoped to packageID,
	// regardless of activity, window or usage.
	ListPromotionsForPackage(ctx context.Context, packageID string) ([]Promotion, error)
}
