package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymbook-promotions/internal/domain"
	"gymbook-promotions/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const promotionColumns = `id::text, coalesce(title, ''), discount_type, discount_value, package_id::text,
	min_purchase_amount, max_discount_amount, max_uses, coalesce(current_uses, 0), is_active,
	start_date, end_date`

const getPromotionByIDSQL = `SELECT ` + promotionColumns + `
FROM promotions
WHERE id = $1`

const listPromotionsForPackageSQL = `SELECT ` + promotionColumns + `
FROM promotions
WHERE package_id IS NULL OR package_id = $1
ORDER BY created_at DESC, id`

type promotionRepository struct {
	db DBTX
}

func NewPromotionRepository(db DBTX) domain.PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) GetPromotionByID(ctx context.Context, id string) (*domain.Promotion, error) {
	start := time.Now()
	p, err := scanPromotion(r.db.QueryRow(ctx, getPromotionByIDSQL, id))
	logger.DBQuery(ctx, "GetPromotionByID", time.Since(start), err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("get promotion %s: %w", id, err)
	}
	return p, nil
}

func (r *promotionRepository) ListPromotionsForPackage(ctx context.Context, packageID string) ([]domain.Promotion, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, listPromotionsForPackageSQL, packageID)
	if err != nil {
		logger.DBQuery(ctx, "ListPromotionsForPackage", time.Since(start), err)
		return nil, fmt.Errorf("list promotions for package %s: %w", packageID, err)
	}
	defer rows.Close()

	promotions := make([]domain.Promotion, 0)
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		promotions = append(promotions, *p)
	}
	err = rows.Err()
	logger.DBQuery(ctx, "ListPromotionsForPackage", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list promotions for package %s: %w", packageID, err)
	}
	return promotions, nil
}

// scanPromotion maps one row selected with promotionColumns. NULL columns stay nil.
func scanPromotion(row pgx.Row) (*domain.Promotion, error) {
	var (
		p                                       domain.Promotion
		discountType, packageID                 pgtype.Text
		discountValue, minPurchase, maxDiscount pgtype.Numeric
		maxUses                                 pgtype.Int4
		currentUses                             int32
		startDate, endDate                      pgtype.Timestamptz
	)

	if err := row.Scan(
		&p.ID, &p.Title, &discountType, &discountValue, &packageID,
		&minPurchase, &maxDiscount, &maxUses, &currentUses, &p.IsActive,
		&startDate, &endDate,
	); err != nil {
		return nil, err
	}

	if discountType.Valid {
		dt := domain.DiscountType(discountType.String)
		p.DiscountType = &dt
	}
	p.DiscountValue = numericToFloat64Ptr(discountValue)
	p.PackageID = textToStringPtr(packageID)
	p.MinPurchaseAmount = numericToFloat64Ptr(minPurchase)
	p.MaxDiscountAmount = numericToFloat64Ptr(maxDiscount)
	p.MaxUses = int4ToIntPtr(maxUses)
	p.CurrentUses = int(currentUses)
	p.StartDate = timestamptzToTimePtr(startDate)
	p.EndDate = timestamptzToTimePtr(endDate)

	return &p, nil
}
