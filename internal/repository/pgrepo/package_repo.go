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

const getPackageByIDSQL = `SELECT id::text, gym_id::text, name, price, is_active, created_at
FROM packages
WHERE id = $1`

type packageRepository struct {
	db DBTX
}

func NewPackageRepository(db DBTX) domain.PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) GetPackageByID(ctx context.Context, id string) (*domain.Package, error) {
	start := time.Now()
	pkg, err := scanPackage(r.db.QueryRow(ctx, getPackageByIDSQL, id))
	logger.DBQuery(ctx, "GetPackageByID", time.Since(start), err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("get package %s: %w", id, err)
	}
	return pkg, nil
}

func scanPackage(row pgx.Row) (*domain.Package, error) {
	var (
		pkg       domain.Package
		price     pgtype.Numeric
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&pkg.ID, &pkg.GymID, &pkg.Name, &price, &pkg.IsActive, &createdAt); err != nil {
		return nil, err
	}
	pkg.Price = numericToFloat64(price)
	pkg.CreatedAt = createdAt.Time
	return &pkg, nil
}
