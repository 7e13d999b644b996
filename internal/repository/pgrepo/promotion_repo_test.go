package pgrepo

import (
	"context"
	"errors"
	"math/big"
	"reflect"
	"testing"
	"time"

	"gymbook-promotions/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow assigns values positionally into Scan destinations of the same type.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

// fakeRows iterates over fakeRow values. Embedding pgx.Rows satisfies the
// methods the repository never calls.
type fakeRows struct {
	pgx.Rows
	rows []fakeRow
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.pos-1].Scan(dest...) }
func (r *fakeRows) Err() error             { return r.err }
func (r *fakeRows) Close()                 {}

type fakeDB struct {
	row      fakeRow
	rows     *fakeRows
	queryErr error
	lastSQL  string
	lastArgs []any
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	db.lastSQL, db.lastArgs = sql, args
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	return db.rows, nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	db.lastSQL, db.lastArgs = sql, args
	return db.row
}

func numeric(v int64, exp int32) pgtype.Numeric {
	return pgtype.Numeric{Int: big.NewInt(v), Exp: exp, Valid: true}
}

func promotionRow(id string, packageID pgtype.Text) fakeRow {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return fakeRow{values: []any{
		id, "Summer sale",
		pgtype.Text{String: "percentage", Valid: true},
		numeric(20, 0),
		packageID,
		numeric(5005, -1),
		pgtype.Numeric{},
		pgtype.Int4{Int32: 100, Valid: true},
		int32(7),
		true,
		pgtype.Timestamptz{Time: start, Valid: true},
		pgtype.Timestamptz{},
	}}
}

func TestPromotionRepository_GetPromotionByID(t *testing.T) {
	db := &fakeDB{row: promotionRow("p-1", pgtype.Text{String: "pkg-1", Valid: true})}
	repo := NewPromotionRepository(db)

	p, err := repo.GetPromotionByID(context.Background(), "p-1")
	require.NoError(t, err)

	assert.Equal(t, []any{"p-1"}, db.lastArgs)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "Summer sale", p.Title)
	require.NotNil(t, p.DiscountType)
	assert.Equal(t, domain.DiscountTypePercentage, *p.DiscountType)
	require.NotNil(t, p.DiscountValue)
	assert.Equal(t, 20.0, *p.DiscountValue)
	require.NotNil(t, p.PackageID)
	assert.Equal(t, "pkg-1", *p.PackageID)
	require.NotNil(t, p.MinPurchaseAmount)
	assert.Equal(t, 500.5, *p.MinPurchaseAmount)
	assert.Nil(t, p.MaxDiscountAmount)
	require.NotNil(t, p.MaxUses)
	assert.Equal(t, 100, *p.MaxUses)
	assert.Equal(t, 7, p.CurrentUses)
	assert.True(t, p.IsActive)
	require.NotNil(t, p.StartDate)
	assert.Nil(t, p.EndDate)
}

func TestPromotionRepository_GetPromotionByID_NotFound(t *testing.T) {
	repo := NewPromotionRepository(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}})

	_, err := repo.GetPromotionByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrPromotionNotFound)
}

func TestPromotionRepository_GetPromotionByID_DBError(t *testing.T) {
	boom := &pgconn.PgError{Code: "57P01"}
	repo := NewPromotionRepository(&fakeDB{row: fakeRow{err: boom}})

	_, err := repo.GetPromotionByID(context.Background(), "p-1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrPromotionNotFound)
}

func TestPromotionRepository_ListPromotionsForPackage(t *testing.T) {
	db := &fakeDB{rows: &fakeRows{rows: []fakeRow{
		promotionRow("p-global", pgtype.Text{}),
		promotionRow("p-scoped", pgtype.Text{String: "pkg-1", Valid: true}),
	}}}
	repo := NewPromotionRepository(db)

	got, err := repo.ListPromotionsForPackage(context.Background(), "pkg-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p-global", got[0].ID)
	assert.Nil(t, got[0].PackageID)
	assert.Equal(t, "p-scoped", got[1].ID)
	assert.Equal(t, []any{"pkg-1"}, db.lastArgs)
}

func TestPromotionRepository_ListPromotionsForPackage_Empty(t *testing.T) {
	repo := NewPromotionRepository(&fakeDB{rows: &fakeRows{}})

	got, err := repo.ListPromotionsForPackage(context.Background(), "pkg-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPromotionRepository_ListPromotionsForPackage_Errors(t *testing.T) {
	boom := errors.New("connection reset")

	_, err := NewPromotionRepository(&fakeDB{queryErr: boom}).ListPromotionsForPackage(context.Background(), "pkg-1")
	assert.ErrorIs(t, err, boom)

	_, err = NewPromotionRepository(&fakeDB{rows: &fakeRows{err: boom}}).ListPromotionsForPackage(context.Background(), "pkg-1")
	assert.ErrorIs(t, err, boom)

	badRow := fakeRows{rows: []fakeRow{{values: []any{"too", "short"}}}}
	_, err = NewPromotionRepository(&fakeDB{rows: &badRow}).ListPromotionsForPackage(context.Background(), "pkg-1")
	assert.Error(t, err)
}

func TestPackageRepository_GetPackageByID(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{
		"pkg-1", "gym-1", "10 classes", numeric(250000, -2), true,
		pgtype.Timestamptz{Time: created, Valid: true},
	}}}

	pkg, err := NewPackageRepository(db).GetPackageByID(context.Background(), "pkg-1")
	require.NoError(t, err)
	assert.Equal(t, "pkg-1", pkg.ID)
	assert.Equal(t, "gym-1", pkg.GymID)
	assert.Equal(t, 2500.0, pkg.Price)
	assert.True(t, pkg.IsActive)
	assert.Equal(t, created, pkg.CreatedAt)
}

func TestPackageRepository_GetPackageByID_NotFound(t *testing.T) {
	_, err := NewPackageRepository(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}}).GetPackageByID(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestNumericConversions(t *testing.T) {
	assert.Equal(t, 1234.57, numericToFloat64(numeric(123457, -2)))
	assert.Equal(t, 0.0, numericToFloat64(pgtype.Numeric{}))
	assert.Nil(t, numericToFloat64Ptr(pgtype.Numeric{}))
}
