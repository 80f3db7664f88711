package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCouponNotFound = errors.New("coupon not found")

type CouponRepo struct {
	pool *pgxpool.Pool
}

type CouponRecord struct {
	ID        int64
	Code      string
	UserID    *int64
	Type      int
	UsedAt    *time.Time
	ExpiresAt *time.Time
	CreatedAt time.Time
}

func NewCouponRepo(pool *pgxpool.Pool) *CouponRepo {
	return &CouponRepo{pool: pool}
}

const couponColumns = `
	id,
	code,
	user_id,
	coupon_type,
	used_at,
	expires_at,
	created_at
`

func scanCoupon(row pgx.Row) (CouponRecord, error) {
	var c CouponRecord
	err := row.Scan(&c.ID, &c.Code, &c.UserID, &c.Type, &c.UsedAt, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CouponRecord{}, ErrCouponNotFound
		}
		return CouponRecord{}, fmt.Errorf("scan coupon: %w", err)
	}
	return c, nil
}

func (r *CouponRepo) GetByID(ctx context.Context, couponID int64) (CouponRecord, error) {
	if couponID <= 0 {
		return CouponRecord{}, fmt.Errorf("invalid coupon id")
	}
	if r.pool == nil {
		return CouponRecord{}, ErrCouponNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+couponColumns+`
FROM coupons
WHERE id = $1
`, couponID)
	return scanCoupon(row)
}

func (r *CouponRepo) GetByCode(ctx context.Context, code string) (CouponRecord, error) {
	if code == "" {
		return CouponRecord{}, fmt.Errorf("invalid coupon code")
	}
	if r.pool == nil {
		return CouponRecord{}, ErrCouponNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+couponColumns+`
FROM coupons
WHERE code = $1
`, code)
	return scanCoupon(row)
}

// BindToUser registers a coupon code to a user. Fails once bound.
func (r *CouponRepo) BindToUser(ctx context.Context, couponID, userID int64) error {
	if couponID <= 0 || userID <= 0 {
		return fmt.Errorf("invalid coupon bind payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE coupons
SET user_id = $2
WHERE id = $1 AND user_id IS NULL
`, couponID, userID)
	if err != nil {
		return fmt.Errorf("bind coupon to user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func (r *CouponRepo) MarkUsed(ctx context.Context, tx pgx.Tx, couponID int64, at time.Time) error {
	if couponID <= 0 {
		return fmt.Errorf("invalid coupon id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
UPDATE coupons
SET used_at = $2
WHERE id = $1 AND used_at IS NULL
`, couponID, at)
	if err != nil {
		return fmt.Errorf("mark coupon used: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// ListUsableByUser returns a user's unused, unexpired coupons. The expiry
// compare is date-granular: a coupon expiring today is still usable.
func (r *CouponRepo) ListUsableByUser(ctx context.Context, userID int64, today time.Time) ([]CouponRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []CouponRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+couponColumns+`
FROM coupons
WHERE user_id = $1
	AND used_at IS NULL
	AND (expires_at IS NULL OR expires_at::date >= $2::date)
ORDER BY expires_at NULLS LAST, id
`, userID, today)
	if err != nil {
		return nil, fmt.Errorf("list usable coupons: %w", err)
	}
	defer rows.Close()

	items := make([]CouponRecord, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate usable coupons: %w", rows.Err())
	}
	return items, nil
}

func (r *CouponRepo) CountUsableByUser(ctx context.Context, userID int64, today time.Time) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM coupons
WHERE user_id = $1
	AND used_at IS NULL
	AND (expires_at IS NULL OR expires_at::date >= $2::date)
`, userID, today).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count usable coupons: %w", err)
	}
	return count, nil
}
