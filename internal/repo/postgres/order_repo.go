package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepo struct {
	pool *pgxpool.Pool
}

type OrderRecord struct {
	ID             int64
	UserID         int64
	ProductType    int
	Price          int
	DiscountAmount int
	TotalAmount    int
	CouponID       *int64
	TossPaymentKey *string
	TossOrderID    *string
	TossMethod     *string
	TossOrderName  *string
	TossAmount     *int
	CreatedAt      time.Time
}

// OrderSummaryRecord is the per-user payment history row.
type OrderSummaryRecord struct {
	ID          int64
	ProductType int
	TotalAmount int
	CouponType  *int
	CreatedAt   time.Time
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

func (r *OrderRepo) Create(ctx context.Context, tx pgx.Tx, order OrderRecord) (OrderRecord, error) {
	if order.UserID <= 0 || order.ProductType <= 0 {
		return OrderRecord{}, fmt.Errorf("invalid order payload")
	}
	if tx == nil {
		return OrderRecord{}, fmt.Errorf("transaction is required")
	}

	row := tx.QueryRow(ctx, `
INSERT INTO orders (
	user_id,
	product_type,
	price,
	discount_amount,
	total_amount,
	coupon_id,
	toss_payment_key,
	toss_order_id,
	toss_method,
	toss_order_name,
	toss_amount,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
RETURNING id, user_id, product_type, price, discount_amount, total_amount, coupon_id,
	toss_payment_key, toss_order_id, toss_method, toss_order_name, toss_amount, created_at
`,
		order.UserID,
		order.ProductType,
		order.Price,
		order.DiscountAmount,
		order.TotalAmount,
		order.CouponID,
		order.TossPaymentKey,
		order.TossOrderID,
		order.TossMethod,
		order.TossOrderName,
		order.TossAmount,
	)

	var created OrderRecord
	err := row.Scan(
		&created.ID,
		&created.UserID,
		&created.ProductType,
		&created.Price,
		&created.DiscountAmount,
		&created.TotalAmount,
		&created.CouponID,
		&created.TossPaymentKey,
		&created.TossOrderID,
		&created.TossMethod,
		&created.TossOrderName,
		&created.TossAmount,
		&created.CreatedAt,
	)
	if err != nil {
		return OrderRecord{}, fmt.Errorf("create order: %w", err)
	}
	return created, nil
}

// ListSummariesByUser returns a user's orders newest first, with the coupon
// type joined in when a coupon was applied.
func (r *OrderRepo) ListSummariesByUser(ctx context.Context, userID int64) ([]OrderSummaryRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []OrderSummaryRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	o.id,
	o.product_type,
	o.total_amount,
	c.coupon_type,
	o.created_at
FROM orders o
LEFT JOIN coupons c ON c.id = o.coupon_id
WHERE o.user_id = $1
ORDER BY o.created_at DESC, o.id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	defer rows.Close()

	items := make([]OrderSummaryRecord, 0)
	for rows.Next() {
		var o OrderSummaryRecord
		if err := rows.Scan(&o.ID, &o.ProductType, &o.TotalAmount, &o.CouponType, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order summary: %w", err)
		}
		items = append(items, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate orders: %w", rows.Err())
	}
	return items, nil
}
