package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrNoTicket       = errors.New("no unconsumed ticket")
)

type TicketRepo struct {
	pool *pgxpool.Pool
}

type TicketRecord struct {
	ID        int64
	UserID    int64
	OrderID   *int64
	UsedAt    *time.Time
	CreatedAt time.Time
}

func NewTicketRepo(pool *pgxpool.Pool) *TicketRepo {
	return &TicketRepo{pool: pool}
}

// InsertBatch issues count tickets for a user against an order.
func (r *TicketRepo) InsertBatch(ctx context.Context, tx pgx.Tx, userID, orderID int64, count int) error {
	if userID <= 0 || orderID <= 0 || count <= 0 {
		return fmt.Errorf("invalid ticket batch payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	_, err := tx.Exec(ctx, `
INSERT INTO tickets (user_id, order_id, created_at)
SELECT $1, $2, NOW()
FROM generate_series(1, $3)
`, userID, orderID, count)
	if err != nil {
		return fmt.Errorf("insert ticket batch: %w", err)
	}
	return nil
}

// ConsumeOne marks the oldest unconsumed ticket of a user as used and
// returns it. The row is locked so two accepts cannot spend the same ticket.
func (r *TicketRepo) ConsumeOne(ctx context.Context, tx pgx.Tx, userID int64, now time.Time) (TicketRecord, error) {
	if userID <= 0 {
		return TicketRecord{}, fmt.Errorf("invalid user id")
	}
	if tx == nil {
		return TicketRecord{}, fmt.Errorf("transaction is required")
	}

	var t TicketRecord
	err := tx.QueryRow(ctx, `
UPDATE tickets
SET used_at = $2
WHERE id = (
	SELECT id
	FROM tickets
	WHERE user_id = $1 AND used_at IS NULL
	ORDER BY created_at, id
	LIMIT 1
	FOR UPDATE SKIP LOCKED
)
RETURNING id, user_id, order_id, used_at, created_at
`, userID, now).Scan(&t.ID, &t.UserID, &t.OrderID, &t.UsedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TicketRecord{}, ErrNoTicket
		}
		return TicketRecord{}, fmt.Errorf("consume ticket: %w", err)
	}
	return t, nil
}

// Refund clears the consumed state of a ticket.
func (r *TicketRepo) Refund(ctx context.Context, tx pgx.Tx, ticketID int64) error {
	if ticketID <= 0 {
		return fmt.Errorf("invalid ticket id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
UPDATE tickets
SET used_at = NULL
WHERE id = $1
`, ticketID)
	if err != nil {
		return fmt.Errorf("refund ticket: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// Delete removes a ticket row regardless of its consumption state.
func (r *TicketRepo) Delete(ctx context.Context, tx pgx.Tx, ticketID int64) error {
	if ticketID <= 0 {
		return fmt.Errorf("invalid ticket id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM tickets
WHERE id = $1
`, ticketID); err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return nil
}

func (r *TicketRepo) CountUnconsumed(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM tickets
WHERE user_id = $1 AND used_at IS NULL
`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unconsumed tickets: %w", err)
	}
	return count, nil
}
