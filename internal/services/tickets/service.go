package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoTicket     = errors.New("no unconsumed ticket")
)

// TicketStore is the persistence surface the ledger needs. Transactional
// methods take the caller's pgx.Tx so ticket movements commit together with
// the decision or order that caused them.
type TicketStore interface {
	InsertBatch(ctx context.Context, tx pgx.Tx, userID, orderID int64, count int) error
	ConsumeOne(ctx context.Context, tx pgx.Tx, userID int64, now time.Time) (pgrepo.TicketRecord, error)
	Refund(ctx context.Context, tx pgx.Tx, ticketID int64) error
	Delete(ctx context.Context, tx pgx.Tx, ticketID int64) error
	CountUnconsumed(ctx context.Context, userID int64) (int, error)
}

type Dependencies struct {
	Pool  *pgxpool.Pool
	Store TicketStore
}

type Service struct {
	pool  *pgxpool.Pool
	store TicketStore
	now   func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{
		pool:  deps.Pool,
		store: deps.Store,
		now:   time.Now,
	}
}

// Issue creates count fresh tickets for the user, bound to the order that
// paid for them.
func (s *Service) Issue(ctx context.Context, tx pgx.Tx, userID, orderID int64, count int) error {
	if userID <= 0 || orderID <= 0 || count <= 0 {
		return ErrInvalidInput
	}
	if err := s.store.InsertBatch(ctx, tx, userID, orderID, count); err != nil {
		return fmt.Errorf("issue tickets: %w", err)
	}
	return nil
}

// ConsumeOne marks the user's oldest unconsumed ticket as consumed and
// returns it.
func (s *Service) ConsumeOne(ctx context.Context, tx pgx.Tx, userID int64) (model.Ticket, error) {
	if userID <= 0 {
		return model.Ticket{}, ErrInvalidInput
	}

	ticket, err := s.store.ConsumeOne(ctx, tx, userID, s.now())
	if err != nil {
		if errors.Is(err, pgrepo.ErrNoTicket) {
			return model.Ticket{}, ErrNoTicket
		}
		return model.Ticket{}, fmt.Errorf("consume ticket: %w", err)
	}
	return ticketView(ticket), nil
}

func ticketView(record pgrepo.TicketRecord) model.Ticket {
	return model.Ticket{
		ID:        record.ID,
		UserID:    record.UserID,
		OrderID:   record.OrderID,
		UsedAt:    record.UsedAt,
		CreatedAt: record.CreatedAt,
	}
}

// Refund returns a consumed ticket to the unconsumed pool.
func (s *Service) Refund(ctx context.Context, tx pgx.Tx, ticketID int64) error {
	if ticketID <= 0 {
		return ErrInvalidInput
	}
	if err := s.store.Refund(ctx, tx, ticketID); err != nil {
		return fmt.Errorf("refund ticket: %w", err)
	}
	return nil
}

// Delete removes a ticket row entirely. Used by the matching delete cascade.
func (s *Service) Delete(ctx context.Context, tx pgx.Tx, ticketID int64) error {
	if ticketID <= 0 {
		return ErrInvalidInput
	}
	if err := s.store.Delete(ctx, tx, ticketID); err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return nil
}

func (s *Service) CountUnconsumed(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, ErrInvalidInput
	}

	count, err := s.store.CountUnconsumed(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return count, nil
}
