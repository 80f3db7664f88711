package tickets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
)

func TestConsumeOneMapsEmptyLedgerToNoTicket(t *testing.T) {
	svc := NewService(Dependencies{Store: &ticketStoreStub{consumeErr: pgrepo.ErrNoTicket}})

	_, err := svc.ConsumeOne(context.Background(), nil, 10)
	if !errors.Is(err, ErrNoTicket) {
		t.Fatalf("expected ErrNoTicket, got %v", err)
	}
}

func TestConsumeOneReturnsOldestTicket(t *testing.T) {
	store := &ticketStoreStub{
		consumed: pgrepo.TicketRecord{ID: 3, UserID: 10},
	}
	svc := NewService(Dependencies{Store: store})

	ticket, err := svc.ConsumeOne(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("unexpected consume error: %v", err)
	}
	if ticket.ID != 3 || ticket.UserID != 10 {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}
	if store.consumedUser != 10 {
		t.Fatalf("consume must target the requesting user, got %d", store.consumedUser)
	}
}

func TestInputValidation(t *testing.T) {
	svc := NewService(Dependencies{Store: &ticketStoreStub{}})
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "issue zero count", call: func() error { return svc.Issue(ctx, nil, 10, 1, 0) }},
		{name: "issue missing order", call: func() error { return svc.Issue(ctx, nil, 10, 0, 1) }},
		{name: "consume missing user", call: func() error { _, err := svc.ConsumeOne(ctx, nil, 0); return err }},
		{name: "refund missing id", call: func() error { return svc.Refund(ctx, nil, 0) }},
		{name: "delete missing id", call: func() error { return svc.Delete(ctx, nil, 0) }},
		{name: "count missing user", call: func() error { _, err := svc.CountUnconsumed(ctx, 0); return err }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

type ticketStoreStub struct {
	consumed     pgrepo.TicketRecord
	consumeErr   error
	consumedUser int64
}

func (s *ticketStoreStub) InsertBatch(context.Context, pgx.Tx, int64, int64, int) error {
	return nil
}

func (s *ticketStoreStub) ConsumeOne(_ context.Context, _ pgx.Tx, userID int64, _ time.Time) (pgrepo.TicketRecord, error) {
	s.consumedUser = userID
	if s.consumeErr != nil {
		return pgrepo.TicketRecord{}, s.consumeErr
	}
	return s.consumed, nil
}

func (s *ticketStoreStub) Refund(context.Context, pgx.Tx, int64) error { return nil }

func (s *ticketStoreStub) Delete(context.Context, pgx.Tx, int64) error { return nil }

func (s *ticketStoreStub) CountUnconsumed(context.Context, int64) (int, error) { return 0, nil }
