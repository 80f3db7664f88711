package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/rules"
	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/coupons"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/payments"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownProduct = errors.New("unknown product type")
	ErrAmountMismatch = errors.New("order amount mismatch")
)

type OrderStore interface {
	Create(ctx context.Context, tx pgx.Tx, order pgrepo.OrderRecord) (pgrepo.OrderRecord, error)
	ListSummariesByUser(ctx context.Context, userID int64) ([]pgrepo.OrderSummaryRecord, error)
}

type CouponService interface {
	Verify(ctx context.Context, userID, couponID int64, productType int) (model.Coupon, error)
	MarkUsed(ctx context.Context, tx pgx.Tx, couponID int64) error
}

type TicketService interface {
	Issue(ctx context.Context, tx pgx.Tx, userID, orderID int64, count int) error
}

type Dependencies struct {
	Pool      *pgxpool.Pool
	Orders    OrderStore
	Coupons   CouponService
	Tickets   TicketService
	Confirmer payments.Confirmer
}

// Service runs the purchase flow: verify the coupon, verify the amounts,
// confirm with the gateway, then persist the order, burn the coupon and
// issue the tickets in one transaction. The gateway call happens before the
// transaction so a rejection leaves nothing behind.
type Service struct {
	pool      *pgxpool.Pool
	orders    OrderStore
	coupons   CouponService
	tickets   TicketService
	confirmer payments.Confirmer
	runTx     func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		pool:      deps.Pool,
		orders:    deps.Orders,
		coupons:   deps.Coupons,
		tickets:   deps.Tickets,
		confirmer: deps.Confirmer,
	}
	s.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, s.pool, fn)
	}
	return s
}

type CreateInput struct {
	ProductType    int
	Price          int
	DiscountAmount int
	TotalAmount    int
	CouponID       *int64
	TossPaymentKey string
	TossOrderID    string
	TossOrderName  string
}

func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.TossPaymentKey) == "" || strings.TrimSpace(in.TossOrderID) == "" {
		return model.Order{}, ErrInvalidInput
	}

	product, ok := rules.ProductByType(in.ProductType)
	if !ok {
		return model.Order{}, ErrUnknownProduct
	}

	var coupon *model.Coupon
	if in.CouponID != nil {
		verified, err := s.coupons.Verify(ctx, userID, *in.CouponID, in.ProductType)
		if err != nil {
			return model.Order{}, err
		}
		coupon = &verified
	}

	if err := verifyAmounts(product, coupon, in); err != nil {
		return model.Order{}, err
	}

	// A fully discounted order moves no money, so there is nothing for the
	// gateway to confirm.
	var confirmation payments.ConfirmResult
	if in.TotalAmount > 0 {
		var err error
		confirmation, err = s.confirmer.Confirm(ctx, payments.ConfirmInput{
			PaymentKey: in.TossPaymentKey,
			OrderID:    in.TossOrderID,
			Amount:     in.TotalAmount,
		})
		if err != nil {
			return model.Order{}, err
		}
		if confirmation.TotalAmount != in.TotalAmount {
			return model.Order{}, ErrAmountMismatch
		}
	}

	var created pgrepo.OrderRecord
	txErr := s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		record := pgrepo.OrderRecord{
			UserID:         userID,
			ProductType:    in.ProductType,
			Price:          in.Price,
			DiscountAmount: in.DiscountAmount,
			TotalAmount:    in.TotalAmount,
			CouponID:       in.CouponID,
			TossPaymentKey: &in.TossPaymentKey,
			TossOrderID:    &in.TossOrderID,
			TossOrderName:  nullable(in.TossOrderName),
			TossMethod:     nullable(confirmation.Method),
			TossAmount:     &confirmation.TotalAmount,
		}

		record, err := s.orders.Create(ctx, tx, record)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		created = record

		if coupon != nil {
			if err := s.coupons.MarkUsed(ctx, tx, coupon.ID); err != nil {
				return err
			}
		}

		if err := s.tickets.Issue(ctx, tx, userID, created.ID, product.TicketCount); err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return model.Order{}, txErr
	}
	return orderView(created), nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]pgrepo.OrderSummaryRecord, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}

	summaries, err := s.orders.ListSummariesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return summaries, nil
}

func orderView(record pgrepo.OrderRecord) model.Order {
	return model.Order{
		ID:             record.ID,
		UserID:         record.UserID,
		ProductType:    record.ProductType,
		Price:          record.Price,
		DiscountAmount: record.DiscountAmount,
		TotalAmount:    record.TotalAmount,
		CouponID:       record.CouponID,
		TossPaymentKey: record.TossPaymentKey,
		TossOrderID:    record.TossOrderID,
		TossMethod:     record.TossMethod,
		TossOrderName:  record.TossOrderName,
		TossAmount:     record.TossAmount,
		CreatedAt:      record.CreatedAt,
	}
}

// verifyAmounts checks the client's figures against the product table and
// the coupon's discount rate before any money moves.
func verifyAmounts(product rules.Product, coupon *model.Coupon, in CreateInput) error {
	if in.Price != product.Price {
		return ErrAmountMismatch
	}

	wantDiscount := 0
	if coupon != nil {
		kind, ok := rules.CouponKindByType(coupon.Type)
		if !ok {
			return coupons.ErrNotApplicable
		}
		wantDiscount = rules.DiscountAmount(product.Price, kind.DiscountRate)
	}
	if in.DiscountAmount != wantDiscount {
		return ErrAmountMismatch
	}
	if in.TotalAmount != product.Price-wantDiscount {
		return ErrAmountMismatch
	}
	if in.TotalAmount < 0 {
		return ErrAmountMismatch
	}
	return nil
}

func nullable(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
