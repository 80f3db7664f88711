package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/rules"
	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("coupon not found")
	ErrForbidden     = errors.New("coupon does not belong to the user")
	ErrAlreadyUsed   = errors.New("coupon already used")
	ErrExpired       = errors.New("coupon expired")
	ErrNotApplicable = errors.New("coupon not applicable to product")
	ErrAlreadyBound  = errors.New("coupon already registered")
)

type CouponStore interface {
	GetByID(ctx context.Context, couponID int64) (pgrepo.CouponRecord, error)
	GetByCode(ctx context.Context, code string) (pgrepo.CouponRecord, error)
	BindToUser(ctx context.Context, couponID, userID int64) error
	MarkUsed(ctx context.Context, tx pgx.Tx, couponID int64, at time.Time) error
	ListUsableByUser(ctx context.Context, userID int64, today time.Time) ([]pgrepo.CouponRecord, error)
	CountUsableByUser(ctx context.Context, userID int64, today time.Time) (int, error)
}

type Dependencies struct {
	Store CouponStore
}

type Service struct {
	store CouponStore
	now   func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{
		store: deps.Store,
		now:   time.Now,
	}
}

// Verify checks that the user may spend the coupon on the given product:
// the coupon is theirs, unused, unexpired (date-granular, expiring today
// still counts) and its type applies to the product.
func (s *Service) Verify(ctx context.Context, userID, couponID int64, productType int) (model.Coupon, error) {
	if userID <= 0 || couponID <= 0 {
		return model.Coupon{}, ErrInvalidInput
	}

	coupon, err := s.store.GetByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrCouponNotFound) {
			return model.Coupon{}, ErrNotFound
		}
		return model.Coupon{}, fmt.Errorf("get coupon: %w", err)
	}

	if coupon.UserID == nil || *coupon.UserID != userID {
		return model.Coupon{}, ErrForbidden
	}
	if coupon.UsedAt != nil {
		return model.Coupon{}, ErrAlreadyUsed
	}
	if expired(coupon, s.now()) {
		return model.Coupon{}, ErrExpired
	}
	if _, ok := rules.CouponKindByType(coupon.Type); !ok {
		return model.Coupon{}, ErrNotApplicable
	}
	if !rules.CouponAppliesToProduct(coupon.Type, productType) {
		return model.Coupon{}, ErrNotApplicable
	}

	return couponView(coupon), nil
}

// Register binds a distributed coupon code to the user's account.
func (s *Service) Register(ctx context.Context, userID int64, code string) (model.Coupon, error) {
	code = strings.TrimSpace(code)
	if userID <= 0 || code == "" {
		return model.Coupon{}, ErrInvalidInput
	}

	coupon, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgrepo.ErrCouponNotFound) {
			return model.Coupon{}, ErrNotFound
		}
		return model.Coupon{}, fmt.Errorf("get coupon by code: %w", err)
	}
	if coupon.UserID != nil {
		return model.Coupon{}, ErrAlreadyBound
	}
	if expired(coupon, s.now()) {
		return model.Coupon{}, ErrExpired
	}

	if err := s.store.BindToUser(ctx, coupon.ID, userID); err != nil {
		if errors.Is(err, pgrepo.ErrCouponNotFound) {
			return model.Coupon{}, ErrAlreadyBound
		}
		return model.Coupon{}, fmt.Errorf("bind coupon: %w", err)
	}

	coupon.UserID = &userID
	return couponView(coupon), nil
}

// MarkUsed stamps the coupon inside the caller's order transaction.
func (s *Service) MarkUsed(ctx context.Context, tx pgx.Tx, couponID int64) error {
	if couponID <= 0 {
		return ErrInvalidInput
	}
	if err := s.store.MarkUsed(ctx, tx, couponID, s.now()); err != nil {
		if errors.Is(err, pgrepo.ErrCouponNotFound) {
			return ErrAlreadyUsed
		}
		return fmt.Errorf("mark coupon used: %w", err)
	}
	return nil
}

func (s *Service) ListUsable(ctx context.Context, userID int64) ([]model.Coupon, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}

	records, err := s.store.ListUsableByUser(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	coupons := make([]model.Coupon, 0, len(records))
	for _, rec := range records {
		coupons = append(coupons, couponView(rec))
	}
	return coupons, nil
}

func (s *Service) CountUsable(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, ErrInvalidInput
	}

	count, err := s.store.CountUsableByUser(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("count coupons: %w", err)
	}
	return count, nil
}

func couponView(record pgrepo.CouponRecord) model.Coupon {
	return model.Coupon{
		ID:        record.ID,
		Code:      record.Code,
		UserID:    record.UserID,
		Type:      record.Type,
		UsedAt:    record.UsedAt,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
	}
}

// expired compares expiry at date granularity: the coupon works for the
// whole of its expiry day.
func expired(coupon pgrepo.CouponRecord, now time.Time) bool {
	if coupon.ExpiresAt == nil {
		return false
	}
	expiry := coupon.ExpiresAt
	y1, m1, d1 := expiry.Date()
	expiryDay := time.Date(y1, m1, d1, 0, 0, 0, 0, expiry.Location())
	y2, m2, d2 := now.Date()
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, expiry.Location())
	return expiryDay.Before(today)
}
