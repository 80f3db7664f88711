package coupons

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
)

func fixedNow() time.Time {
	return time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
}

func ownedCoupon(id, userID int64, couponType int, mutate func(*pgrepo.CouponRecord)) pgrepo.CouponRecord {
	expires := fixedNow().Add(72 * time.Hour)
	coupon := pgrepo.CouponRecord{
		ID:        id,
		Code:      "CODE-1",
		UserID:    &userID,
		Type:      couponType,
		ExpiresAt: &expires,
	}
	if mutate != nil {
		mutate(&coupon)
	}
	return coupon
}

func newTestService(store CouponStore) *Service {
	svc := NewService(Dependencies{Store: store})
	svc.now = fixedNow
	return svc
}

func TestVerify(t *testing.T) {
	used := fixedNow().Add(-time.Hour)
	pastExpiry := fixedNow().Add(-48 * time.Hour)
	expiringToday := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		coupon      pgrepo.CouponRecord
		userID      int64
		productType int
		wantErr     error
	}{
		{
			name:        "valid bundle coupon",
			coupon:      ownedCoupon(1, 10, 3, nil),
			userID:      10,
			productType: 2,
		},
		{
			name:        "foreign coupon",
			coupon:      ownedCoupon(1, 99, 3, nil),
			userID:      10,
			productType: 2,
			wantErr:     ErrForbidden,
		},
		{
			name: "unbound coupon",
			coupon: ownedCoupon(1, 10, 3, func(c *pgrepo.CouponRecord) {
				c.UserID = nil
			}),
			userID:      10,
			productType: 2,
			wantErr:     ErrForbidden,
		},
		{
			name: "already used",
			coupon: ownedCoupon(1, 10, 3, func(c *pgrepo.CouponRecord) {
				c.UsedAt = &used
			}),
			userID:      10,
			productType: 2,
			wantErr:     ErrAlreadyUsed,
		},
		{
			name: "expired",
			coupon: ownedCoupon(1, 10, 3, func(c *pgrepo.CouponRecord) {
				c.ExpiresAt = &pastExpiry
			}),
			userID:      10,
			productType: 2,
			wantErr:     ErrExpired,
		},
		{
			name: "expiring today still works",
			coupon: ownedCoupon(1, 10, 3, func(c *pgrepo.CouponRecord) {
				c.ExpiresAt = &expiringToday
			}),
			userID:      10,
			productType: 2,
		},
		{
			name:        "single-ticket coupon on bundle product",
			coupon:      ownedCoupon(1, 10, 1, nil),
			userID:      10,
			productType: 2,
			wantErr:     ErrNotApplicable,
		},
		{
			name:        "single-ticket coupon on single product",
			coupon:      ownedCoupon(1, 10, 2, nil),
			userID:      10,
			productType: 1,
		},
		{
			name: "unknown coupon type",
			coupon: ownedCoupon(1, 10, 9, func(c *pgrepo.CouponRecord) {
				c.Type = 9
			}),
			userID:      10,
			productType: 1,
			wantErr:     ErrNotApplicable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(&couponStoreStub{coupon: tc.coupon})

			_, err := svc.Verify(context.Background(), tc.userID, tc.coupon.ID, tc.productType)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected verify error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestVerifyUnknownCoupon(t *testing.T) {
	svc := newTestService(&couponStoreStub{getErr: pgrepo.ErrCouponNotFound})

	if _, err := svc.Verify(context.Background(), 10, 5, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegisterBindsUnboundCode(t *testing.T) {
	store := &couponStoreStub{coupon: ownedCoupon(7, 0, 3, func(c *pgrepo.CouponRecord) {
		c.UserID = nil
	})}
	svc := newTestService(store)

	coupon, err := svc.Register(context.Background(), 10, " CODE-1 ")
	if err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if coupon.UserID == nil || *coupon.UserID != 10 {
		t.Fatalf("expected coupon bound to user 10, got %+v", coupon.UserID)
	}
	if store.boundCouponID != 7 || store.boundUserID != 10 {
		t.Fatalf("unexpected bind call: coupon=%d user=%d", store.boundCouponID, store.boundUserID)
	}
}

func TestRegisterRejectsBoundCode(t *testing.T) {
	svc := newTestService(&couponStoreStub{coupon: ownedCoupon(7, 99, 3, nil)})

	if _, err := svc.Register(context.Background(), 10, "CODE-1"); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("expected ErrAlreadyBound, got %v", err)
	}
}

type couponStoreStub struct {
	coupon pgrepo.CouponRecord
	getErr error

	boundCouponID int64
	boundUserID   int64
}

func (s *couponStoreStub) GetByID(context.Context, int64) (pgrepo.CouponRecord, error) {
	if s.getErr != nil {
		return pgrepo.CouponRecord{}, s.getErr
	}
	return s.coupon, nil
}

func (s *couponStoreStub) GetByCode(context.Context, string) (pgrepo.CouponRecord, error) {
	if s.getErr != nil {
		return pgrepo.CouponRecord{}, s.getErr
	}
	return s.coupon, nil
}

func (s *couponStoreStub) BindToUser(_ context.Context, couponID, userID int64) error {
	s.boundCouponID = couponID
	s.boundUserID = userID
	return nil
}

func (s *couponStoreStub) MarkUsed(context.Context, pgx.Tx, int64, time.Time) error { return nil }

func (s *couponStoreStub) ListUsableByUser(context.Context, int64, time.Time) ([]pgrepo.CouponRecord, error) {
	return nil, nil
}

func (s *couponStoreStub) CountUsableByUser(context.Context, int64, time.Time) (int, error) {
	return 0, nil
}
