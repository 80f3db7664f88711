package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/teams"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
)

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	CountInvitations(ctx context.Context, userID int64) (int, error)
	SetBlacklisted(ctx context.Context, userID int64, blacklisted bool) error
}

type TeamService interface {
	GetTeamIDByUserID(ctx context.Context, userID int64) (int64, error)
	ListHistoryByOwner(ctx context.Context, userID int64) ([]pgrepo.TeamHistoryRecord, error)
}

type TicketService interface {
	CountUnconsumed(ctx context.Context, userID int64) (int, error)
}

type CouponService interface {
	CountUsable(ctx context.Context, userID int64) (int, error)
	ListUsable(ctx context.Context, userID int64) ([]model.Coupon, error)
}

type OrderService interface {
	ListByUser(ctx context.Context, userID int64) ([]pgrepo.OrderSummaryRecord, error)
}

type AgreementStore interface {
	Upsert(ctx context.Context, rec pgrepo.AgreementRecord) (pgrepo.AgreementRecord, error)
	GetByUserID(ctx context.Context, userID int64) (pgrepo.AgreementRecord, error)
}

type Dependencies struct {
	Users      UserStore
	Teams      TeamService
	Tickets    TicketService
	Coupons    CouponService
	Orders     OrderService
	Agreements AgreementStore
}

// Service is the read-mostly profile surface: everything the signed-in user
// sees about their own account.
type Service struct {
	users      UserStore
	teams      TeamService
	tickets    TicketService
	coupons    CouponService
	orders     OrderService
	agreements AgreementStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		users:      deps.Users,
		teams:      deps.Teams,
		tickets:    deps.Tickets,
		coupons:    deps.Coupons,
		orders:     deps.Orders,
		agreements: deps.Agreements,
	}
}

func (s *Service) GetMyInfo(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, ErrInvalidInput
	}

	record, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	return model.User{
		ID:            record.ID,
		KakaoUID:      record.KakaoUID,
		Nickname:      record.Nickname,
		Phone:         record.Phone,
		Gender:        record.Gender,
		Birthday:      record.Birthday,
		AgeRange:      record.AgeRange,
		ReferralID:    record.ReferralID,
		InvitedByID:   record.InvitedByID,
		Role:          enums.Role(record.Role),
		IsBlacklisted: record.IsBlacklisted,
		CreatedAt:     record.CreatedAt,
		DeletedAt:     record.DeletedAt,
	}, nil
}

// GetTeamID returns the user's live team id, or 0 when the user has no
// live team.
func (s *Service) GetTeamID(ctx context.Context, userID int64) (int64, error) {
	teamID, err := s.teams.GetTeamIDByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, teams.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return teamID, nil
}

func (s *Service) GetTicketCount(ctx context.Context, userID int64) (int, error) {
	return s.tickets.CountUnconsumed(ctx, userID)
}

func (s *Service) GetCouponCount(ctx context.Context, userID int64) (int, error) {
	return s.coupons.CountUsable(ctx, userID)
}

func (s *Service) ListCoupons(ctx context.Context, userID int64) ([]model.Coupon, error) {
	return s.coupons.ListUsable(ctx, userID)
}

func (s *Service) ListOrders(ctx context.Context, userID int64) ([]pgrepo.OrderSummaryRecord, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *Service) ListTeamHistory(ctx context.Context, userID int64) ([]pgrepo.TeamHistoryRecord, error) {
	return s.teams.ListHistoryByOwner(ctx, userID)
}

// GetInvitationInfo returns the user's shareable referral code and how many
// sign-ups it has brought in.
func (s *Service) GetInvitationInfo(ctx context.Context, userID int64) (referralID string, invited int, err error) {
	if userID <= 0 {
		return "", 0, ErrInvalidInput
	}

	record, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return "", 0, ErrNotFound
		}
		return "", 0, fmt.Errorf("get user: %w", err)
	}

	invited, err = s.users.CountInvitations(ctx, userID)
	if err != nil {
		return "", 0, fmt.Errorf("count invitations: %w", err)
	}
	return record.ReferralID, invited, nil
}

func (s *Service) SaveAgreements(ctx context.Context, agreement model.Agreement) (model.Agreement, error) {
	if agreement.UserID <= 0 {
		return model.Agreement{}, ErrInvalidInput
	}

	saved, err := s.agreements.Upsert(ctx, pgrepo.AgreementRecord{
		UserID:    agreement.UserID,
		Service:   agreement.Service,
		Privacy:   agreement.Privacy,
		Age:       agreement.Age,
		Marketing: agreement.Marketing,
	})
	if err != nil {
		return model.Agreement{}, fmt.Errorf("save agreements: %w", err)
	}
	return agreementView(saved), nil
}

func (s *Service) GetAgreements(ctx context.Context, userID int64) (model.Agreement, error) {
	if userID <= 0 {
		return model.Agreement{}, ErrInvalidInput
	}

	rec, err := s.agreements.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrAgreementNotFound) {
			return model.Agreement{}, ErrNotFound
		}
		return model.Agreement{}, fmt.Errorf("get agreements: %w", err)
	}
	return agreementView(rec), nil
}

func agreementView(record pgrepo.AgreementRecord) model.Agreement {
	return model.Agreement{
		ID:        record.ID,
		UserID:    record.UserID,
		Service:   record.Service,
		Privacy:   record.Privacy,
		Age:       record.Age,
		Marketing: record.Marketing,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// SetBlacklisted flips a user's blacklist flag. Blacklisted users keep
// their account but are skipped by matching rounds.
func (s *Service) SetBlacklisted(ctx context.Context, userID int64, blacklisted bool) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	if err := s.users.SetBlacklisted(ctx, userID, blacklisted); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("set blacklisted: %w", err)
	}
	return nil
}
