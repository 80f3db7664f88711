package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
)

const (
	MinRefreshTTL = 24 * time.Hour
	MaxRefreshTTL = 90 * 24 * time.Hour
)

type SessionStore interface {
	Save(ctx context.Context, session SessionRecord, refreshToken string) error
	GetByRefreshToken(ctx context.Context, refreshToken string) (SessionRecord, error)
	Rotate(ctx context.Context, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error
	DeleteForUser(ctx context.Context, userID int64) error
}

type UserStore interface {
	Create(ctx context.Context, user pgrepo.UserRecord) (pgrepo.UserRecord, error)
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	GetByKakaoUID(ctx context.Context, kakaoUID int64) (pgrepo.UserRecord, error)
	GetByReferralID(ctx context.Context, referralID string) (pgrepo.UserRecord, error)
	UpdateAgeRange(ctx context.Context, userID int64, ageRange string) error
	UpdateGender(ctx context.Context, userID int64, gender string) error
}

type Dependencies struct {
	JWT        *JWTManager
	Sessions   SessionStore
	Users      UserStore
	Kakao      KakaoClient
	RefreshTTL time.Duration
}

type Service struct {
	jwt        *JWTManager
	sessions   SessionStore
	users      UserStore
	kakao      KakaoClient
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(deps Dependencies) *Service {
	refreshTTL := deps.RefreshTTL
	if refreshTTL < MinRefreshTTL {
		refreshTTL = MinRefreshTTL
	}
	if refreshTTL > MaxRefreshTTL {
		refreshTTL = MaxRefreshTTL
	}

	return &Service{
		jwt:        deps.JWT,
		sessions:   deps.Sessions,
		users:      deps.Users,
		kakao:      deps.Kakao,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// SignInKakao resolves the provider token into a profile, creates the user
// on first sign-in, backfills age range and gender on later sign-ins, and
// issues a token pair.
func (s *Service) SignInKakao(ctx context.Context, providerToken, inviteReferralID string) (AuthResult, error) {
	if s.kakao == nil || s.users == nil {
		return AuthResult{}, fmt.Errorf("auth dependencies are not configured")
	}

	profile, err := s.kakao.Profile(ctx, providerToken)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.GetByKakaoUID(ctx, profile.KakaoUID)
	switch {
	case err == nil:
		if user.AgeRange == nil && profile.AgeRange != "" {
			if err := s.users.UpdateAgeRange(ctx, user.ID, profile.AgeRange); err != nil {
				return AuthResult{}, fmt.Errorf("backfill age range: %w", err)
			}
		}
		if user.Gender == nil && profile.Gender != "" {
			if err := s.users.UpdateGender(ctx, user.ID, profile.Gender); err != nil {
				return AuthResult{}, fmt.Errorf("backfill gender: %w", err)
			}
		}
	case errors.Is(err, pgrepo.ErrUserNotFound):
		user, err = s.createUser(ctx, profile, inviteReferralID)
		if err != nil {
			return AuthResult{}, err
		}
	default:
		return AuthResult{}, fmt.Errorf("get user by kakao uid: %w", err)
	}

	return s.issueForUser(ctx, user.ID, user.Nickname, user.Role)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return AuthResult{}, ErrInvalidInput
	}

	session, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("get refresh token session: %w", err)
	}
	if s.now().After(session.ExpiresAt) {
		return AuthResult{}, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("get session user: %w", err)
	}

	newRefreshToken, err := NewRefreshToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	newExpiresAt := s.now().Add(s.refreshTTL)
	if err := s.sessions.Rotate(ctx, refreshToken, newRefreshToken, newExpiresAt); err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(user.ID, user.Nickname, user.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  newRefreshToken,
		AccessExpires: accessExpires,
		Me: Me{
			ID:       user.ID,
			Nickname: user.Nickname,
			Role:     user.Role,
		},
	}, nil
}

func (s *Service) SignOut(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) ValidateAccessToken(_ context.Context, accessToken string) (AccessClaims, error) {
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}
	if s.now().After(claims.ExpiresAt) {
		return AccessClaims{}, ErrUnauthorized
	}
	return claims, nil
}

func (s *Service) createUser(ctx context.Context, profile KakaoProfile, inviteReferralID string) (pgrepo.UserRecord, error) {
	record := pgrepo.UserRecord{
		KakaoUID:   profile.KakaoUID,
		Nickname:   profile.Nickname,
		ReferralID: NewReferralID(),
	}
	if profile.Gender != "" {
		record.Gender = &profile.Gender
	}
	if profile.Birthday != "" {
		record.Birthday = &profile.Birthday
	}
	if profile.AgeRange != "" {
		record.AgeRange = &profile.AgeRange
	}

	if code := strings.TrimSpace(inviteReferralID); code != "" {
		inviter, err := s.users.GetByReferralID(ctx, code)
		if err == nil {
			record.InvitedByID = &inviter.ID
		} else if !errors.Is(err, pgrepo.ErrUserNotFound) {
			return pgrepo.UserRecord{}, fmt.Errorf("resolve inviter: %w", err)
		}
	}

	created, err := s.users.Create(ctx, record)
	if err != nil {
		return pgrepo.UserRecord{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *Service) issueForUser(ctx context.Context, userID int64, nickname, role string) (AuthResult, error) {
	if role == "" {
		role = string(enums.RoleUser)
	}

	refreshToken, err := NewRefreshToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	session := SessionRecord{
		UserID:    userID,
		Role:      role,
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := s.sessions.Save(ctx, session, refreshToken); err != nil {
		return AuthResult{}, fmt.Errorf("save session: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(userID, nickname, role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessExpires: accessExpires,
		Me: Me{
			ID:       userID,
			Nickname: nickname,
			Role:     role,
		},
	}, nil
}

// NewReferralID returns a short shareable invite code.
func NewReferralID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:8]
}
