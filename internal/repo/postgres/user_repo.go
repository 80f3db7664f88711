package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID            int64
	KakaoUID      int64
	Nickname      string
	Phone         string
	Gender        *string
	Birthday      *string
	AgeRange      *string
	ReferralID    string
	InvitedByID   *int64
	Role          string
	IsBlacklisted bool
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `
	id,
	kakao_uid,
	nickname,
	COALESCE(phone, ''),
	gender,
	birthday,
	age_range,
	referral_id,
	invited_by_id,
	role,
	is_blacklisted,
	created_at,
	deleted_at
`

func scanUser(row pgx.Row) (UserRecord, error) {
	var u UserRecord
	err := row.Scan(
		&u.ID,
		&u.KakaoUID,
		&u.Nickname,
		&u.Phone,
		&u.Gender,
		&u.Birthday,
		&u.AgeRange,
		&u.ReferralID,
		&u.InvitedByID,
		&u.Role,
		&u.IsBlacklisted,
		&u.CreatedAt,
		&u.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, user UserRecord) (UserRecord, error) {
	if user.KakaoUID <= 0 || user.ReferralID == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (
	kakao_uid,
	nickname,
	gender,
	birthday,
	age_range,
	referral_id,
	invited_by_id,
	role,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, 'user', NOW())
RETURNING`+userColumns,
		user.KakaoUID,
		user.Nickname,
		user.Gender,
		user.Birthday,
		user.AgeRange,
		user.ReferralID,
		user.InvitedByID,
	)

	created, err := scanUser(row)
	if err != nil {
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (UserRecord, error) {
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return UserRecord{}, ErrUserNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+userColumns+`
FROM users
WHERE id = $1 AND deleted_at IS NULL
`, userID)
	return scanUser(row)
}

func (r *UserRepo) GetByKakaoUID(ctx context.Context, kakaoUID int64) (UserRecord, error) {
	if kakaoUID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid kakao uid")
	}
	if r.pool == nil {
		return UserRecord{}, ErrUserNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+userColumns+`
FROM users
WHERE kakao_uid = $1 AND deleted_at IS NULL
`, kakaoUID)
	return scanUser(row)
}

func (r *UserRepo) GetByReferralID(ctx context.Context, referralID string) (UserRecord, error) {
	if referralID == "" {
		return UserRecord{}, fmt.Errorf("invalid referral id")
	}
	if r.pool == nil {
		return UserRecord{}, ErrUserNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+userColumns+`
FROM users
WHERE referral_id = $1 AND deleted_at IS NULL
`, referralID)
	return scanUser(row)
}

func (r *UserRepo) UpdateAgeRange(ctx context.Context, userID int64, ageRange string) error {
	if userID <= 0 || ageRange == "" {
		return fmt.Errorf("invalid age range payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE users
SET age_range = $2
WHERE id = $1 AND deleted_at IS NULL
`, userID, ageRange); err != nil {
		return fmt.Errorf("update user age range: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdateGender(ctx context.Context, userID int64, gender string) error {
	if userID <= 0 || gender == "" {
		return fmt.Errorf("invalid gender payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE users
SET gender = $2
WHERE id = $1 AND deleted_at IS NULL
`, userID, gender); err != nil {
		return fmt.Errorf("update user gender: %w", err)
	}
	return nil
}

// CountInvitations counts signed-up users who were invited by the given
// user's referral code.
func (r *UserRepo) CountInvitations(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM users
WHERE invited_by_id = $1 AND deleted_at IS NULL
`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count invitations: %w", err)
	}
	return count, nil
}

func (r *UserRepo) SetBlacklisted(ctx context.Context, userID int64, blacklisted bool) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users
SET is_blacklisted = $2
WHERE id = $1 AND deleted_at IS NULL
`, userID, blacklisted)
	if err != nil {
		return fmt.Errorf("set user blacklisted: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
