package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAgreementNotFound = errors.New("agreement not found")

type AgreementRepo struct {
	pool *pgxpool.Pool
}

type AgreementRecord struct {
	ID        int64
	UserID    int64
	Service   bool
	Privacy   bool
	Age       bool
	Marketing bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewAgreementRepo(pool *pgxpool.Pool) *AgreementRepo {
	return &AgreementRepo{pool: pool}
}

func (r *AgreementRepo) Upsert(ctx context.Context, rec AgreementRecord) (AgreementRecord, error) {
	if rec.UserID <= 0 {
		return AgreementRecord{}, fmt.Errorf("invalid agreement payload")
	}
	if r.pool == nil {
		return AgreementRecord{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO user_agreements (user_id, service, privacy, age, marketing, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE
SET service = EXCLUDED.service,
	privacy = EXCLUDED.privacy,
	age = EXCLUDED.age,
	marketing = EXCLUDED.marketing,
	updated_at = NOW()
RETURNING id, user_id, service, privacy, age, marketing, created_at, updated_at
`, rec.UserID, rec.Service, rec.Privacy, rec.Age, rec.Marketing)

	var saved AgreementRecord
	err := row.Scan(&saved.ID, &saved.UserID, &saved.Service, &saved.Privacy, &saved.Age, &saved.Marketing, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return AgreementRecord{}, fmt.Errorf("upsert agreement: %w", err)
	}
	return saved, nil
}

func (r *AgreementRepo) GetByUserID(ctx context.Context, userID int64) (AgreementRecord, error) {
	if userID <= 0 {
		return AgreementRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return AgreementRecord{}, ErrAgreementNotFound
	}

	var rec AgreementRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, service, privacy, age, marketing, created_at, updated_at
FROM user_agreements
WHERE user_id = $1
`, userID).Scan(&rec.ID, &rec.UserID, &rec.Service, &rec.Privacy, &rec.Age, &rec.Marketing, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AgreementRecord{}, ErrAgreementNotFound
		}
		return AgreementRecord{}, fmt.Errorf("get agreement: %w", err)
	}
	return rec, nil
}
