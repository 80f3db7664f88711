package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RefuseReasonRepo struct {
	pool *pgxpool.Pool
}

type RefuseReasonRecord struct {
	ID         int64
	MatchingID int64
	TeamID     int64
	Content    string
	CreatedAt  time.Time
}

func NewRefuseReasonRepo(pool *pgxpool.Pool) *RefuseReasonRepo {
	return &RefuseReasonRepo{pool: pool}
}

func (r *RefuseReasonRepo) Create(ctx context.Context, matchingID, teamID int64, content string) (RefuseReasonRecord, error) {
	if matchingID <= 0 || teamID <= 0 {
		return RefuseReasonRecord{}, fmt.Errorf("invalid refuse reason payload")
	}
	if r.pool == nil {
		return RefuseReasonRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec RefuseReasonRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO matching_refuse_reasons (matching_id, team_id, content, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, matching_id, team_id, content, created_at
`, matchingID, teamID, content).Scan(&rec.ID, &rec.MatchingID, &rec.TeamID, &rec.Content, &rec.CreatedAt)
	if err != nil {
		return RefuseReasonRecord{}, fmt.Errorf("create refuse reason: %w", err)
	}
	return rec, nil
}

func (r *RefuseReasonRepo) List(ctx context.Context, limit int) ([]RefuseReasonRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []RefuseReasonRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, matching_id, team_id, content, created_at
FROM matching_refuse_reasons
ORDER BY created_at DESC, id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list refuse reasons: %w", err)
	}
	defer rows.Close()

	items := make([]RefuseReasonRecord, 0, limit)
	for rows.Next() {
		var rec RefuseReasonRecord
		if err := rows.Scan(&rec.ID, &rec.MatchingID, &rec.TeamID, &rec.Content, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan refuse reason: %w", err)
		}
		items = append(items, rec)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate refuse reasons: %w", rows.Err())
	}
	return items, nil
}
