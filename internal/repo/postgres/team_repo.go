package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepo struct {
	pool *pgxpool.Pool
}

type TeamRecord struct {
	ID             int64
	OwnerUserID    int64
	Gender         enums.Gender
	MemberCount    int
	Age            int
	Drink          int
	Intro          string
	Universities   []int64
	Areas          []int64
	Days           []int64
	Jobs           []int64
	Appearances    []int64
	Mbtis          []int64
	Fashions       []int64
	Roles          []int64
	Vibes          []int64
	PrefAgeMin     int
	PrefAgeMax     int
	PrefHeightMin  int
	PrefHeightMax  int
	SameUniversity bool
	CreatedAt      time.Time
	DeletedAt      *time.Time
}

// TeamHistoryRecord is the per-user application history row, joined with
// the matching chat timestamp when one exists.
type TeamHistoryRecord struct {
	ID            int64
	MemberCount   int
	CreatedAt     time.Time
	ChatCreatedAt *time.Time
}

func NewTeamRepo(pool *pgxpool.Pool) *TeamRepo {
	return &TeamRepo{pool: pool}
}

const teamColumns = `
	id,
	owner_user_id,
	gender,
	member_count,
	age,
	drink,
	intro,
	universities,
	areas,
	days,
	jobs,
	appearances,
	mbtis,
	fashions,
	team_roles,
	vibes,
	pref_age_min,
	pref_age_max,
	pref_height_min,
	pref_height_max,
	same_university,
	created_at,
	deleted_at
`

func scanTeam(row pgx.Row) (TeamRecord, error) {
	var t TeamRecord
	err := row.Scan(
		&t.ID,
		&t.OwnerUserID,
		&t.Gender,
		&t.MemberCount,
		&t.Age,
		&t.Drink,
		&t.Intro,
		&t.Universities,
		&t.Areas,
		&t.Days,
		&t.Jobs,
		&t.Appearances,
		&t.Mbtis,
		&t.Fashions,
		&t.Roles,
		&t.Vibes,
		&t.PrefAgeMin,
		&t.PrefAgeMax,
		&t.PrefHeightMin,
		&t.PrefHeightMax,
		&t.SameUniversity,
		&t.CreatedAt,
		&t.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TeamRecord{}, ErrTeamNotFound
		}
		return TeamRecord{}, fmt.Errorf("scan team: %w", err)
	}
	return t, nil
}

func (r *TeamRepo) Create(ctx context.Context, team TeamRecord) (TeamRecord, error) {
	if team.OwnerUserID <= 0 || team.MemberCount <= 0 {
		return TeamRecord{}, fmt.Errorf("invalid team payload")
	}
	if r.pool == nil {
		return TeamRecord{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO teams (
	owner_user_id,
	gender,
	member_count,
	age,
	drink,
	intro,
	universities,
	areas,
	days,
	jobs,
	appearances,
	mbtis,
	fashions,
	team_roles,
	vibes,
	pref_age_min,
	pref_age_max,
	pref_height_min,
	pref_height_max,
	same_university,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW())
RETURNING`+teamColumns,
		team.OwnerUserID,
		team.Gender,
		team.MemberCount,
		team.Age,
		team.Drink,
		team.Intro,
		team.Universities,
		team.Areas,
		team.Days,
		team.Jobs,
		team.Appearances,
		team.Mbtis,
		team.Fashions,
		team.Roles,
		team.Vibes,
		team.PrefAgeMin,
		team.PrefAgeMax,
		team.PrefHeightMin,
		team.PrefHeightMax,
		team.SameUniversity,
	)

	created, err := scanTeam(row)
	if err != nil {
		return TeamRecord{}, fmt.Errorf("create team: %w", err)
	}
	return created, nil
}

func (r *TeamRepo) GetByID(ctx context.Context, teamID int64) (TeamRecord, error) {
	if teamID <= 0 {
		return TeamRecord{}, fmt.Errorf("invalid team id")
	}
	if r.pool == nil {
		return TeamRecord{}, ErrTeamNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+teamColumns+`
FROM teams
WHERE id = $1 AND deleted_at IS NULL
`, teamID)
	return scanTeam(row)
}

// GetTeamIDByUserID resolves the live team owned by a user.
func (r *TeamRepo) GetTeamIDByUserID(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, ErrTeamNotFound
	}

	var teamID int64
	err := r.pool.QueryRow(ctx, `
SELECT id
FROM teams
WHERE owner_user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1
`, userID).Scan(&teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrTeamNotFound
		}
		return 0, fmt.Errorf("get team id by user: %w", err)
	}
	return teamID, nil
}

func (r *TeamRepo) SoftDelete(ctx context.Context, tx pgx.Tx, teamID int64) error {
	if teamID <= 0 {
		return fmt.Errorf("invalid team id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
UPDATE teams
SET deleted_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`, teamID); err != nil {
		return fmt.Errorf("soft delete team: %w", err)
	}
	return nil
}

// ApplyCounts returns how many live teams are waiting, split by gender.
func (r *TeamRepo) ApplyCounts(ctx context.Context) (male, female int, err error) {
	if r.pool == nil {
		return 0, 0, nil
	}

	err = r.pool.QueryRow(ctx, `
SELECT
	COUNT(*) FILTER (WHERE gender = 'male'),
	COUNT(*) FILTER (WHERE gender = 'female')
FROM teams
WHERE deleted_at IS NULL
`).Scan(&male, &female)
	if err != nil {
		return 0, 0, fmt.Errorf("count team applications: %w", err)
	}
	return male, female, nil
}

// ListWaiting returns round candidates: live teams not already in a live
// matching, excluding blacklisted owners and owners with maxPrior or more
// prior matchings. Ordered by registration time for deterministic rounds.
func (r *TeamRepo) ListWaiting(ctx context.Context, maxPrior int) ([]TeamRecord, error) {
	if r.pool == nil {
		return []TeamRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+teamColumns+`
FROM teams t
WHERE t.deleted_at IS NULL
	AND NOT EXISTS (
		SELECT 1
		FROM matchings m
		WHERE (m.male_team_id = t.id OR m.female_team_id = t.id)
			AND m.deleted_at IS NULL
	)
	AND NOT EXISTS (
		SELECT 1
		FROM users u
		WHERE u.id = t.owner_user_id AND u.is_blacklisted
	)
	AND (
		SELECT COUNT(*)
		FROM matchings m
		JOIN teams pt ON pt.id IN (m.male_team_id, m.female_team_id)
		WHERE pt.owner_user_id = t.owner_user_id
	) < $1
ORDER BY t.created_at, t.id
`, maxPrior)
	if err != nil {
		return nil, fmt.Errorf("list waiting teams: %w", err)
	}
	defer rows.Close()

	items := make([]TeamRecord, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate waiting teams: %w", rows.Err())
	}
	return items, nil
}

// ListHistoryByOwner returns all applications a user ever made, including
// soft-deleted ones, with the chat timestamp of the matching if reached.
func (r *TeamRepo) ListHistoryByOwner(ctx context.Context, userID int64) ([]TeamHistoryRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []TeamHistoryRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	t.id,
	t.member_count,
	t.created_at,
	m.chat_created_at
FROM teams t
LEFT JOIN matchings m ON (m.male_team_id = t.id OR m.female_team_id = t.id)
WHERE t.owner_user_id = $1
ORDER BY t.created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list team history: %w", err)
	}
	defer rows.Close()

	items := make([]TeamHistoryRecord, 0)
	for rows.Next() {
		var h TeamHistoryRecord
		if err := rows.Scan(&h.ID, &h.MemberCount, &h.CreatedAt, &h.ChatCreatedAt); err != nil {
			return nil, fmt.Errorf("scan team history: %w", err)
		}
		items = append(items, h)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate team history: %w", rows.Err())
	}
	return items, nil
}
