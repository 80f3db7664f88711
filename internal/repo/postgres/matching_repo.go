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

var ErrMatchingNotFound = errors.New("matching not found")

type MatchingRepo struct {
	pool *pgxpool.Pool
}

type MatchingRecord struct {
	ID             int64
	MaleTeamID     int64
	FemaleTeamID   int64
	MaleDecision   enums.Decision
	FemaleDecision enums.Decision
	MaleTicketID   *int64
	FemaleTicketID *int64
	ChatCreatedAt  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

func NewMatchingRepo(pool *pgxpool.Pool) *MatchingRepo {
	return &MatchingRepo{pool: pool}
}

const matchingColumns = `
	id,
	male_team_id,
	female_team_id,
	male_decision,
	female_decision,
	male_ticket_id,
	female_ticket_id,
	chat_created_at,
	created_at,
	updated_at,
	deleted_at
`

func scanMatching(row pgx.Row) (MatchingRecord, error) {
	var m MatchingRecord
	err := row.Scan(
		&m.ID,
		&m.MaleTeamID,
		&m.FemaleTeamID,
		&m.MaleDecision,
		&m.FemaleDecision,
		&m.MaleTicketID,
		&m.FemaleTicketID,
		&m.ChatCreatedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchingRecord{}, ErrMatchingNotFound
		}
		return MatchingRecord{}, fmt.Errorf("scan matching: %w", err)
	}
	return m, nil
}

func (r *MatchingRepo) Create(ctx context.Context, tx pgx.Tx, maleTeamID, femaleTeamID int64) (MatchingRecord, error) {
	if maleTeamID <= 0 || femaleTeamID <= 0 {
		return MatchingRecord{}, fmt.Errorf("invalid matching payload")
	}
	if tx == nil {
		return MatchingRecord{}, fmt.Errorf("transaction is required")
	}

	row := tx.QueryRow(ctx, `
INSERT INTO matchings (
	male_team_id,
	female_team_id,
	male_decision,
	female_decision,
	created_at,
	updated_at
) VALUES ($1, $2, 'pending', 'pending', NOW(), NOW())
RETURNING`+matchingColumns, maleTeamID, femaleTeamID)

	m, err := scanMatching(row)
	if err != nil {
		return MatchingRecord{}, fmt.Errorf("create matching: %w", err)
	}
	return m, nil
}

func (r *MatchingRepo) GetByID(ctx context.Context, matchingID int64) (MatchingRecord, error) {
	if matchingID <= 0 {
		return MatchingRecord{}, fmt.Errorf("invalid matching id")
	}
	if r.pool == nil {
		return MatchingRecord{}, ErrMatchingNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+matchingColumns+`
FROM matchings
WHERE id = $1 AND deleted_at IS NULL
`, matchingID)
	return scanMatching(row)
}

// GetForUpdate loads a live matching inside tx with a row lock so that
// concurrent accept/refuse calls against the same matching serialize.
func (r *MatchingRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, matchingID int64) (MatchingRecord, error) {
	if matchingID <= 0 {
		return MatchingRecord{}, fmt.Errorf("invalid matching id")
	}
	if tx == nil {
		return MatchingRecord{}, fmt.Errorf("transaction is required")
	}

	row := tx.QueryRow(ctx, `
SELECT`+matchingColumns+`
FROM matchings
WHERE id = $1 AND deleted_at IS NULL
FOR UPDATE
`, matchingID)
	return scanMatching(row)
}

func (r *MatchingRepo) GetByTeamID(ctx context.Context, teamID int64) (MatchingRecord, error) {
	if teamID <= 0 {
		return MatchingRecord{}, fmt.Errorf("invalid team id")
	}
	if r.pool == nil {
		return MatchingRecord{}, ErrMatchingNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+matchingColumns+`
FROM matchings
WHERE (male_team_id = $1 OR female_team_id = $1) AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1
`, teamID)
	return scanMatching(row)
}

func (r *MatchingRepo) SetDecision(
	ctx context.Context,
	tx pgx.Tx,
	matchingID int64,
	side enums.Gender,
	decision enums.Decision,
	ticketID *int64,
) error {
	if matchingID <= 0 {
		return fmt.Errorf("invalid matching id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	var query string
	if side == enums.GenderMale {
		query = `
UPDATE matchings
SET male_decision = $2, male_ticket_id = COALESCE($3, male_ticket_id), updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`
	} else {
		query = `
UPDATE matchings
SET female_decision = $2, female_ticket_id = COALESCE($3, female_ticket_id), updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`
	}

	result, err := tx.Exec(ctx, query, matchingID, decision, ticketID)
	if err != nil {
		return fmt.Errorf("set matching decision: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMatchingNotFound
	}
	return nil
}

func (r *MatchingRepo) ClearTicket(ctx context.Context, tx pgx.Tx, matchingID int64, side enums.Gender) error {
	if matchingID <= 0 {
		return fmt.Errorf("invalid matching id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	column := "female_ticket_id"
	if side == enums.GenderMale {
		column = "male_ticket_id"
	}

	_, err := tx.Exec(ctx, `
UPDATE matchings
SET `+column+` = NULL, updated_at = NOW()
WHERE id = $1
`, matchingID)
	if err != nil {
		return fmt.Errorf("clear matching ticket: %w", err)
	}
	return nil
}

func (r *MatchingRepo) SetChatCreatedAt(ctx context.Context, matchingID int64, at time.Time) error {
	if matchingID <= 0 {
		return fmt.Errorf("invalid matching id")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE matchings
SET chat_created_at = COALESCE(chat_created_at, $2), updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`, matchingID, at)
	if err != nil {
		return fmt.Errorf("set chat created at: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMatchingNotFound
	}
	return nil
}

func (r *MatchingRepo) SoftDelete(ctx context.Context, tx pgx.Tx, matchingID int64) error {
	if matchingID <= 0 {
		return fmt.Errorf("invalid matching id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
UPDATE matchings
SET deleted_at = NOW(), updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`, matchingID)
	if err != nil {
		return fmt.Errorf("soft delete matching: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMatchingNotFound
	}
	return nil
}

// ListBothResponded returns live matchings where both sides recorded a
// decision, newest first. Backs the admin "succeeded" projection.
func (r *MatchingRepo) ListBothResponded(ctx context.Context) ([]MatchingRecord, error) {
	if r.pool == nil {
		return []MatchingRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+matchingColumns+`
FROM matchings
WHERE deleted_at IS NULL
	AND male_decision <> 'pending'
	AND female_decision <> 'pending'
ORDER BY updated_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list responded matchings: %w", err)
	}
	defer rows.Close()

	items := make([]MatchingRecord, 0)
	for rows.Next() {
		m, err := scanMatching(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate responded matchings: %w", rows.Err())
	}
	return items, nil
}

// CountByOwner returns how many matchings (live or concluded) the teams
// owned by a user have participated in. Used for round eligibility.
func (r *MatchingRepo) CountByOwner(ctx context.Context, ownerUserID int64) (int, error) {
	if ownerUserID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM matchings m
JOIN teams t ON t.id IN (m.male_team_id, m.female_team_id)
WHERE t.owner_user_id = $1
`, ownerUserID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count matchings by owner: %w", err)
	}
	return count, nil
}
