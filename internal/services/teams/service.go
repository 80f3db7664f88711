package teams

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("team not found")
	ErrAlreadyApplied = errors.New("user already has an active team")
)

type TeamStore interface {
	Create(ctx context.Context, team pgrepo.TeamRecord) (pgrepo.TeamRecord, error)
	GetByID(ctx context.Context, teamID int64) (pgrepo.TeamRecord, error)
	GetTeamIDByUserID(ctx context.Context, userID int64) (int64, error)
	SoftDelete(ctx context.Context, tx pgx.Tx, teamID int64) error
	ApplyCounts(ctx context.Context) (male, female int, err error)
	ListHistoryByOwner(ctx context.Context, userID int64) ([]pgrepo.TeamHistoryRecord, error)
}

type Dependencies struct {
	Pool  *pgxpool.Pool
	Store TeamStore
}

type Service struct {
	pool  *pgxpool.Pool
	store TeamStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		pool:  deps.Pool,
		store: deps.Store,
	}
}

// ApplyCounts is the waiting-room headline number: live team counts per
// gender plus the total still waiting for a matching.
type ApplyCounts struct {
	Male    int `json:"male"`
	Female  int `json:"female"`
	Waiting int `json:"waiting"`
}

// Register creates the user's team application. A user holds at most one
// live team; a second registration fails with ErrAlreadyApplied.
func (s *Service) Register(ctx context.Context, team model.Team) (model.Team, error) {
	if err := validateTeam(team); err != nil {
		return model.Team{}, err
	}

	_, err := s.store.GetTeamIDByUserID(ctx, team.OwnerUserID)
	switch {
	case err == nil:
		return model.Team{}, ErrAlreadyApplied
	case errors.Is(err, pgrepo.ErrTeamNotFound):
		// No live team, proceed.
	default:
		return model.Team{}, fmt.Errorf("check active team: %w", err)
	}

	created, err := s.store.Create(ctx, recordFromModel(team))
	if err != nil {
		return model.Team{}, fmt.Errorf("create team: %w", err)
	}
	return modelFromRecord(created), nil
}

func (s *Service) GetByID(ctx context.Context, teamID int64) (model.Team, error) {
	if teamID <= 0 {
		return model.Team{}, ErrInvalidInput
	}

	record, err := s.store.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrTeamNotFound) {
			return model.Team{}, ErrNotFound
		}
		return model.Team{}, fmt.Errorf("get team: %w", err)
	}
	return modelFromRecord(record), nil
}

// GetTeamIDByUserID returns the id of the user's live team, or ErrNotFound
// when the user has none.
func (s *Service) GetTeamIDByUserID(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrInvalidInput
	}

	teamID, err := s.store.GetTeamIDByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrTeamNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get team id: %w", err)
	}
	return teamID, nil
}

func (s *Service) SoftDelete(ctx context.Context, tx pgx.Tx, teamID int64) error {
	if teamID <= 0 {
		return ErrInvalidInput
	}
	if err := s.store.SoftDelete(ctx, tx, teamID); err != nil {
		if errors.Is(err, pgrepo.ErrTeamNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("soft delete team: %w", err)
	}
	return nil
}

func (s *Service) GetApplyCounts(ctx context.Context) (ApplyCounts, error) {
	male, female, err := s.store.ApplyCounts(ctx)
	if err != nil {
		return ApplyCounts{}, fmt.Errorf("apply counts: %w", err)
	}
	return ApplyCounts{
		Male:    male,
		Female:  female,
		Waiting: male + female,
	}, nil
}

// ListHistoryByOwner returns the user's past and current applications,
// newest last, with the matching chat timestamp when one opened.
func (s *Service) ListHistoryByOwner(ctx context.Context, userID int64) ([]pgrepo.TeamHistoryRecord, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}

	history, err := s.store.ListHistoryByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list team history: %w", err)
	}
	return history, nil
}

func validateTeam(team model.Team) error {
	if team.OwnerUserID <= 0 || team.MemberCount <= 0 || team.Age <= 0 {
		return ErrInvalidInput
	}
	if team.Gender != enums.GenderMale && team.Gender != enums.GenderFemale {
		return ErrInvalidInput
	}
	if len(team.Areas) == 0 || len(team.Days) == 0 {
		return ErrInvalidInput
	}
	if team.PrefAgeMin < 0 || team.PrefAgeMax < team.PrefAgeMin {
		return ErrInvalidInput
	}
	return nil
}

func recordFromModel(team model.Team) pgrepo.TeamRecord {
	return pgrepo.TeamRecord{
		ID:             team.ID,
		OwnerUserID:    team.OwnerUserID,
		Gender:         team.Gender,
		MemberCount:    team.MemberCount,
		Age:            team.Age,
		Drink:          team.Drink,
		Intro:          team.Intro,
		Universities:   toInt64s(team.Universities),
		Areas:          toInt64s(team.Areas),
		Days:           toInt64s(team.Days),
		Jobs:           toInt64s(team.Jobs),
		Appearances:    toInt64s(team.Appearances),
		Mbtis:          toInt64s(team.Mbtis),
		Fashions:       toInt64s(team.Fashions),
		Roles:          toInt64s(team.Roles),
		Vibes:          toInt64s(team.Vibes),
		PrefAgeMin:     team.PrefAgeMin,
		PrefAgeMax:     team.PrefAgeMax,
		PrefHeightMin:  team.PrefHeightMin,
		PrefHeightMax:  team.PrefHeightMax,
		SameUniversity: team.SameUniversity,
		CreatedAt:      team.CreatedAt,
		DeletedAt:      team.DeletedAt,
	}
}

func modelFromRecord(record pgrepo.TeamRecord) model.Team {
	return model.Team{
		ID:             record.ID,
		OwnerUserID:    record.OwnerUserID,
		Gender:         record.Gender,
		MemberCount:    record.MemberCount,
		Age:            record.Age,
		Drink:          record.Drink,
		Intro:          record.Intro,
		Universities:   toInts(record.Universities),
		Areas:          toInts(record.Areas),
		Days:           toInts(record.Days),
		Jobs:           toInts(record.Jobs),
		Appearances:    toInts(record.Appearances),
		Mbtis:          toInts(record.Mbtis),
		Fashions:       toInts(record.Fashions),
		Roles:          toInts(record.Roles),
		Vibes:          toInts(record.Vibes),
		PrefAgeMin:     record.PrefAgeMin,
		PrefAgeMax:     record.PrefAgeMax,
		PrefHeightMin:  record.PrefHeightMin,
		PrefHeightMax:  record.PrefHeightMax,
		SameUniversity: record.SameUniversity,
		CreatedAt:      record.CreatedAt,
		DeletedAt:      record.DeletedAt,
	}
}

func toInt64s(values []int) []int64 {
	if values == nil {
		return nil
	}
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

func toInts(values []int64) []int {
	if values == nil {
		return nil
	}
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}
