package admin

import (
	"context"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/teams"
)

type MatchingService interface {
	ListByStatus(ctx context.Context, status enums.MatchingStatus) ([]model.Matching, error)
	Delete(ctx context.Context, matchingID int64) error
	SaveChatCreatedAt(ctx context.Context, matchingID int64) error
	ListRefuseReasons(ctx context.Context, limit int) ([]model.RefuseReason, error)
}

type TeamService interface {
	GetApplyCounts(ctx context.Context) (teams.ApplyCounts, error)
}

type UserService interface {
	SetBlacklisted(ctx context.Context, userID int64, blacklisted bool) error
}

type Dependencies struct {
	Matchings MatchingService
	Teams     TeamService
	Users     UserService
}

// Service is the operator console backend: succeeded-matching review, chat
// opening, matching teardown, the waiting-room numbers and user blacklisting.
type Service struct {
	matchings MatchingService
	teams     TeamService
	users     UserService
}

func NewService(deps Dependencies) *Service {
	return &Service{
		matchings: deps.Matchings,
		teams:     deps.Teams,
		users:     deps.Users,
	}
}

func (s *Service) MatchingsByStatus(ctx context.Context, status string) ([]model.Matching, error) {
	return s.matchings.ListByStatus(ctx, enums.MatchingStatus(status))
}

func (s *Service) DeleteMatching(ctx context.Context, matchingID int64) error {
	return s.matchings.Delete(ctx, matchingID)
}

func (s *Service) SaveChatCreatedAt(ctx context.Context, matchingID int64) error {
	return s.matchings.SaveChatCreatedAt(ctx, matchingID)
}

func (s *Service) RefuseReasons(ctx context.Context, limit int) ([]model.RefuseReason, error) {
	return s.matchings.ListRefuseReasons(ctx, limit)
}

func (s *Service) ApplyCounts(ctx context.Context) (teams.ApplyCounts, error) {
	return s.teams.GetApplyCounts(ctx)
}

// SetBlacklisted flips a user's eligibility flag. Blacklisted users are
// skipped by the matching round but keep their existing data.
func (s *Service) SetBlacklisted(ctx context.Context, userID int64, blacklisted bool) error {
	return s.users.SetBlacklisted(ctx, userID, blacklisted)
}
