package matchings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
)

type MatchingStore interface {
	Create(ctx context.Context, tx pgx.Tx, maleTeamID, femaleTeamID int64) (pgrepo.MatchingRecord, error)
	GetByID(ctx context.Context, matchingID int64) (pgrepo.MatchingRecord, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, matchingID int64) (pgrepo.MatchingRecord, error)
	GetByTeamID(ctx context.Context, teamID int64) (pgrepo.MatchingRecord, error)
	SetDecision(ctx context.Context, tx pgx.Tx, matchingID int64, side enums.Gender, decision enums.Decision, ticketID *int64) error
	ClearTicket(ctx context.Context, tx pgx.Tx, matchingID int64, side enums.Gender) error
	SetChatCreatedAt(ctx context.Context, matchingID int64, at time.Time) error
	SoftDelete(ctx context.Context, tx pgx.Tx, matchingID int64) error
	ListBothResponded(ctx context.Context) ([]pgrepo.MatchingRecord, error)
}

type TeamStore interface {
	GetByID(ctx context.Context, teamID int64) (pgrepo.TeamRecord, error)
	SoftDelete(ctx context.Context, tx pgx.Tx, teamID int64) error
	ListWaiting(ctx context.Context, maxPrior int) ([]pgrepo.TeamRecord, error)
}

type TicketStore interface {
	ConsumeOne(ctx context.Context, tx pgx.Tx, userID int64, now time.Time) (pgrepo.TicketRecord, error)
	Refund(ctx context.Context, tx pgx.Tx, ticketID int64) error
	Delete(ctx context.Context, tx pgx.Tx, ticketID int64) error
}

type RefuseReasonStore interface {
	Create(ctx context.Context, matchingID, teamID int64, content string) (pgrepo.RefuseReasonRecord, error)
	List(ctx context.Context, limit int) ([]pgrepo.RefuseReasonRecord, error)
}

type Dependencies struct {
	Pool          *pgxpool.Pool
	Matchings     MatchingStore
	Teams         TeamStore
	Tickets       TicketStore
	RefuseReasons RefuseReasonStore
}

// Service runs the matching negotiation: the side-relative view, the
// accept/refuse decisions with their ticket movements, and the admin
// lifecycle operations. Every multi-step write happens inside one
// transaction holding a row lock on the matching.
type Service struct {
	pool          *pgxpool.Pool
	matchings     MatchingStore
	teams         TeamStore
	tickets       TicketStore
	refuseReasons RefuseReasonStore
	now           func() time.Time
	runTx         func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		pool:          deps.Pool,
		matchings:     deps.Matchings,
		teams:         deps.Teams,
		tickets:       deps.Tickets,
		refuseReasons: deps.RefuseReasons,
		now:           time.Now,
	}
	s.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, s.pool, fn)
	}
	return s
}

// GetInfo returns the matching as seen by the caller: the team the user
// owns is OurTeam. A matching the user's teams are not part of reads as
// not found.
func (s *Service) GetInfo(ctx context.Context, userID, matchingID int64) (Info, error) {
	if userID <= 0 || matchingID <= 0 {
		return Info{}, ErrInvalidInput
	}

	matching, err := s.matchings.GetByID(ctx, matchingID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchingNotFound) {
			return Info{}, ErrNotFound
		}
		return Info{}, fmt.Errorf("get matching: %w", err)
	}

	maleTeam, err := s.teams.GetByID(ctx, matching.MaleTeamID)
	if err != nil {
		return Info{}, fmt.Errorf("get male team: %w", err)
	}
	femaleTeam, err := s.teams.GetByID(ctx, matching.FemaleTeamID)
	if err != nil {
		return Info{}, fmt.Errorf("get female team: %w", err)
	}

	info := Info{
		MatchingID:    matching.ID,
		ChatCreatedAt: matching.ChatCreatedAt,
		CreatedAt:     matching.CreatedAt,
	}

	switch userID {
	case maleTeam.OwnerUserID:
		info.OurTeam = teamView(maleTeam)
		info.PartnerTeam = teamView(femaleTeam)
		info.OurDecision = matching.MaleDecision
		info.PartnerDecision = matching.FemaleDecision
	case femaleTeam.OwnerUserID:
		info.OurTeam = teamView(femaleTeam)
		info.PartnerTeam = teamView(maleTeam)
		info.OurDecision = matching.FemaleDecision
		info.PartnerDecision = matching.MaleDecision
	default:
		return Info{}, ErrNotFound
	}

	return info, nil
}

// Accept records the team's acceptance and consumes one of the owner's
// tickets. The consumed ticket is referenced on the matching so a later
// partner refusal can refund it.
func (s *Service) Accept(ctx context.Context, userID, matchingID, teamID int64) error {
	if userID <= 0 || matchingID <= 0 || teamID <= 0 {
		return ErrInvalidInput
	}

	return s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		matching, side, err := s.lockMatchingSide(ctx, tx, matchingID, teamID)
		if err != nil {
			return err
		}

		if decisionFor(matching, side).Responded() {
			return ErrAlreadyResponded
		}
		if decisionFor(matching, side.Opposite()) == enums.DecisionRefused {
			return ErrPartnerRefused
		}

		ticket, err := s.tickets.ConsumeOne(ctx, tx, userID, s.now())
		if err != nil {
			if errors.Is(err, pgrepo.ErrNoTicket) {
				return ErrNoTicket
			}
			return fmt.Errorf("consume ticket: %w", err)
		}

		if err := s.matchings.SetDecision(ctx, tx, matchingID, side, enums.DecisionAccepted, &ticket.ID); err != nil {
			return fmt.Errorf("set accepted decision: %w", err)
		}
		return nil
	})
}

// Refuse records the team's refusal. When the partner had already accepted,
// the partner's consumed ticket is refunded and unlinked so the acceptance
// costs nothing.
func (s *Service) Refuse(ctx context.Context, matchingID, teamID int64) error {
	if matchingID <= 0 || teamID <= 0 {
		return ErrInvalidInput
	}

	return s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		matching, side, err := s.lockMatchingSide(ctx, tx, matchingID, teamID)
		if err != nil {
			return err
		}

		if decisionFor(matching, side).Responded() {
			return ErrAlreadyResponded
		}

		partner := side.Opposite()
		if decisionFor(matching, partner) == enums.DecisionAccepted {
			if partnerTicket := ticketFor(matching, partner); partnerTicket != nil {
				if err := s.tickets.Refund(ctx, tx, *partnerTicket); err != nil {
					return fmt.Errorf("refund partner ticket: %w", err)
				}
				if err := s.matchings.ClearTicket(ctx, tx, matchingID, partner); err != nil {
					return fmt.Errorf("clear partner ticket: %w", err)
				}
			}
		}

		if err := s.matchings.SetDecision(ctx, tx, matchingID, side, enums.DecisionRefused, nil); err != nil {
			return fmt.Errorf("set refused decision: %w", err)
		}
		return nil
	})
}

// CreateRefuseReason appends a free-text reason a team gave for refusing.
func (s *Service) CreateRefuseReason(ctx context.Context, matchingID, teamID int64, content string) (model.RefuseReason, error) {
	if matchingID <= 0 || teamID <= 0 || content == "" {
		return model.RefuseReason{}, ErrInvalidInput
	}

	matching, err := s.matchings.GetByID(ctx, matchingID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchingNotFound) {
			return model.RefuseReason{}, ErrNotFound
		}
		return model.RefuseReason{}, fmt.Errorf("get matching: %w", err)
	}
	if teamID != matching.MaleTeamID && teamID != matching.FemaleTeamID {
		return model.RefuseReason{}, ErrNotFound
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, pgrepo.ErrTeamNotFound) {
			return model.RefuseReason{}, ErrNotFound
		}
		return model.RefuseReason{}, fmt.Errorf("get team: %w", err)
	}

	reason, err := s.refuseReasons.Create(ctx, matchingID, teamID, content)
	if err != nil {
		return model.RefuseReason{}, fmt.Errorf("create refuse reason: %w", err)
	}
	return refuseReasonView(reason), nil
}

// Delete soft-deletes the matching and cascades: both teams are soft-deleted
// when still live, both referenced tickets are removed from the ledger.
func (s *Service) Delete(ctx context.Context, matchingID int64) error {
	if matchingID <= 0 {
		return ErrInvalidInput
	}

	return s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		matching, err := s.matchings.GetForUpdate(ctx, tx, matchingID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrMatchingNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock matching: %w", err)
		}

		if err := s.matchings.SoftDelete(ctx, tx, matchingID); err != nil {
			return fmt.Errorf("soft delete matching: %w", err)
		}

		for _, teamID := range []int64{matching.MaleTeamID, matching.FemaleTeamID} {
			_, err := s.teams.GetByID(ctx, teamID)
			switch {
			case err == nil:
				if err := s.teams.SoftDelete(ctx, tx, teamID); err != nil {
					return fmt.Errorf("soft delete team %d: %w", teamID, err)
				}
			case errors.Is(err, pgrepo.ErrTeamNotFound):
				// Already deleted, nothing to cascade.
			default:
				return fmt.Errorf("get team %d: %w", teamID, err)
			}
		}

		for _, ticketID := range []*int64{matching.MaleTicketID, matching.FemaleTicketID} {
			if ticketID == nil {
				continue
			}
			if err := s.tickets.Delete(ctx, tx, *ticketID); err != nil {
				return fmt.Errorf("delete ticket %d: %w", *ticketID, err)
			}
		}
		return nil
	})
}

// SaveChatCreatedAt stamps the moment the chat room opened. Repeated calls
// keep the first timestamp.
func (s *Service) SaveChatCreatedAt(ctx context.Context, matchingID int64) error {
	if matchingID <= 0 {
		return ErrInvalidInput
	}

	if _, err := s.matchings.GetByID(ctx, matchingID); err != nil {
		if errors.Is(err, pgrepo.ErrMatchingNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get matching: %w", err)
	}

	if err := s.matchings.SetChatCreatedAt(ctx, matchingID, s.now()); err != nil {
		return fmt.Errorf("save chat created at: %w", err)
	}
	return nil
}

func (s *Service) ListByStatus(ctx context.Context, status enums.MatchingStatus) ([]model.Matching, error) {
	if status != enums.MatchingStatusSucceeded {
		return nil, ErrInvalidInput
	}

	records, err := s.matchings.ListBothResponded(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matchings: %w", err)
	}

	matchings := make([]model.Matching, 0, len(records))
	for _, rec := range records {
		matchings = append(matchings, matchingView(rec))
	}
	return matchings, nil
}

// GetMatchingIDByTeamID returns the id of the team's latest live matching.
func (s *Service) GetMatchingIDByTeamID(ctx context.Context, teamID int64) (int64, error) {
	matching, err := s.GetByTeamID(ctx, teamID)
	if err != nil {
		return 0, err
	}
	return matching.ID, nil
}

func (s *Service) GetByTeamID(ctx context.Context, teamID int64) (model.Matching, error) {
	if teamID <= 0 {
		return model.Matching{}, ErrInvalidInput
	}

	matching, err := s.matchings.GetByTeamID(ctx, teamID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchingNotFound) {
			return model.Matching{}, ErrNotFound
		}
		return model.Matching{}, fmt.Errorf("get matching by team: %w", err)
	}
	return matchingView(matching), nil
}

func (s *Service) ListRefuseReasons(ctx context.Context, limit int) ([]model.RefuseReason, error) {
	records, err := s.refuseReasons.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list refuse reasons: %w", err)
	}

	reasons := make([]model.RefuseReason, 0, len(records))
	for _, rec := range records {
		reasons = append(reasons, refuseReasonView(rec))
	}
	return reasons, nil
}

// lockMatchingSide locks the matching row and resolves which side teamID is
// on. A team id belonging to neither side reads as not found.
func (s *Service) lockMatchingSide(ctx context.Context, tx pgx.Tx, matchingID, teamID int64) (pgrepo.MatchingRecord, enums.Gender, error) {
	matching, err := s.matchings.GetForUpdate(ctx, tx, matchingID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchingNotFound) {
			return pgrepo.MatchingRecord{}, "", ErrNotFound
		}
		return pgrepo.MatchingRecord{}, "", fmt.Errorf("lock matching: %w", err)
	}

	switch teamID {
	case matching.MaleTeamID:
		return matching, enums.GenderMale, nil
	case matching.FemaleTeamID:
		return matching, enums.GenderFemale, nil
	default:
		return pgrepo.MatchingRecord{}, "", ErrNotFound
	}
}

func decisionFor(matching pgrepo.MatchingRecord, side enums.Gender) enums.Decision {
	if side == enums.GenderMale {
		return matching.MaleDecision
	}
	return matching.FemaleDecision
}

func ticketFor(matching pgrepo.MatchingRecord, side enums.Gender) *int64 {
	if side == enums.GenderMale {
		return matching.MaleTicketID
	}
	return matching.FemaleTicketID
}

func matchingView(record pgrepo.MatchingRecord) model.Matching {
	return model.Matching{
		ID:             record.ID,
		MaleTeamID:     record.MaleTeamID,
		FemaleTeamID:   record.FemaleTeamID,
		MaleDecision:   record.MaleDecision,
		FemaleDecision: record.FemaleDecision,
		MaleTicketID:   record.MaleTicketID,
		FemaleTicketID: record.FemaleTicketID,
		ChatCreatedAt:  record.ChatCreatedAt,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
		DeletedAt:      record.DeletedAt,
	}
}

func refuseReasonView(record pgrepo.RefuseReasonRecord) model.RefuseReason {
	return model.RefuseReason{
		ID:         record.ID,
		MatchingID: record.MatchingID,
		TeamID:     record.TeamID,
		Content:    record.Content,
		CreatedAt:  record.CreatedAt,
	}
}

func teamView(record pgrepo.TeamRecord) model.Team {
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
