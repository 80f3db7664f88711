package matchings

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/rules"
	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
)

// Pair is one male/female team pairing produced by a round.
type Pair struct {
	MaleTeamID   int64
	FemaleTeamID int64
}

// RunRound pairs the waiting teams and persists each pair as a pending
// matching. Returns the pairs that were created.
func (s *Service) RunRound(ctx context.Context) ([]Pair, error) {
	waiting, err := s.teams.ListWaiting(ctx, rules.MaxPriorMatchings)
	if err != nil {
		return nil, fmt.Errorf("list waiting teams: %w", err)
	}

	pairs := planRound(waiting)
	if len(pairs) == 0 {
		return nil, nil
	}

	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, pair := range pairs {
			if _, err := s.matchings.Create(ctx, tx, pair.MaleTeamID, pair.FemaleTeamID); err != nil {
				return fmt.Errorf("create matching %d/%d: %w", pair.MaleTeamID, pair.FemaleTeamID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

// planRound pairs teams greedily. Male teams are taken in descending
// university tier; ties keep registration order. Each male team gets the
// first compatible female team in registration order.
func planRound(teams []pgrepo.TeamRecord) []Pair {
	var males, females []pgrepo.TeamRecord
	for _, team := range teams {
		switch team.Gender {
		case enums.GenderMale:
			males = append(males, team)
		case enums.GenderFemale:
			females = append(females, team)
		}
	}

	sort.SliceStable(males, func(i, j int) bool {
		return teamTier(males[i]) > teamTier(males[j])
	})

	used := make(map[int64]bool, len(females))
	var pairs []Pair
	for _, male := range males {
		for _, female := range females {
			if used[female.ID] {
				continue
			}
			if !compatible(male, female) {
				continue
			}
			pairs = append(pairs, Pair{MaleTeamID: male.ID, FemaleTeamID: female.ID})
			used[female.ID] = true
			break
		}
	}
	return pairs
}

func compatible(male, female pgrepo.TeamRecord) bool {
	if sameUniversityBlocked(male, female) {
		return false
	}
	if !rules.SharesValue(toInts(male.Areas), toInts(female.Areas)) {
		return false
	}
	if !rules.SharesValue(toInts(male.Days), toInts(female.Days)) {
		return false
	}
	if !rules.DrinkCompatible(male.Drink, female.Drink) {
		return false
	}
	if !rules.AgeFits(female.Age, male.PrefAgeMin, male.PrefAgeMax) {
		return false
	}
	if !rules.AgeFits(male.Age, female.PrefAgeMin, female.PrefAgeMax) {
		return false
	}
	return true
}

// sameUniversityBlocked excludes pairs sharing a university unless both
// teams opted into same-university matchings.
func sameUniversityBlocked(a, b pgrepo.TeamRecord) bool {
	if !rules.SharesValue(toInts(a.Universities), toInts(b.Universities)) {
		return false
	}
	return !(a.SameUniversity && b.SameUniversity)
}

func teamTier(team pgrepo.TeamRecord) int {
	return rules.UniversityTier(toInts(team.Universities))
}
