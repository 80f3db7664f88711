package matchings

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
)

func waitingTeam(id int64, gender enums.Gender, mutate func(*pgrepo.TeamRecord)) pgrepo.TeamRecord {
	team := pgrepo.TeamRecord{
		ID:           id,
		OwnerUserID:  id * 10,
		Gender:       gender,
		MemberCount:  2,
		Age:          24,
		Drink:        5,
		Universities: []int64{20 + id},
		Areas:        []int64{1},
		Days:         []int64{1},
		PrefAgeMin:   20,
		PrefAgeMax:   29,
	}
	if mutate != nil {
		mutate(&team)
	}
	return team
}

func TestPlanRoundPairsCompatibleTeams(t *testing.T) {
	teams := []pgrepo.TeamRecord{
		waitingTeam(1, enums.GenderMale, nil),
		waitingTeam(2, enums.GenderFemale, nil),
	}

	pairs := planRound(teams)
	if len(pairs) != 1 {
		t.Fatalf("expected one pair, got %d", len(pairs))
	}
	if pairs[0].MaleTeamID != 1 || pairs[0].FemaleTeamID != 2 {
		t.Fatalf("unexpected pair: %+v", pairs[0])
	}
}

func TestPlanRoundFilters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(male, female *pgrepo.TeamRecord)
	}{
		{
			name: "no shared area",
			mutate: func(male, female *pgrepo.TeamRecord) {
				male.Areas = []int64{1}
				female.Areas = []int64{2}
			},
		},
		{
			name: "no shared day",
			mutate: func(male, female *pgrepo.TeamRecord) {
				male.Days = []int64{1}
				female.Days = []int64{2}
			},
		},
		{
			name: "drink gap too wide",
			mutate: func(male, female *pgrepo.TeamRecord) {
				male.Drink = 10
				female.Drink = 1
			},
		},
		{
			name: "age outside male preference",
			mutate: func(male, female *pgrepo.TeamRecord) {
				male.PrefAgeMin = 20
				male.PrefAgeMax = 22
				female.Age = 28
			},
		},
		{
			name: "age outside female preference",
			mutate: func(male, female *pgrepo.TeamRecord) {
				female.PrefAgeMin = 26
				female.PrefAgeMax = 29
				male.Age = 24
			},
		},
		{
			name: "same university without opt-in",
			mutate: func(male, female *pgrepo.TeamRecord) {
				male.Universities = []int64{5}
				female.Universities = []int64{5}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			male := waitingTeam(1, enums.GenderMale, nil)
			female := waitingTeam(2, enums.GenderFemale, nil)
			tc.mutate(&male, &female)

			if pairs := planRound([]pgrepo.TeamRecord{male, female}); len(pairs) != 0 {
				t.Fatalf("expected no pair, got %+v", pairs)
			}
		})
	}
}

func TestPlanRoundAllowsSameUniversityWhenBothOptIn(t *testing.T) {
	male := waitingTeam(1, enums.GenderMale, func(tm *pgrepo.TeamRecord) {
		tm.Universities = []int64{5}
		tm.SameUniversity = true
	})
	female := waitingTeam(2, enums.GenderFemale, func(tm *pgrepo.TeamRecord) {
		tm.Universities = []int64{5}
		tm.SameUniversity = true
	})

	if pairs := planRound([]pgrepo.TeamRecord{male, female}); len(pairs) != 1 {
		t.Fatalf("expected one pair, got %+v", pairs)
	}
}

func TestPlanRoundOrdersMalesByUniversityTier(t *testing.T) {
	// Team 1 registered first but has a lower-tier university than team 3;
	// the single female team goes to the higher tier.
	lowTier := waitingTeam(1, enums.GenderMale, func(tm *pgrepo.TeamRecord) {
		tm.Universities = []int64{10}
	})
	highTier := waitingTeam(3, enums.GenderMale, func(tm *pgrepo.TeamRecord) {
		tm.Universities = []int64{1}
	})
	female := waitingTeam(2, enums.GenderFemale, nil)

	pairs := planRound([]pgrepo.TeamRecord{lowTier, highTier, female})
	if len(pairs) != 1 {
		t.Fatalf("expected one pair, got %d", len(pairs))
	}
	if pairs[0].MaleTeamID != 3 {
		t.Fatalf("expected the higher-tier team to be paired first, got team %d", pairs[0].MaleTeamID)
	}
}

func TestPlanRoundKeepsRegistrationOrderWithinTier(t *testing.T) {
	first := waitingTeam(1, enums.GenderMale, nil)
	second := waitingTeam(3, enums.GenderMale, nil)
	female := waitingTeam(2, enums.GenderFemale, nil)

	pairs := planRound([]pgrepo.TeamRecord{first, second, female})
	if len(pairs) != 1 || pairs[0].MaleTeamID != 1 {
		t.Fatalf("expected the earlier registration to win the tie, got %+v", pairs)
	}
}

func TestPlanRoundNeverReusesAFemaleTeam(t *testing.T) {
	maleA := waitingTeam(1, enums.GenderMale, nil)
	maleB := waitingTeam(3, enums.GenderMale, nil)
	female := waitingTeam(2, enums.GenderFemale, nil)

	pairs := planRound([]pgrepo.TeamRecord{maleA, maleB, female})
	if len(pairs) != 1 {
		t.Fatalf("one female team can appear in at most one pair, got %+v", pairs)
	}
}

func TestRunRoundPersistsPairs(t *testing.T) {
	matchings := &matchingFake{records: map[int64]*pgrepo.MatchingRecord{}}
	teams := &teamFake{
		records: map[int64]*pgrepo.TeamRecord{},
		waiting: []pgrepo.TeamRecord{
			waitingTeam(1, enums.GenderMale, nil),
			waitingTeam(2, enums.GenderFemale, nil),
			waitingTeam(4, enums.GenderMale, nil),
			waitingTeam(5, enums.GenderFemale, nil),
		},
	}

	svc := NewService(Dependencies{
		Matchings: matchings,
		Teams:     teams,
		Tickets:   newTicketFake(),
	})
	svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}

	pairs, err := svc.RunRound(context.Background())
	if err != nil {
		t.Fatalf("unexpected round error: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected two pairs, got %d", len(pairs))
	}
	if len(matchings.records) != 2 {
		t.Fatalf("expected two persisted matchings, got %d", len(matchings.records))
	}
	for _, record := range matchings.records {
		if record.MaleDecision != enums.DecisionPending || record.FemaleDecision != enums.DecisionPending {
			t.Fatalf("new matchings must start pending, got %+v", record)
		}
	}
}
