package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
	pgrepo "github.com/MoonGyu1/MeetingApplicationServer-1/internal/repo/postgres"
	authsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/auth"
	matchingsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/matchings"
	"github.com/jackc/pgx/v5"
)

type matchingStoreStub struct {
	matching pgrepo.MatchingRecord
	found    bool
	reasons  []pgrepo.RefuseReasonRecord
}

func (s *matchingStoreStub) Create(context.Context, pgx.Tx, int64, int64) (pgrepo.MatchingRecord, error) {
	return pgrepo.MatchingRecord{}, nil
}

func (s *matchingStoreStub) GetByID(_ context.Context, matchingID int64) (pgrepo.MatchingRecord, error) {
	if !s.found || s.matching.ID != matchingID {
		return pgrepo.MatchingRecord{}, pgrepo.ErrMatchingNotFound
	}
	return s.matching, nil
}

func (s *matchingStoreStub) GetForUpdate(_ context.Context, _ pgx.Tx, matchingID int64) (pgrepo.MatchingRecord, error) {
	return s.GetByID(context.Background(), matchingID)
}

func (s *matchingStoreStub) GetByTeamID(context.Context, int64) (pgrepo.MatchingRecord, error) {
	return pgrepo.MatchingRecord{}, pgrepo.ErrMatchingNotFound
}

func (s *matchingStoreStub) SetDecision(context.Context, pgx.Tx, int64, enums.Gender, enums.Decision, *int64) error {
	return nil
}

func (s *matchingStoreStub) ClearTicket(context.Context, pgx.Tx, int64, enums.Gender) error {
	return nil
}

func (s *matchingStoreStub) SetChatCreatedAt(context.Context, int64, time.Time) error { return nil }

func (s *matchingStoreStub) SoftDelete(context.Context, pgx.Tx, int64) error { return nil }

func (s *matchingStoreStub) ListBothResponded(context.Context) ([]pgrepo.MatchingRecord, error) {
	return nil, nil
}

type teamStoreStub struct {
	teams map[int64]pgrepo.TeamRecord
}

func (s *teamStoreStub) GetByID(_ context.Context, teamID int64) (pgrepo.TeamRecord, error) {
	team, ok := s.teams[teamID]
	if !ok {
		return pgrepo.TeamRecord{}, pgrepo.ErrTeamNotFound
	}
	return team, nil
}

func (s *teamStoreStub) SoftDelete(context.Context, pgx.Tx, int64) error { return nil }

func (s *teamStoreStub) ListWaiting(context.Context, int) ([]pgrepo.TeamRecord, error) {
	return nil, nil
}

type refuseReasonStoreStub struct {
	created []pgrepo.RefuseReasonRecord
}

func (s *refuseReasonStoreStub) Create(_ context.Context, matchingID, teamID int64, content string) (pgrepo.RefuseReasonRecord, error) {
	rec := pgrepo.RefuseReasonRecord{ID: int64(len(s.created) + 1), MatchingID: matchingID, TeamID: teamID, Content: content}
	s.created = append(s.created, rec)
	return rec, nil
}

func (s *refuseReasonStoreStub) List(context.Context, int) ([]pgrepo.RefuseReasonRecord, error) {
	return s.created, nil
}

func negotiationService(matchings *matchingStoreStub, teams *teamStoreStub, reasons *refuseReasonStoreStub) *matchingsvc.Service {
	if reasons == nil {
		reasons = &refuseReasonStoreStub{}
	}
	return matchingsvc.NewService(matchingsvc.Dependencies{
		Matchings:     matchings,
		Teams:         teams,
		RefuseReasons: reasons,
	})
}

func authedRequest(method, target string, body []byte, userID int64) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID:   userID,
		Nickname: "tester",
		Role:     "user",
	}))
}

func matchingRouter(h *MatchingHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/matchings/{matchingId}", h.GetInfo)
	r.Put("/matchings/{matchingId}/teams/{teamId}/accept", h.Accept)
	r.Put("/matchings/{matchingId}/teams/{teamId}/refuse", h.Refuse)
	r.Post("/matchings/{matchingId}/teams/{teamId}/refuse-reason", h.CreateRefuseReason)
	return r
}

func TestMatchingGetInfoReturnsCallersSide(t *testing.T) {
	matchings := &matchingStoreStub{
		found: true,
		matching: pgrepo.MatchingRecord{
			ID:             7,
			MaleTeamID:     1,
			FemaleTeamID:   2,
			MaleDecision:   enums.DecisionPending,
			FemaleDecision: enums.DecisionAccepted,
		},
	}
	teams := &teamStoreStub{teams: map[int64]pgrepo.TeamRecord{
		1: {ID: 1, OwnerUserID: 11, Gender: enums.GenderMale},
		2: {ID: 2, OwnerUserID: 22, Gender: enums.GenderFemale},
	}}
	h := NewMatchingHandler(negotiationService(matchings, teams, nil))

	rr := httptest.NewRecorder()
	matchingRouter(h).ServeHTTP(rr, authedRequest(http.MethodGet, "/matchings/7", nil, 22))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		MatchingID int64 `json:"matching_id"`
		OurTeam    struct {
			ID int64 `json:"id"`
		} `json:"ourteam"`
		Partner struct {
			ID int64 `json:"id"`
		} `json:"partner"`
		OurDecision     string `json:"our_decision"`
		PartnerDecision string `json:"partner_decision"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.MatchingID != 7 {
		t.Fatalf("unexpected matching id: got %d", payload.MatchingID)
	}
	if payload.OurTeam.ID != 2 || payload.Partner.ID != 1 {
		t.Fatalf("sides not relative to caller: ourteam=%d partner=%d", payload.OurTeam.ID, payload.Partner.ID)
	}
	if payload.OurDecision != "accepted" || payload.PartnerDecision != "pending" {
		t.Fatalf("unexpected decisions: our=%q partner=%q", payload.OurDecision, payload.PartnerDecision)
	}
}

func TestMatchingGetInfoForeignUserIsNotFound(t *testing.T) {
	matchings := &matchingStoreStub{
		found:    true,
		matching: pgrepo.MatchingRecord{ID: 7, MaleTeamID: 1, FemaleTeamID: 2},
	}
	teams := &teamStoreStub{teams: map[int64]pgrepo.TeamRecord{
		1: {ID: 1, OwnerUserID: 11, Gender: enums.GenderMale},
		2: {ID: 2, OwnerUserID: 22, Gender: enums.GenderFemale},
	}}
	h := NewMatchingHandler(negotiationService(matchings, teams, nil))

	rr := httptest.NewRecorder()
	matchingRouter(h).ServeHTTP(rr, authedRequest(http.MethodGet, "/matchings/7", nil, 99))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "MATCHING_NOT_FOUND" {
		t.Fatalf("unexpected error code: got %q", payload.Code)
	}
}

func TestMatchingGetInfoRequiresAuth(t *testing.T) {
	h := NewMatchingHandler(negotiationService(&matchingStoreStub{}, &teamStoreStub{}, nil))

	rr := httptest.NewRecorder()
	matchingRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/matchings/7", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestMatchingGetInfoRejectsBadID(t *testing.T) {
	h := NewMatchingHandler(negotiationService(&matchingStoreStub{}, &teamStoreStub{}, nil))

	rr := httptest.NewRecorder()
	matchingRouter(h).ServeHTTP(rr, authedRequest(http.MethodGet, "/matchings/abc", nil, 1))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreateRefuseReasonPersistsContent(t *testing.T) {
	matchings := &matchingStoreStub{
		found:    true,
		matching: pgrepo.MatchingRecord{ID: 7, MaleTeamID: 1, FemaleTeamID: 2},
	}
	teams := &teamStoreStub{teams: map[int64]pgrepo.TeamRecord{
		1: {ID: 1, OwnerUserID: 11, Gender: enums.GenderMale},
		2: {ID: 2, OwnerUserID: 22, Gender: enums.GenderFemale},
	}}
	reasons := &refuseReasonStoreStub{}
	h := NewMatchingHandler(negotiationService(matchings, teams, reasons))

	body, err := json.Marshal(map[string]any{"content": "schedule conflict"})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	rr := httptest.NewRecorder()
	matchingRouter(h).ServeHTTP(rr, authedRequest(http.MethodPost, "/matchings/7/teams/2/refuse-reason", body, 22))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusCreated)
	}
	if len(reasons.created) != 1 {
		t.Fatalf("unexpected reason count: got %d want 1", len(reasons.created))
	}
	if reasons.created[0].Content != "schedule conflict" || reasons.created[0].TeamID != 2 {
		t.Fatalf("unexpected persisted reason: %+v", reasons.created[0])
	}
}

func TestCreateRefuseReasonRejectsForeignTeam(t *testing.T) {
	matchings := &matchingStoreStub{
		found:    true,
		matching: pgrepo.MatchingRecord{ID: 7, MaleTeamID: 1, FemaleTeamID: 2},
	}
	teams := &teamStoreStub{teams: map[int64]pgrepo.TeamRecord{
		1: {ID: 1, OwnerUserID: 11, Gender: enums.GenderMale},
		2: {ID: 2, OwnerUserID: 22, Gender: enums.GenderFemale},
	}}
	h := NewMatchingHandler(negotiationService(matchings, teams, nil))

	body, err := json.Marshal(map[string]any{"content": "not interested"})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	rr := httptest.NewRecorder()
	matchingRouter(h).ServeHTTP(rr, authedRequest(http.MethodPost, "/matchings/7/teams/3/refuse-reason", body, 22))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
}
