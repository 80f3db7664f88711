package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
	adminsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/admin"
	matchingsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/matchings"
	teamsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/teams"
	usersvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/users"
)

type adminMatchingsStub struct {
	succeeded []model.Matching
	deleted   []int64
	stamped   []int64
}

func (s *adminMatchingsStub) ListByStatus(_ context.Context, status enums.MatchingStatus) ([]model.Matching, error) {
	if status != enums.MatchingStatusSucceeded {
		return nil, matchingsvc.ErrInvalidInput
	}
	return s.succeeded, nil
}

func (s *adminMatchingsStub) Delete(_ context.Context, matchingID int64) error {
	for _, rec := range s.succeeded {
		if rec.ID == matchingID {
			s.deleted = append(s.deleted, matchingID)
			return nil
		}
	}
	return matchingsvc.ErrNotFound
}

func (s *adminMatchingsStub) SaveChatCreatedAt(_ context.Context, matchingID int64) error {
	s.stamped = append(s.stamped, matchingID)
	return nil
}

func (s *adminMatchingsStub) ListRefuseReasons(context.Context, int) ([]model.RefuseReason, error) {
	return []model.RefuseReason{
		{ID: 1, MatchingID: 7, TeamID: 2, Content: "schedule conflict"},
	}, nil
}

type adminTeamsStub struct {
	counts teamsvc.ApplyCounts
}

func (s *adminTeamsStub) GetApplyCounts(context.Context) (teamsvc.ApplyCounts, error) {
	return s.counts, nil
}

type adminUsersStub struct {
	blacklisted map[int64]bool
}

func (s *adminUsersStub) SetBlacklisted(_ context.Context, userID int64, blacklisted bool) error {
	if _, ok := s.blacklisted[userID]; !ok {
		return usersvc.ErrNotFound
	}
	s.blacklisted[userID] = blacklisted
	return nil
}

func adminRouter(h *AdminHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/admin/matchings", h.Matchings)
	r.Delete("/admin/matchings/{matchingId}", h.DeleteMatching)
	r.Put("/admin/matchings/{matchingId}/chat", h.SaveChatCreatedAt)
	r.Get("/admin/refuse-reasons", h.RefuseReasons)
	r.Get("/admin/teams/counts", h.TeamCounts)
	r.Put("/admin/users/{userId}/blacklist", h.SetBlacklisted)
	return r
}

func newAdminHandler(matchings *adminMatchingsStub, teams *adminTeamsStub) *AdminHandler {
	return newAdminHandlerWithUsers(matchings, teams, &adminUsersStub{})
}

func newAdminHandlerWithUsers(matchings *adminMatchingsStub, teams *adminTeamsStub, users *adminUsersStub) *AdminHandler {
	if teams == nil {
		teams = &adminTeamsStub{}
	}
	return NewAdminHandler(adminsvc.NewService(adminsvc.Dependencies{
		Matchings: matchings,
		Teams:     teams,
		Users:     users,
	}))
}

func TestAdminMatchingsListsSucceeded(t *testing.T) {
	stub := &adminMatchingsStub{succeeded: []model.Matching{
		{ID: 7, MaleTeamID: 1, FemaleTeamID: 2, CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	}}
	h := newAdminHandler(stub, nil)

	rr := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/matchings?status=succeeded", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var items []struct {
		MatchingID   int64 `json:"matching_id"`
		MaleTeamID   int64 `json:"male_team_id"`
		FemaleTeamID int64 `json:"female_team_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 1 || items[0].MatchingID != 7 || items[0].MaleTeamID != 1 || items[0].FemaleTeamID != 2 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestAdminMatchingsRejectsUnknownStatus(t *testing.T) {
	h := newAdminHandler(&adminMatchingsStub{}, nil)

	rr := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/matchings?status=pending", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAdminDeleteMatchingUnknownIDIsNotFound(t *testing.T) {
	h := newAdminHandler(&adminMatchingsStub{}, nil)

	rr := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/admin/matchings/99", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
}

func TestAdminDeleteMatchingRemovesIt(t *testing.T) {
	stub := &adminMatchingsStub{succeeded: []model.Matching{{ID: 7, MaleTeamID: 1, FemaleTeamID: 2}}}
	h := newAdminHandler(stub, nil)

	rr := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/admin/matchings/7", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
	if len(stub.deleted) != 1 || stub.deleted[0] != 7 {
		t.Fatalf("matching not deleted: %v", stub.deleted)
	}
}

func TestAdminTeamCounts(t *testing.T) {
	h := newAdminHandler(&adminMatchingsStub{}, &adminTeamsStub{counts: teamsvc.ApplyCounts{Male: 3, Female: 4, Waiting: 7}})

	rr := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/teams/counts", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		Male    int `json:"male"`
		Female  int `json:"female"`
		Waiting int `json:"waiting"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Male != 3 || payload.Female != 4 || payload.Waiting != 7 {
		t.Fatalf("unexpected counts: %+v", payload)
	}
}

func TestAdminBlacklistTogglesUser(t *testing.T) {
	users := &adminUsersStub{blacklisted: map[int64]bool{42: false}}
	h := newAdminHandlerWithUsers(&adminMatchingsStub{}, nil, users)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/users/42/blacklist", strings.NewReader(`{"blacklisted":true}`))
	adminRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
	if !users.blacklisted[42] {
		t.Fatal("user not blacklisted")
	}
}

func TestAdminBlacklistUnknownUserIsNotFound(t *testing.T) {
	h := newAdminHandlerWithUsers(&adminMatchingsStub{}, nil, &adminUsersStub{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/users/42/blacklist", strings.NewReader(`{"blacklisted":true}`))
	adminRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
}

func TestAdminRefuseReasonsRejectsBadLimit(t *testing.T) {
	h := newAdminHandler(&adminMatchingsStub{}, nil)

	rr := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/refuse-reasons?limit=zero", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}
