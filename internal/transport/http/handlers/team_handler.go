package handlers

import (
	"errors"
	"net/http"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
	authsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/auth"
	teamsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/teams"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/transport/http/dto"
	httperrors "github.com/MoonGyu1/MeetingApplicationServer-1/internal/transport/http/errors"
)

type TeamHandler struct {
	service *teamsvc.Service
}

func NewTeamHandler(service *teamsvc.Service) *TeamHandler {
	return &TeamHandler{service: service}
}

func (h *TeamHandler) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "TEAM_SERVICE_UNAVAILABLE", "team service is unavailable")
		return
	}

	var req dto.CreateTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	created, err := h.service.Register(r.Context(), model.Team{
		OwnerUserID:    identity.UserID,
		Gender:         enums.Gender(req.Gender),
		MemberCount:    req.MemberCount,
		Age:            req.Age,
		Drink:          req.Drink,
		Intro:          req.Intro,
		Universities:   req.Universities,
		Areas:          req.Areas,
		Days:           req.Days,
		Jobs:           req.Jobs,
		Appearances:    req.Appearances,
		Mbtis:          req.Mbtis,
		Fashions:       req.Fashions,
		Roles:          req.Roles,
		Vibes:          req.Vibes,
		PrefAgeMin:     req.PrefAgeMin,
		PrefAgeMax:     req.PrefAgeMax,
		PrefHeightMin:  req.PrefHeightMin,
		PrefHeightMax:  req.PrefHeightMax,
		SameUniversity: req.SameUniversity,
	})
	if err != nil {
		handleTeamError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CreateTeamResponse{TeamID: created.ID})
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "TEAM_SERVICE_UNAVAILABLE", "team service is unavailable")
		return
	}

	teamID, ok := pathID(r, "teamId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid team id")
		return
	}

	team, err := h.service.GetByID(r.Context(), teamID)
	if err != nil {
		handleTeamError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, team)
}

// Counts is public: the waiting-room page shows it before sign-in.
func (h *TeamHandler) Counts(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "TEAM_SERVICE_UNAVAILABLE", "team service is unavailable")
		return
	}

	counts, err := h.service.GetApplyCounts(r.Context())
	if err != nil {
		handleTeamError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TeamCountsResponse{
		Male:    counts.Male,
		Female:  counts.Female,
		Waiting: counts.Waiting,
	})
}

func handleTeamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, teamsvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, teamsvc.ErrNotFound):
		writeNotFound(w, "TEAM_NOT_FOUND", "team not found")
	case errors.Is(err, teamsvc.ErrAlreadyApplied):
		writeConflict(w, "ALREADY_APPLIED", "user already has an active team")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
