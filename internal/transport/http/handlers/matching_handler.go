package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/pkg/validate"
	authsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/auth"
	matchingsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/matchings"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/transport/http/dto"
	httperrors "github.com/MoonGyu1/MeetingApplicationServer-1/internal/transport/http/errors"
)

type MatchingHandler struct {
	service *matchingsvc.Service
}

func NewMatchingHandler(service *matchingsvc.Service) *MatchingHandler {
	return &MatchingHandler{service: service}
}

// GetInfo returns the matching from the caller's side: their own team under
// "ourteam" and the other side under "partner".
func (h *MatchingHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	matchingID, ok := pathID(r, "matchingId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid matching id")
		return
	}

	info, err := h.service.GetInfo(r.Context(), identity.UserID, matchingID)
	if err != nil {
		handleMatchingError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchingInfoResponse{
		MatchingID:      info.MatchingID,
		OurTeam:         info.OurTeam,
		PartnerTeam:     info.PartnerTeam,
		OurDecision:     string(info.OurDecision),
		PartnerDecision: string(info.PartnerDecision),
		ChatCreatedAt:   info.ChatCreatedAt,
		CreatedAt:       info.CreatedAt,
	})
}

func (h *MatchingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	matchingID, ok := pathID(r, "matchingId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid matching id")
		return
	}
	teamID, ok := pathID(r, "teamId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid team id")
		return
	}

	if err := h.service.Accept(r.Context(), identity.UserID, matchingID, teamID); err != nil {
		handleMatchingError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DecisionResponse{OK: true})
}

func (h *MatchingHandler) Refuse(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	matchingID, ok := pathID(r, "matchingId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid matching id")
		return
	}
	teamID, ok := pathID(r, "teamId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid team id")
		return
	}

	if err := h.service.Refuse(r.Context(), matchingID, teamID); err != nil {
		handleMatchingError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DecisionResponse{OK: true})
}

func (h *MatchingHandler) CreateRefuseReason(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	matchingID, ok := pathID(r, "matchingId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid matching id")
		return
	}
	teamID, ok := pathID(r, "teamId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid team id")
		return
	}

	var req dto.RefuseReasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if _, err := h.service.CreateRefuseReason(r.Context(), matchingID, teamID, req.Content); err != nil {
		handleMatchingError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.RefuseReasonResponse{OK: true})
}

func handleMatchingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchingsvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, matchingsvc.ErrNotFound):
		writeNotFound(w, "MATCHING_NOT_FOUND", "matching not found")
	case errors.Is(err, matchingsvc.ErrAlreadyResponded):
		writeConflict(w, "ALREADY_RESPONDED", "this team has already responded")
	case errors.Is(err, matchingsvc.ErrPartnerRefused):
		writeConflict(w, "PARTNER_REFUSED", "the partner team has refused the matching")
	case errors.Is(err, matchingsvc.ErrNoTicket):
		writeConflict(w, "NO_TICKET", "no usable ticket")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || !validate.PositiveID(id) {
		return 0, false
	}
	return id, true
}
