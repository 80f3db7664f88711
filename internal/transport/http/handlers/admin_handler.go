package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	adminsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/admin"
	matchingsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/matchings"
	usersvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/users"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/transport/http/dto"
	httperrors "github.com/MoonGyu1/MeetingApplicationServer-1/internal/transport/http/errors"
)

const defaultRefuseReasonLimit = 100

type AdminHandler struct {
	service *adminsvc.Service
}

func NewAdminHandler(service *adminsvc.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Matchings(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	records, err := h.service.MatchingsByStatus(r.Context(), status)
	if err != nil {
		handleAdminError(w, err)
		return
	}

	items := make([]dto.AdminMatchingResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.AdminMatchingResponse{
			MatchingID:    rec.ID,
			MaleTeamID:    rec.MaleTeamID,
			FemaleTeamID:  rec.FemaleTeamID,
			ChatCreatedAt: rec.ChatCreatedAt,
			CreatedAt:     rec.CreatedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *AdminHandler) DeleteMatching(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	matchingID, ok := pathID(r, "matchingId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid matching id")
		return
	}

	if err := h.service.DeleteMatching(r.Context(), matchingID); err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminActionResponse{OK: true})
}

// SaveChatCreatedAt stamps the moment the open-chat room was handed to a
// succeeded matching. Idempotent: the first stamp wins.
func (h *AdminHandler) SaveChatCreatedAt(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	matchingID, ok := pathID(r, "matchingId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid matching id")
		return
	}

	if err := h.service.SaveChatCreatedAt(r.Context(), matchingID); err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminActionResponse{OK: true})
}

func (h *AdminHandler) RefuseReasons(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	limit := defaultRefuseReasonLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.service.RefuseReasons(r.Context(), limit)
	if err != nil {
		handleAdminError(w, err)
		return
	}

	items := make([]dto.AdminRefuseReasonResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.AdminRefuseReasonResponse{
			MatchingID: rec.MatchingID,
			TeamID:     rec.TeamID,
			Content:    rec.Content,
			CreatedAt:  rec.CreatedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *AdminHandler) TeamCounts(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	counts, err := h.service.ApplyCounts(r.Context())
	if err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TeamCountsResponse{
		Male:    counts.Male,
		Female:  counts.Female,
		Waiting: counts.Waiting,
	})
}

// SetBlacklisted toggles whether a user is skipped by the matching round.
func (h *AdminHandler) SetBlacklisted(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	userID, ok := pathID(r, "userId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	var req dto.BlacklistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.service.SetBlacklisted(r.Context(), userID, req.Blacklisted); err != nil {
		handleAdminUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminActionResponse{OK: true})
}

func handleAdminUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usersvc.ErrNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func handleAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchingsvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, matchingsvc.ErrNotFound):
		writeNotFound(w, "MATCHING_NOT_FOUND", "matching not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
