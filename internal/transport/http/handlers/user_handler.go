package handlers

import (
	"errors"
	"net/http"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/pkg/validate"
	authsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/auth"
	couponsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/coupons"
	matchingsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/matchings"
	usersvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/users"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/transport/http/dto"
	httperrors "github.com/MoonGyu1/MeetingApplicationServer-1/internal/transport/http/errors"
)

type UserHandler struct {
	users     *usersvc.Service
	coupons   *couponsvc.Service
	matchings *matchingsvc.Service
}

func NewUserHandler(users *usersvc.Service, coupons *couponsvc.Service, matchings *matchingsvc.Service) *UserHandler {
	return &UserHandler{users: users, coupons: coupons, matchings: matchings}
}

func (h *UserHandler) MyInfo(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetMyInfo(r.Context(), identity.UserID)
	if err != nil {
		handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MyInfoResponse{
		ID:         user.ID,
		Nickname:   user.Nickname,
		Phone:      user.Phone,
		Gender:     user.Gender,
		Birthday:   user.Birthday,
		AgeRange:   user.AgeRange,
		ReferralID: user.ReferralID,
		Role:       string(user.Role),
	})
}

// TeamID reports 0 when the user has no live application, so the client
// can branch without a 404 round-trip.
func (h *UserHandler) TeamID(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	teamID, err := h.users.GetTeamID(r.Context(), identity.UserID)
	if err != nil {
		handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TeamIDResponse{TeamID: teamID})
}

// MatchingID resolves the user's live team to its matching, 0 when the
// team is still waiting.
func (h *UserHandler) MatchingID(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}
	if h.matchings == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	teamID, err := h.users.GetTeamID(r.Context(), identity.UserID)
	if err != nil {
		handleUserError(w, err)
		return
	}
	if teamID == 0 {
		httperrors.Write(w, http.StatusOK, dto.MatchingIDResponse{MatchingID: 0})
		return
	}

	matchingID, err := h.matchings.GetMatchingIDByTeamID(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, matchingsvc.ErrNotFound) {
			httperrors.Write(w, http.StatusOK, dto.MatchingIDResponse{MatchingID: 0})
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchingIDResponse{MatchingID: matchingID})
}

func (h *UserHandler) TicketCount(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	count, err := h.users.GetTicketCount(r.Context(), identity.UserID)
	if err != nil {
		handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CountResponse{Count: count})
}

func (h *UserHandler) CouponCount(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	count, err := h.users.GetCouponCount(r.Context(), identity.UserID)
	if err != nil {
		handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CountResponse{Count: count})
}

func (h *UserHandler) Coupons(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	records, err := h.users.ListCoupons(r.Context(), identity.UserID)
	if err != nil {
		handleUserError(w, err)
		return
	}

	items := make([]dto.CouponResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, couponResponse(rec))
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *UserHandler) RegisterCoupon(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}
	if h.coupons == nil {
		writeInternal(w, "COUPON_SERVICE_UNAVAILABLE", "coupon service is unavailable")
		return
	}

	var req dto.RegisterCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if !validate.Required(req.Code) {
		writeBadRequest(w, "VALIDATION_ERROR", "code is required")
		return
	}

	rec, err := h.coupons.Register(r.Context(), identity.UserID, req.Code)
	if err != nil {
		handleCouponError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, couponResponse(rec))
}

func (h *UserHandler) Orders(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	records, err := h.users.ListOrders(r.Context(), identity.UserID)
	if err != nil {
		handleUserError(w, err)
		return
	}

	items := make([]dto.OrderSummaryResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.OrderSummaryResponse{
			OrderID:     rec.ID,
			ProductType: rec.ProductType,
			TotalAmount: rec.TotalAmount,
			CouponType:  rec.CouponType,
			CreatedAt:   rec.CreatedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *UserHandler) TeamHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	records, err := h.users.ListTeamHistory(r.Context(), identity.UserID)
	if err != nil {
		handleUserError(w, err)
		return
	}

	items := make([]dto.TeamHistoryItem, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.TeamHistoryItem{
			TeamID:        rec.ID,
			MemberCount:   rec.MemberCount,
			AppliedAt:     rec.CreatedAt,
			ChatCreatedAt: rec.ChatCreatedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *UserHandler) InvitationInfo(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	referralID, invited, err := h.users.GetInvitationInfo(r.Context(), identity.UserID)
	if err != nil {
		handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.InvitationInfoResponse{
		ReferralID:   referralID,
		InvitedCount: invited,
	})
}

func (h *UserHandler) SaveAgreements(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	var req dto.AgreementsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	saved, err := h.users.SaveAgreements(r.Context(), model.Agreement{
		UserID:    identity.UserID,
		Service:   req.Service,
		Privacy:   req.Privacy,
		Age:       req.Age,
		Marketing: req.Marketing,
	})
	if err != nil {
		handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, agreementsResponse(saved))
}

func (h *UserHandler) Agreements(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	rec, err := h.users.GetAgreements(r.Context(), identity.UserID)
	if err != nil {
		handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, agreementsResponse(rec))
}

func (h *UserHandler) authed(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, false
	}
	if h.users == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return authsvc.Identity{}, false
	}
	return identity, true
}

func couponResponse(coupon model.Coupon) dto.CouponResponse {
	return dto.CouponResponse{
		ID:        coupon.ID,
		Code:      coupon.Code,
		Type:      coupon.Type,
		ExpiresAt: coupon.ExpiresAt,
	}
}

func agreementsResponse(agreement model.Agreement) dto.AgreementsResponse {
	return dto.AgreementsResponse{
		Service:   agreement.Service,
		Privacy:   agreement.Privacy,
		Age:       agreement.Age,
		Marketing: agreement.Marketing,
	}
}

func handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usersvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, usersvc.ErrNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func handleCouponError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, couponsvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, couponsvc.ErrNotFound):
		writeNotFound(w, "COUPON_NOT_FOUND", "coupon not found")
	case errors.Is(err, couponsvc.ErrAlreadyBound):
		writeConflict(w, "COUPON_ALREADY_REGISTERED", "coupon is already registered")
	case errors.Is(err, couponsvc.ErrExpired):
		writeForbidden(w, "COUPON_EXPIRED", "coupon has expired")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
