package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/auth"
	couponsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/coupons"
	ordersvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/orders"
	paymentsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/payments"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/transport/http/dto"
	httperrors "github.com/MoonGyu1/MeetingApplicationServer-1/internal/transport/http/errors"
)

type OrderHandler struct {
	service *ordersvc.Service
}

func NewOrderHandler(service *ordersvc.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "ORDER_SERVICE_UNAVAILABLE", "order service is unavailable")
		return
	}

	var req dto.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	order, err := h.service.Create(r.Context(), identity.UserID, ordersvc.CreateInput{
		ProductType:    req.ProductType,
		Price:          req.Price,
		DiscountAmount: req.DiscountAmount,
		TotalAmount:    req.TotalAmount,
		CouponID:       req.CouponID,
		TossPaymentKey: req.TossPaymentKey,
		TossOrderID:    req.TossOrderID,
		TossOrderName:  req.TossOrderName,
	})
	if err != nil {
		handleOrderError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.OrderResponse{
		OrderID:     order.ID,
		ProductType: order.ProductType,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	})
}

func handleOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ordersvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, ordersvc.ErrUnknownProduct):
		writeBadRequest(w, "UNKNOWN_PRODUCT", "unknown product type")
	case errors.Is(err, ordersvc.ErrAmountMismatch):
		writeBadRequest(w, "AMOUNT_MISMATCH", "order amounts do not match the product")
	case errors.Is(err, couponsvc.ErrNotFound):
		writeNotFound(w, "COUPON_NOT_FOUND", "coupon not found")
	case errors.Is(err, couponsvc.ErrForbidden):
		writeForbidden(w, "COUPON_FORBIDDEN", "coupon belongs to another user")
	case errors.Is(err, couponsvc.ErrAlreadyUsed):
		writeConflict(w, "COUPON_ALREADY_USED", "coupon has already been used")
	case errors.Is(err, couponsvc.ErrExpired):
		writeForbidden(w, "COUPON_EXPIRED", "coupon has expired")
	case errors.Is(err, couponsvc.ErrNotApplicable):
		writeBadRequest(w, "COUPON_NOT_APPLICABLE", "coupon cannot be applied to this product")
	case errors.Is(err, paymentsvc.ErrPaymentRejected):
		httperrors.Write(w, http.StatusBadGateway, httperrors.APIError{
			Code:    "PAYMENT_REJECTED",
			Message: "payment gateway rejected the confirmation",
		})
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
