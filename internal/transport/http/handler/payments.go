package handler

import (
	"net/http"

	"github.com/freshcart/freshcart-api/internal/application/payment"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

type PaymentHandler struct {
	svc payment.Service
}

func NewPaymentHandler(svc payment.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	var req domain.CreatePaymentRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	p, err := h.svc.Create(r.Context(), uid, req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	isAdmin := claims.Role == domain.RoleAdmin
	p, err := h.svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "id"), isAdmin)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	payments, err := h.svc.ListMine(r.Context(), uid)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, payments)
}

func (h *PaymentHandler) Capture(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Capture(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req domain.RefundPaymentRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	p, err := h.svc.Refund(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}
