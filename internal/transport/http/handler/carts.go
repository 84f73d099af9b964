package handler

import (
	"net/http"

	"github.com/freshcart/freshcart-api/internal/application/cart"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

func userID(r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	c, err := h.svc.Active(r.Context(), uid)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	var req domain.AddCartItemRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	c, err := h.svc.AddItem(r.Context(), uid, req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	var req domain.UpdateCartItemRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	c, err := h.svc.UpdateItem(r.Context(), uid, chi.URLParam(r, "productID"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	c, err := h.svc.RemoveItem(r.Context(), uid, chi.URLParam(r, "productID"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	if err := h.svc.Clear(r.Context(), uid); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "cart cleared")
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	c, err := h.svc.Checkout(r.Context(), uid)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}
