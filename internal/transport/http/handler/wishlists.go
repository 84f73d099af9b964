package handler

import (
	"net/http"

	"github.com/freshcart/freshcart-api/internal/application/wishlist"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

type WishlistHandler struct {
	svc wishlist.Service
}

func NewWishlistHandler(svc wishlist.Service) *WishlistHandler {
	return &WishlistHandler{svc: svc}
}

func (h *WishlistHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	var req domain.CreateWishlistRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	wl, err := h.svc.Create(r.Context(), uid, req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusCreated, wl)
}

func (h *WishlistHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	lists, err := h.svc.ListMine(r.Context(), uid)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, lists)
}

func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	wl, err := h.svc.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, wl)
}

func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	var req domain.AddWishlistItemRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	wl, err := h.svc.AddItem(r.Context(), uid, chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, wl)
}

func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	wl, err := h.svc.RemoveItem(r.Context(), uid, chi.URLParam(r, "id"), chi.URLParam(r, "productID"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, wl)
}

func (h *WishlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	if err := h.svc.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "wishlist deleted")
}
