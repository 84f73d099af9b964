package handler

import (
	"net/http"

	"github.com/freshcart/freshcart-api/internal/application/review"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

type ReviewHandler struct {
	svc review.Service
}

func NewReviewHandler(svc review.Service) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	var req domain.CreateReviewRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	rev, err := h.svc.Create(r.Context(), uid, req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusCreated, rev)
}

func (h *ReviewHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	revs, err := h.svc.ListApproved(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, revs)
}

func (h *ReviewHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	revs, err := h.svc.ListPending(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, revs)
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	rev, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, rev)
}

func (h *ReviewHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	var req domain.ModerateReviewRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	rev, err := h.svc.Moderate(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, rev)
}

func (h *ReviewHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Helpful bool `json:"helpful"`
	}
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	rev, err := h.svc.Vote(r.Context(), chi.URLParam(r, "id"), req.Helpful)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, rev)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	isAdmin := claims.Role == domain.RoleAdmin
	if err := h.svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "id"), isAdmin); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "review deleted")
}
