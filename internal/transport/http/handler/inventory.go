package handler

import (
	"net/http"

	"github.com/freshcart/freshcart-api/internal/application/inventory"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler struct {
	svc inventory.Service
}

func NewInventoryHandler(svc inventory.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInventoryRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	rec, err := h.svc.Create(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusCreated, rec)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}

func (h *InventoryHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListByProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, recs)
}

func (h *InventoryHandler) ListByWarehouse(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListByWarehouse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, recs)
}

func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.LowStock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, recs)
}

func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	var req domain.AdjustStockRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	rec, err := h.svc.Adjust(r.Context(), chi.URLParam(r, "id"), claims.UserID, req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}

func (h *InventoryHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req domain.ReserveStockRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	rec, err := h.svc.Reserve(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}

func (h *InventoryHandler) Release(w http.ResponseWriter, r *http.Request) {
	var req domain.ReserveStockRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	rec, err := h.svc.Release(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}

func (h *InventoryHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req domain.ReserveStockRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	rec, err := h.svc.Commit(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}
