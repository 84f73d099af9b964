package handler

import (
	"net/http"

	"github.com/freshcart/freshcart-api/internal/application/warehouse"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

type WarehouseHandler struct {
	svc warehouse.Service
}

func NewWarehouseHandler(svc warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{svc: svc}
}

func (h *WarehouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWarehouseRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	wh, err := h.svc.Create(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusCreated, wh)
}

func (h *WarehouseHandler) List(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, warehouses)
}

func (h *WarehouseHandler) Get(w http.ResponseWriter, r *http.Request) {
	wh, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, wh)
}

func (h *WarehouseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateWarehouseRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	wh, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, wh)
}

func (h *WarehouseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "warehouse deleted")
}
