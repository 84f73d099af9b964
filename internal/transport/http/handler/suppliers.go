package handler

import (
	"net/http"

	"github.com/freshcart/freshcart-api/internal/application/supplier"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

type SupplierHandler struct {
	svc supplier.Service
}

func NewSupplierHandler(svc supplier.Service) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSupplierRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	s, err := h.svc.Create(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusCreated, s)
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, suppliers)
}

func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, s)
}

func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateSupplierRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	s, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, s)
}

func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "supplier deleted")
}
