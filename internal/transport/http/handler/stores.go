package handler

import (
	"encoding/json"
	"net/http"

	storeapp "github.com/freshcart/freshcart-api/internal/application/store"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

type StoreHandler struct {
	svc storeapp.Service
}

func NewStoreHandler(svc storeapp.Service) *StoreHandler {
	return &StoreHandler{svc: svc}
}

func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStoreRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	st, err := h.svc.Create(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusCreated, st)
}

func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, stores)
}

func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, st)
}

func (h *StoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateStoreRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	st, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, st)
}

func (h *StoreHandler) SetHours(w http.ResponseWriter, r *http.Request) {
	var req map[string]domain.StoreHours
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, domain.ErrBadRequest)
		return
	}
	st, err := h.svc.SetHours(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, st)
}

func (h *StoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "store deleted")
}
