package handler

import (
	"net/http"

	"github.com/freshcart/freshcart-api/internal/application/category"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	svc category.Service
}

func NewCategoryHandler(svc category.Service) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCategoryRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusCreated, c)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	cats, err := h.svc.List(r.Context(), activeOnly)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, cats)
}

func (h *CategoryHandler) Tree(w http.ResponseWriter, r *http.Request) {
	roots, err := h.svc.Tree(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, roots)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CategoryHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CategoryHandler) Subcategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Subcategories(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, cats)
}

func (h *CategoryHandler) Path(w http.ResponseWriter, r *http.Request) {
	path, err := h.svc.Path(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, path)
}

func (h *CategoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateCategoryRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	c, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CategoryHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req domain.MoveCategoryRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	c, err := h.svc.Move(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "category deleted")
}
