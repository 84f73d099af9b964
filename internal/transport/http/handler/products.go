package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/freshcart/freshcart-api/internal/application/catalog"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

const maxImageUploadBytes = 5 << 20

type ProductHandler struct {
	svc catalog.Service
}

func NewProductHandler(svc catalog.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListByCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, products)
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := h.svc.Search(r.Context(), term, int32(limit))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, products)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProductRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// UploadImage accepts one multipart file under the "image" field, with
// optional "alt" and "primary" fields.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		handleError(w, fmt.Errorf("bad multipart form: %w", domain.ErrBadRequest))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		handleError(w, fmt.Errorf("image file required: %w", domain.ErrBadRequest))
		return
	}
	defer file.Close()

	primary := r.FormValue("primary") == "true"
	p, err := h.svc.AddImage(r.Context(), chi.URLParam(r, "id"), header.Filename, file, r.FormValue("alt"), primary)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

func (h *ProductHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		handleError(w, fmt.Errorf("image key required: %w", domain.ErrBadRequest))
		return
	}
	p, err := h.svc.RemoveImage(r.Context(), chi.URLParam(r, "id"), key)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "product deleted")
}
