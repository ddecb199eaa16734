package handler

import (
	"net/http"

	"github.com/msomdec/finance-tracker/internal/domain"
	"github.com/msomdec/finance-tracker/internal/service"
)

// CategoryHandler serves /api/categories.
type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// HandleList: GET /api/categories?type=EXPENSE
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	typ, err := queryType(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	categories, err := h.categories.List(r.Context(), p, typ)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTOs(categories))
}

// HandleGet: GET /api/categories/{id}
func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	c, err := h.categories.Get(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTO(c))
}

// HandleCreate: POST /api/categories {"name":"...","type":"EXPENSE"}
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req createCategoryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	c, err := h.categories.Create(r.Context(), p, service.CategoryInput{
		Name: req.Name,
		Type: domain.TransactionType(req.Type),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryDTO(c))
}

// HandleUpdate: PUT /api/categories/{id}. Omitted fields are unchanged.
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req updateCategoryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	patch := service.CategoryPatch{Name: req.Name}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		patch.Type = &t
	}

	c, err := h.categories.Update(r.Context(), p, id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTO(c))
}

// HandleDelete: DELETE /api/categories/{id}
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.categories.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
