package handler

import (
	"net/http"

	"github.com/msomdec/finance-tracker/internal/service"
)

// BudgetHandler serves /api/budgets.
type BudgetHandler struct {
	budgets *service.BudgetService
}

func NewBudgetHandler(budgets *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// HandleList: GET /api/budgets?month&year
func (h *BudgetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	month, err := queryInt(r, "month")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	budgets, err := h.budgets.List(r.Context(), p, month, year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTOs(budgets))
}

// HandleGet: GET /api/budgets/{id}
func (h *BudgetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	b, err := h.budgets.Get(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(b))
}

// HandleCreateOrUpdate: POST /api/budgets. A second post for the same
// category and month replaces the amount.
func (h *BudgetHandler) HandleCreateOrUpdate(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req budgetRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	b, err := h.budgets.CreateOrUpdate(r.Context(), p, service.BudgetInput{
		CategoryID: req.CategoryID,
		Amount:     req.Amount.money(),
		Month:      req.Month,
		Year:       req.Year,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(b))
}

// HandleDelete: DELETE /api/budgets/{id}
func (h *BudgetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.budgets.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
