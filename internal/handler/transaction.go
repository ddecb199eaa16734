package handler

import (
	"net/http"

	"github.com/msomdec/finance-tracker/internal/domain"
	"github.com/msomdec/finance-tracker/internal/service"
)

// TransactionHandler serves /api/transactions.
type TransactionHandler struct {
	transactions *service.TransactionService
}

func NewTransactionHandler(transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// HandleList: GET /api/transactions?page&size&startDate&endDate&categoryId&type
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	filter, err := transactionFilterFromQuery(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	page, err := h.transactions.List(r.Context(), p, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionPageDTO(page))
}

func transactionFilterFromQuery(r *http.Request) (domain.TransactionFilter, error) {
	var (
		f   domain.TransactionFilter
		err error
	)
	page, err := queryInt(r, "page")
	if err != nil {
		return f, err
	}
	if page != nil {
		f.Page = *page
	}
	size, err := queryInt(r, "size")
	if err != nil {
		return f, err
	}
	if size != nil {
		f.Size = *size
	}
	if f.From, err = queryDate(r, "startDate"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(r, "endDate"); err != nil {
		return f, err
	}
	if f.CategoryID, err = queryInt64(r, "categoryId"); err != nil {
		return f, err
	}
	if f.Type, err = queryType(r); err != nil {
		return f, err
	}
	return f, nil
}

// HandleGet: GET /api/transactions/{id}
func (h *TransactionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	tx, err := h.transactions.Get(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(tx))
}

// HandleCreate: POST /api/transactions
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req createTransactionRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	date, err := parseDate(req.TransactionDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "TransactionDate must be a date in YYYY-MM-DD format.")
		return
	}

	tx, err := h.transactions.Create(r.Context(), p, service.TransactionInput{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount.money(),
		Description: req.Description,
		Type:        domain.TransactionType(req.Type),
		Date:        date,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

// HandleUpdate: PUT /api/transactions/{id}. Omitted fields are unchanged.
func (h *TransactionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req updateTransactionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	patch := service.TransactionPatch{
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if req.Amount != nil {
		m := req.Amount.money()
		patch.Amount = &m
	}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		patch.Type = &t
	}
	if req.TransactionDate != nil {
		d, err := parseDate(*req.TransactionDate)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "TransactionDate must be a date in YYYY-MM-DD format.")
			return
		}
		patch.Date = &d
	}

	tx, err := h.transactions.Update(r.Context(), p, id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(tx))
}

// HandleDelete: DELETE /api/transactions/{id}
func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.transactions.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
