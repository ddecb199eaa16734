package handler

import (
	"net/http"
	"time"

	"github.com/msomdec/finance-tracker/internal/service"
)

type SummaryHandler struct {
	summary *service.SummaryService
	now     func() time.Time
}

func NewSummaryHandler(summary *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summary: summary, now: time.Now}
}

// HandleMonthly: GET /api/summary?month&year. Missing values default to the
// current month in UTC.
func (h *SummaryHandler) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	now := h.now().UTC()

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
	m, y := int(now.Month()), now.Year()
	if month != nil {
		m = *month
	}
	if year != nil {
		y = *year
	}

	s, err := h.summary.Monthly(r.Context(), p, m, y)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(s))
}
