package handlers

import (
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/orgabay12/epxe/internal/api/middleware"
)

// SummaryHandler serves the budget-vs-spend view.
type SummaryHandler struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(repo Repository, log zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{repo: repo, log: log, now: time.Now}
}

// Summary handles GET /api/summary. The range is either ?month=YYYY-MM or an
// explicit ?from=YYYY-MM-DD&to=YYYY-MM-DD half-open interval; with neither,
// the current calendar month is used.
func (h *SummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, to, errMsg := summaryRange(query.Get("month"), query.Get("from"), query.Get("to"), h.now())
	if errMsg != "" {
		middleware.WriteError(w, http.StatusBadRequest, errMsg)
		return
	}

	rows, err := h.repo.SpendByCategory(r.Context(), from, to)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build summary")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build summary")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"from":       from,
		"to":         to,
		"categories": rows,
	})
}

func summaryRange(month, from, to string, now time.Time) (string, string, string) {
	switch {
	case month != "":
		start, err := time.Parse("2006-01", month)
		if err != nil {
			return "", "", "Invalid month, expected YYYY-MM"
		}
		return start.Format("2006-01-02"), start.AddDate(0, 1, 0).Format("2006-01-02"), ""
	case from != "" || to != "":
		if _, err := civil.ParseDate(from); err != nil {
			return "", "", "Invalid from date"
		}
		if _, err := civil.ParseDate(to); err != nil {
			return "", "", "Invalid to date"
		}
		return from, to, ""
	default:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start.Format("2006-01-02"), start.AddDate(0, 1, 0).Format("2006-01-02"), ""
	}
}
