package handlers

import (
	"encoding/json"
	"net/http"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/orgabay12/epxe/internal/api/middleware"
	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/normalize"
)

// ExpensesHandler handles expense-related endpoints.
type ExpensesHandler struct {
	repo Repository
	log  zerolog.Logger
}

// NewExpensesHandler creates a new expenses handler.
func NewExpensesHandler(repo Repository, log zerolog.Logger) *ExpensesHandler {
	return &ExpensesHandler{repo: repo, log: log}
}

type expenseRequest struct {
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
}

// validate cleans the request in place and returns an error message, or ""
// when the request is valid. Merchant names go through the same sanitizer as
// extracted transactions so manual entries dedupe against imports.
func (h *ExpensesHandler) validate(r *http.Request, req *expenseRequest) string {
	req.Merchant = normalize.SanitizeMerchant(req.Merchant)
	if req.Merchant == "" {
		return "Merchant is required"
	}
	if req.Amount <= 0 {
		return "Amount must be positive"
	}
	if _, err := civil.ParseDate(req.Date); err != nil {
		return "Date must be in YYYY-MM-DD format"
	}
	if req.Category == "" {
		req.Category = domain.Uncategorized
	}

	names, err := h.repo.CategoryNames(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load categories")
		return "Failed to validate category"
	}
	if !slices.Contains(names, req.Category) {
		return "Unknown category"
	}
	return ""
}

// ListExpenses handles GET /api/expenses
func (h *ExpensesHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	from := query.Get("from")
	to := query.Get("to")

	var expenses []domain.Expense
	var err error
	if from != "" || to != "" {
		if _, perr := civil.ParseDate(from); perr != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid from date")
			return
		}
		if _, perr := civil.ParseDate(to); perr != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid to date")
			return
		}
		expenses, err = h.repo.ExpensesBetween(ctx, from, to)
	} else {
		expenses, err = h.repo.Expenses(ctx)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list expenses")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list expenses")
		return
	}

	if expenses == nil {
		expenses = []domain.Expense{}
	}
	middleware.WriteJSON(w, http.StatusOK, expenses)
}

// CreateExpense handles POST /api/expenses, the manual entry path.
func (h *ExpensesHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := h.validate(r, &req); msg != "" {
		middleware.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	added, err := h.repo.AddExpense(r.Context(), req.Merchant, req.Amount, req.Date, req.Category)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to add expense")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to add expense")
		return
	}
	if !added {
		middleware.WriteError(w, http.StatusConflict, "Expense already recorded")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, req)
}

// UpdateExpense handles PUT /api/expenses/{id}
func (h *ExpensesHandler) UpdateExpense(w http.ResponseWriter, r *http.Request, id int64) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := h.validate(r, &req); msg != "" {
		middleware.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.repo.UpdateExpense(r.Context(), id, req.Merchant, req.Amount, req.Date, req.Category); err != nil {
		h.log.Error().Err(err).Int64("expense_id", id).Msg("Failed to update expense")
		middleware.WriteError(w, http.StatusNotFound, "Expense not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, req)
}

// DeleteExpense handles DELETE /api/expenses/{id}
func (h *ExpensesHandler) DeleteExpense(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.repo.DeleteExpense(r.Context(), id); err != nil {
		h.log.Error().Err(err).Int64("expense_id", id).Msg("Failed to delete expense")
		middleware.WriteError(w, http.StatusNotFound, "Expense not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
