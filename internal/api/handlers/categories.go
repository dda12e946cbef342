package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/orgabay12/epxe/internal/api/middleware"
)

// CategoriesHandler handles category-related endpoints.
type CategoriesHandler struct {
	repo Repository
	log  zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(repo Repository, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{repo: repo, log: log}
}

// ListCategories handles GET /api/categories
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.repo.Categories(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory handles POST /api/categories
func (h *CategoriesHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string  `json:"name"`
		Budget float64 `json:"budget"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Budget < 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Budget must not be negative")
		return
	}

	category, err := h.repo.AddCategory(r.Context(), req.Name, req.Budget)
	if err != nil {
		h.log.Error().Err(err).Str("name", req.Name).Msg("Failed to create category")
		middleware.WriteError(w, http.StatusConflict, "Category already exists")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, category)
}

// UpdateBudget handles PUT /api/categories/{id}
func (h *CategoriesHandler) UpdateBudget(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		Budget float64 `json:"budget"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Budget < 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Budget must not be negative")
		return
	}

	if err := h.repo.UpdateCategoryBudget(r.Context(), id, req.Budget); err != nil {
		h.log.Error().Err(err).Int64("category_id", id).Msg("Failed to update budget")
		middleware.WriteError(w, http.StatusNotFound, "Category not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"budget": req.Budget,
	})
}
