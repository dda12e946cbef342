package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orgabay12/epxe/internal/domain"
)

// starterCategories is the vocabulary seeded on first run. Budgets are
// monthly amounts in the household currency.
var starterCategories = []domain.Category{
	{Name: "Coffee", Budget: 700},
	{Name: "Restaurants", Budget: 700},
	{Name: "Supermarket & Groceries", Budget: 1000},
	{Name: "Pharmacy", Budget: 300},
	{Name: "Clothing", Budget: 200},
	{Name: "Car Gas", Budget: 700},
	{Name: "Car Expenses", Budget: 100},
	{Name: "TV & Communication", Budget: 300},
	{Name: "Taxi & Bus", Budget: 100},
	{Name: domain.Uncategorized, Budget: 2000},
}

func (s *Store) seedCategories(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, c := range starterCategories {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO categories (name, budget) VALUES (?, ?)`, c.Name, c.Budget); err != nil {
			return fmt.Errorf("insert starter category %q: %w", c.Name, err)
		}
	}
	return nil
}

// Categories returns every category ordered by name.
func (s *Store) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, budget FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Budget); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CategoryNames returns the live vocabulary, ordered by name.
func (s *Store) CategoryNames(ctx context.Context) ([]string, error) {
	cats, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names, nil
}

// AddCategory creates a new category with the given monthly budget.
func (s *Store) AddCategory(ctx context.Context, name string, budget float64) (domain.Category, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, budget) VALUES (?, ?)`, name, budget)
	if err != nil {
		return domain.Category{}, fmt.Errorf("insert category %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	return domain.Category{ID: id, Name: name, Budget: budget}, nil
}

// UpdateCategoryBudget sets a category's monthly budget.
func (s *Store) UpdateCategoryBudget(ctx context.Context, id int64, budget float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET budget = ? WHERE id = ?`, budget, id)
	if err != nil {
		return fmt.Errorf("update category %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("category %d not found", id)
	}
	return nil
}

// CategoryByMerchant returns the most recent (by expense date, then
// insertion order) category ever assigned to this exact merchant string.
// The second return reports whether any history exists.
func (s *Store) CategoryByMerchant(ctx context.Context, merchant string) (string, bool, error) {
	var category string
	err := s.db.QueryRowContext(ctx, `
		SELECT category FROM expenses
		WHERE merchant = ?
		ORDER BY date DESC, id DESC
		LIMIT 1`, merchant).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("category by merchant: %w", err)
	}
	return category, true, nil
}
