// Package handlers implements the HTTP endpoints of the expense tracker API.
package handlers

import (
	"context"

	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/store"
)

// Repository is the slice of the expense store the handlers need. The
// interface enables testing handlers against an in-memory fake.
type Repository interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	CategoryNames(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string, budget float64) (domain.Category, error)
	UpdateCategoryBudget(ctx context.Context, id int64, budget float64) error

	Expenses(ctx context.Context) ([]domain.Expense, error)
	ExpensesBetween(ctx context.Context, from, to string) ([]domain.Expense, error)
	AddExpense(ctx context.Context, merchant string, amount float64, date, category string) (bool, error)
	UpdateExpense(ctx context.Context, id int64, merchant string, amount float64, date, category string) error
	DeleteExpense(ctx context.Context, id int64) error

	SpendByCategory(ctx context.Context, from, to string) ([]store.CategorySpend, error)
}
