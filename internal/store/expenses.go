package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/normalize"
)

// Expenses returns all persisted expenses, newest first.
func (s *Store) Expenses(ctx context.Context) ([]domain.Expense, error) {
	return s.queryExpenses(ctx, `
		SELECT id, merchant, amount, date, category, identifier
		FROM expenses
		ORDER BY date DESC, id DESC`)
}

// ExpensesBetween returns expenses with from <= date < to (ISO dates).
func (s *Store) ExpensesBetween(ctx context.Context, from, to string) ([]domain.Expense, error) {
	return s.queryExpenses(ctx, `
		SELECT id, merchant, amount, date, category, identifier
		FROM expenses
		WHERE date >= ? AND date < ?
		ORDER BY date DESC, id DESC`, from, to)
}

func (s *Store) queryExpenses(ctx context.Context, query string, args ...any) ([]domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.Merchant, &e.Amount, &e.Date, &e.Category, &e.Identifier); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TransactionExists reports whether an expense with the same derived
// identifier is already persisted.
func (s *Store) TransactionExists(ctx context.Context, merchant string, amount float64, date string) (bool, error) {
	identifier := normalize.Identifier(merchant, date, amount)
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM expenses WHERE identifier = ? LIMIT 1`, identifier).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("expense exists: %w", err)
	}
	return true, nil
}

// AddExpense inserts an expense keyed by its derived identifier. A conflict
// on the identifier is a no-op, not an error: multiple extractors may
// legitimately rediscover the same real-world transaction. The returned
// bool reports whether a row was actually inserted.
func (s *Store) AddExpense(ctx context.Context, merchant string, amount float64, date, category string) (bool, error) {
	identifier := normalize.Identifier(merchant, date, amount)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (merchant, amount, date, category, identifier)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (identifier) DO NOTHING`,
		merchant, amount, date, category, identifier)
	if err != nil {
		return false, fmt.Errorf("insert expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("expense rows affected: %w", err)
	}
	return n > 0, nil
}

// UpdateExpense edits an expense in place. The identifier is deliberately
// left untouched: it is the historical dedup anchor from insertion time, and
// recomputing it on edit would silently re-enable re-import of the pre-edit
// version.
func (s *Store) UpdateExpense(ctx context.Context, id int64, merchant string, amount float64, date, category string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET merchant = ?, amount = ?, date = ?, category = ?
		WHERE id = ?`,
		merchant, amount, date, category, id)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense %d not found", id)
	}
	return nil
}

// DeleteExpense removes an expense.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense %d not found", id)
	}
	return nil
}

// CategorySpend is one row of the budget-vs-spend view.
type CategorySpend struct {
	Category string  `json:"category"`
	Budget   float64 `json:"budget"`
	Spent    float64 `json:"spent"`
}

// SpendByCategory aggregates spend per category for from <= date < to,
// joined against budgets. Categories with no spend in the range still
// appear with Spent == 0.
func (s *Store) SpendByCategory(ctx context.Context, from, to string) ([]CategorySpend, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, c.budget, COALESCE(SUM(e.amount), 0)
		FROM categories c
		LEFT JOIN expenses e
			ON e.category = c.name AND e.date >= ? AND e.date < ?
		GROUP BY c.id
		ORDER BY c.name`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query spend by category: %w", err)
	}
	defer rows.Close()

	var out []CategorySpend
	for rows.Next() {
		var cs CategorySpend
		if err := rows.Scan(&cs.Category, &cs.Budget, &cs.Spent); err != nil {
			return nil, fmt.Errorf("scan spend row: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}
