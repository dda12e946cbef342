// Package importer runs one pipeline invocation end to end: extract and
// classify, then deduplicate against persisted state and insert the
// survivors.
package importer

import (
	"context"
	"fmt"

	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/logger"
	"github.com/orgabay12/epxe/internal/pipeline"
)

// ExpenseStore is the slice of the persistence gateway the importer needs.
type ExpenseStore interface {
	CategoryNames(ctx context.Context) ([]string, error)
	AddExpense(ctx context.Context, merchant string, amount float64, date, category string) (bool, error)
}

// Runner ties the pipeline to the store.
type Runner struct {
	pipe  *pipeline.Pipeline
	store ExpenseStore
}

// New creates a Runner.
func New(pipe *pipeline.Pipeline, store ExpenseStore) *Runner {
	return &Runner{pipe: pipe, store: store}
}

// Result summarizes one import run.
type Result struct {
	Transactions []domain.CategorizedTransaction `json:"transactions"`
	Added        int                             `json:"added"`
	Skipped      int                             `json:"skipped"`
}

// Run loads the live vocabulary, executes the pipeline and persists every
// non-duplicate transaction. The identifier-keyed insert makes the
// duplicate check and the insert a single atomic operation in the store;
// there is no check-then-insert race even when imports run concurrently.
func (r *Runner) Run(ctx context.Context, in pipeline.Input, events chan<- pipeline.ProgressEvent) (*Result, error) {
	log := logger.FromContext(ctx)

	categories, err := r.store.CategoryNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("importer: load categories: %w", err)
	}
	in.Categories = categories

	txs, err := r.pipe.Run(ctx, in, events)
	if err != nil {
		return nil, fmt.Errorf("importer: %w", err)
	}

	res := &Result{Transactions: txs}
	for _, tx := range txs {
		inserted, err := r.store.AddExpense(ctx, tx.Merchant, tx.Amount, tx.Date, tx.Category)
		if err != nil {
			return nil, fmt.Errorf("importer: persist %q: %w", tx.Merchant, err)
		}
		if inserted {
			res.Added++
		} else {
			log.Info().Str("merchant", tx.Merchant).Str("date", tx.Date).
				Float64("amount", tx.Amount).Msg("Skipping duplicate transaction")
			res.Skipped++
		}
	}

	log.Info().Int("added", res.Added).Int("skipped", res.Skipped).Msg("Import finished")
	return res, nil
}
