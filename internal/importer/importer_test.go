package importer

import (
	"context"
	"testing"

	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/pipeline"
)

type mockModel struct {
	structuredOut string
	searchOut     string
}

func (m *mockModel) GenerateStructured(ctx context.Context, prompt string, blob *pipeline.Blob) (string, error) {
	return m.structuredOut, nil
}

func (m *mockModel) GenerateWithSearch(ctx context.Context, prompt string) (string, error) {
	return m.searchOut, nil
}

// mockStore is both the importer's store and the pipeline's merchant
// history, backed by an identifier-keyed map.
type mockStore struct {
	categories []string
	rows       map[string]domain.CategorizedTransaction
}

func newMockStore(categories ...string) *mockStore {
	return &mockStore{
		categories: categories,
		rows:       map[string]domain.CategorizedTransaction{},
	}
}

func (s *mockStore) CategoryNames(ctx context.Context) ([]string, error) {
	return s.categories, nil
}

func (s *mockStore) AddExpense(ctx context.Context, merchant string, amount float64, date, category string) (bool, error) {
	key := merchant + "|" + date
	if _, ok := s.rows[key]; ok {
		return false, nil
	}
	s.rows[key] = domain.CategorizedTransaction{
		Transaction: domain.Transaction{Merchant: merchant, Amount: amount, Date: date},
		Category:    category,
	}
	return true, nil
}

func (s *mockStore) CategoryByMerchant(ctx context.Context, merchant string) (string, bool, error) {
	return "", false, nil
}

func TestRunInsertsSurvivors(t *testing.T) {
	model := &mockModel{
		structuredOut: `[
			{"merchant": "Coffee Shop", "amount": 4.5, "date": "2024-01-05"},
			{"merchant": "Coffee Shop", "amount": 4.5, "date": "2024-01-05"},
			{"merchant": "Pharm", "amount": 30.0, "date": "2024-01-06"}
		]`,
		searchOut: "Coffee",
	}
	store := newMockStore("Coffee", domain.Uncategorized)
	runner := New(pipeline.New(model, store, nil), store)

	res, err := runner.Run(context.Background(), pipeline.Input{
		Modality: domain.ModalityImage,
		Image:    []byte("img"),
	}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Added != 2 {
		t.Errorf("added = %d, want 2", res.Added)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
	if len(res.Transactions) != 3 {
		t.Errorf("pipeline output trimmed: %d transactions, want 3", len(res.Transactions))
	}
	if len(store.rows) != 2 {
		t.Errorf("%d rows persisted, want 2", len(store.rows))
	}
}

func TestRunPropagatesModalityError(t *testing.T) {
	store := newMockStore("Coffee")
	runner := New(pipeline.New(&mockModel{}, store, nil), store)

	if _, err := runner.Run(context.Background(), pipeline.Input{}, nil); err == nil {
		t.Error("missing modality accepted")
	}
}
