package notionsync

import (
	"context"
	"testing"
	"time"

	"github.com/jomei/notionapi"

	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/normalize"
)

type mockNotion struct {
	pages   []notionapi.Page
	created []notionapi.Properties
	updated map[string]notionapi.Properties
	deleted []string
}

func (m *mockNotion) CreatePage(_ context.Context, _ string, props notionapi.Properties) (*notionapi.Page, error) {
	m.created = append(m.created, props)
	return &notionapi.Page{ID: notionapi.ObjectID("new-page")}, nil
}

func (m *mockNotion) UpdatePage(_ context.Context, pageID string, props notionapi.Properties) (*notionapi.Page, error) {
	if m.updated == nil {
		m.updated = map[string]notionapi.Properties{}
	}
	m.updated[pageID] = props
	return &notionapi.Page{ID: notionapi.ObjectID(pageID)}, nil
}

func (m *mockNotion) QueryDatabase(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{Results: m.pages, HasMore: false}, nil
}

func (m *mockNotion) DeletePage(_ context.Context, pageID string) error {
	m.deleted = append(m.deleted, pageID)
	return nil
}

type staticSource struct {
	expenses []domain.Expense
}

func (s *staticSource) ExpensesBetween(context.Context, string, string) ([]domain.Expense, error) {
	return s.expenses, nil
}

func notionPage(id, identifier, date string) notionapi.Page {
	props := notionapi.Properties{
		"Identifier": &notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{PlainText: identifier}},
		},
	}
	if date != "" {
		parsed, _ := time.Parse("2006-01-02", date)
		d := notionapi.Date(parsed)
		props["Date"] = &notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &d},
		}
	}
	return notionapi.Page{ID: notionapi.ObjectID(id), Properties: props}
}

func expense(merchant string, amount float64, date, category string) domain.Expense {
	return domain.Expense{
		Merchant:   merchant,
		Amount:     amount,
		Date:       date,
		Category:   category,
		Identifier: normalize.Identifier(merchant, date, amount),
	}
}

func TestSyncExpensesCreatesMissingPages(t *testing.T) {
	source := &staticSource{expenses: []domain.Expense{
		expense("Starbucks", 18.5, "2025-07-13", "Coffee"),
		expense("Super-Pharm", 42, "2025-07-14", "Pharmacy"),
	}}
	notion := &mockNotion{}

	stats, err := SyncExpenses(context.Background(), source, notion, "db", "2025-07-01", "2025-08-01", false)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if stats.Created != 2 || stats.Updated != 0 || stats.Deleted != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if len(notion.created) != 2 {
		t.Fatalf("expected 2 created pages, got %d", len(notion.created))
	}
}

func TestSyncExpensesUpdatesMatchedPages(t *testing.T) {
	e := expense("Starbucks", 18.5, "2025-07-13", "Coffee")
	source := &staticSource{expenses: []domain.Expense{e}}
	notion := &mockNotion{pages: []notionapi.Page{
		notionPage("page-1", e.Identifier, e.Date),
	}}

	stats, err := SyncExpenses(context.Background(), source, notion, "db", "2025-07-01", "2025-08-01", false)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if stats.Updated != 1 || stats.Created != 0 || stats.Deleted != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if _, ok := notion.updated["page-1"]; !ok {
		t.Error("expected page-1 to be updated")
	}
}

func TestSyncExpensesArchivesStaleInRangePages(t *testing.T) {
	source := &staticSource{expenses: nil}
	notion := &mockNotion{pages: []notionapi.Page{
		notionPage("stale-july", "deleted|2025-07-10|9.99", "2025-07-10"),
		notionPage("june-page", "other|2025-06-10|5.00", "2025-06-10"),
	}}

	stats, err := SyncExpenses(context.Background(), source, notion, "db", "2025-07-01", "2025-08-01", false)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if stats.Deleted != 1 {
		t.Fatalf("expected 1 archived page, got %d", stats.Deleted)
	}
	if len(notion.deleted) != 1 || notion.deleted[0] != "stale-july" {
		t.Errorf("expected only the July page to be archived, got %v", notion.deleted)
	}
}

func TestSyncExpensesDryRunTouchesNothing(t *testing.T) {
	e := expense("Starbucks", 18.5, "2025-07-13", "Coffee")
	source := &staticSource{expenses: []domain.Expense{e}}
	notion := &mockNotion{pages: []notionapi.Page{
		notionPage("stale", "gone|2025-07-01|1.00", "2025-07-01"),
	}}

	stats, err := SyncExpenses(context.Background(), source, notion, "db", "2025-07-01", "2025-08-01", true)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if stats.Created != 1 || stats.Deleted != 1 {
		t.Errorf("unexpected dry-run stats: %+v", stats)
	}
	if len(notion.created) != 0 || len(notion.deleted) != 0 || len(notion.updated) != 0 {
		t.Error("dry run must not call the Notion API mutators")
	}
}

func TestExpenseToNotionProperties(t *testing.T) {
	e := expense("Starbucks", 18.5, "2025-07-13", "Coffee")
	props := ExpenseToNotionProperties(e)

	title, ok := props["Merchant"].(notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 || title.Title[0].Text.Content != "Starbucks" {
		t.Errorf("unexpected Merchant property: %#v", props["Merchant"])
	}

	amount, ok := props["Amount"].(notionapi.NumberProperty)
	if !ok || amount.Number != 18.5 {
		t.Errorf("unexpected Amount property: %#v", props["Amount"])
	}

	ident, ok := props["Identifier"].(notionapi.RichTextProperty)
	if !ok || len(ident.RichText) == 0 || ident.RichText[0].Text.Content != e.Identifier {
		t.Errorf("unexpected Identifier property: %#v", props["Identifier"])
	}

	if _, ok := props["Date"].(notionapi.DateProperty); !ok {
		t.Errorf("expected a Date property, got %#v", props["Date"])
	}
}
