package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/logger"
)

// ExpenseSource is the slice of the expense store the sync reads from.
type ExpenseSource interface {
	ExpensesBetween(ctx context.Context, from, to string) ([]domain.Expense, error)
}

// Stats summarizes one sync run.
type Stats struct {
	Created int
	Updated int
	Deleted int
}

// SyncExpenses mirrors expenses with from <= date < to into the Notion
// database. Pages are keyed by the expense identifier:
//  1. expenses without a matching page are created
//  2. expenses with a matching page are updated in place
//  3. pages dated inside the range whose identifier no longer exists are
//     archived
//
// Pages outside the range are left alone so a month-scoped sync never
// touches other months. With dryRun set, the run only logs what it would do.
func SyncExpenses(ctx context.Context, source ExpenseSource, notion NotionService, databaseID, from, to string, dryRun bool) (Stats, error) {
	log := logger.FromContext(ctx)
	var stats Stats

	log.Info().
		Str("from", from).
		Str("to", to).
		Bool("dry_run", dryRun).
		Msg("Starting expense sync to Notion")

	expenses, err := source.ExpensesBetween(ctx, from, to)
	if err != nil {
		return stats, fmt.Errorf("query expenses: %w", err)
	}

	valid := make(map[string]bool, len(expenses))
	for _, e := range expenses {
		valid[e.Identifier] = true
	}

	pages, err := queryAllPages(ctx, notion, databaseID)
	if err != nil {
		return stats, fmt.Errorf("query Notion pages: %w", err)
	}

	log.Info().
		Int("expense_count", len(expenses)).
		Int("notion_page_count", len(pages)).
		Msg("Loaded both sides of the sync")

	// Map identifier -> page for update matching, and archive stale pages
	// dated inside the range.
	pageByIdentifier := make(map[string]notionapi.Page)
	for _, page := range pages {
		id := extractIdentifier(page)
		if id != "" {
			pageByIdentifier[id] = page
		}

		date := extractDate(page)
		inRange := date != "" && date >= from && date < to
		if !inRange || valid[id] {
			continue
		}

		if dryRun {
			log.Info().
				Str("identifier", id).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would archive stale Notion page")
			stats.Deleted++
			continue
		}
		if err := notion.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("page_id", string(page.ID)).
				Msg("Failed to archive stale Notion page")
			continue
		}
		stats.Deleted++
	}

	for _, e := range expenses {
		existing, ok := pageByIdentifier[e.Identifier]

		if dryRun {
			if ok {
				log.Info().Str("identifier", e.Identifier).Msg("[DRY RUN] Would update Notion page")
				stats.Updated++
			} else {
				log.Info().Str("identifier", e.Identifier).Msg("[DRY RUN] Would create Notion page")
				stats.Created++
			}
			continue
		}

		props := ExpenseToNotionProperties(e)
		if ok {
			if _, err := notion.UpdatePage(ctx, string(existing.ID), props); err != nil {
				log.Warn().
					Err(err).
					Str("identifier", e.Identifier).
					Str("page_id", string(existing.ID)).
					Msg("Failed to update Notion page")
				continue
			}
			stats.Updated++
		} else {
			if _, err := notion.CreatePage(ctx, databaseID, props); err != nil {
				log.Warn().
					Err(err).
					Str("identifier", e.Identifier).
					Msg("Failed to create Notion page")
				continue
			}
			stats.Created++
		}
	}

	log.Info().
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("deleted", stats.Deleted).
		Msg("Expense sync completed")

	return stats, nil
}

// queryAllPages pages through the whole Notion database.
func queryAllPages(ctx context.Context, notion NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notion.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
