package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/orgabay12/epxe/internal/config"
	"github.com/orgabay12/epxe/internal/logger"
	"github.com/orgabay12/epxe/internal/notionsync"
	"github.com/orgabay12/epxe/internal/store"
)

func main() {
	log := logger.New()

	cfg := config.Load()

	month := flag.String("month", "", "Month to sync in YYYY-MM format (default: current month)")
	notionToken := flag.String("notion-token", cfg.NotionToken, "Notion API token (or set NOTION_TOKEN)")
	notionDBID := flag.String("notion-db-id", cfg.NotionDatabaseID, "Notion database ID (or set NOTION_DATABASE_ID)")
	dryRun := flag.Bool("dry-run", false, "Preview changes without syncing")
	flag.Parse()

	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *notionDBID == "" {
		log.Fatal().Msg("Error: --notion-db-id is required")
	}

	start := time.Now()
	if *month != "" {
		parsed, err := time.Parse("2006-01", *month)
		if err != nil {
			log.Fatal().Err(err).Str("month", *month).Msg("Error: invalid month, expected YYYY-MM")
		}
		start = parsed
	}
	from := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	db, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("Failed to open store")
	}
	defer db.Close()

	notionClient := notionsync.NewNotionClient(*notionToken)

	stats, err := notionsync.SyncExpenses(ctx, db, notionClient, *notionDBID,
		from.Format("2006-01-02"), to.Format("2006-01-02"), *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Printf("Sync completed: %d created, %d updated, %d archived.\n",
		stats.Created, stats.Updated, stats.Deleted)
}
