package main

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orgabay12/epxe/internal/api/handlers"
	"github.com/orgabay12/epxe/internal/api/middleware"
	"github.com/orgabay12/epxe/internal/browser"
	"github.com/orgabay12/epxe/internal/config"
	"github.com/orgabay12/epxe/internal/gcsarchive"
	"github.com/orgabay12/epxe/internal/importer"
	"github.com/orgabay12/epxe/internal/jobs"
	"github.com/orgabay12/epxe/internal/jobs/inmemory"
	"github.com/orgabay12/epxe/internal/logger"
	"github.com/orgabay12/epxe/internal/pipeline"
	"github.com/orgabay12/epxe/internal/store"
)

func main() {
	log := logger.New()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	db, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("Failed to open store")
	}
	defer db.Close()

	// Pipeline wiring. The browser collector is optional; without issuer
	// credentials, web imports are rejected at the API.
	model := pipeline.NewGeminiClient(cfg.GeminiModel)

	var collector pipeline.TranscriptCollector
	if cfg.WebImportConfigured() {
		collector = browser.NewCollector(browser.Config{
			LoginURL:        cfg.IssuerLoginURL,
			TransactionsURL: cfg.IssuerTransactionsURL,
			Credentials: browser.Credentials{
				Username: cfg.IssuerUsername,
				Password: cfg.IssuerPassword,
			},
		}, log)
		log.Info().Str("login_url", cfg.IssuerLoginURL).Msg("Web imports enabled")
	} else {
		log.Warn().Msg("Issuer credentials not configured - web imports disabled")
	}

	pipe := pipeline.New(model, db, collector)
	runner := importer.New(pipe, db)

	var archiver gcsarchive.Archiver
	if cfg.GCSBucket != "" {
		archiver = gcsarchive.NewBucketArchiver(cfg.GCSBucket)
		log.Info().Str("bucket", cfg.GCSBucket).Msg("Payload archival enabled")
	}

	// Job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.JobQueueSize, jobStore)

	jobHandler := func(ctx context.Context, job *jobs.ImportJob) error {
		log.Info().
			Str("job_id", job.JobID).
			Str("modality", string(job.Modality)).
			Msg("Processing import")

		// Drain progress events into the job record so the UI can poll
		// them. The pipeline never blocks on this channel.
		events := make(chan pipeline.ProgressEvent, 16)
		drained := make(chan struct{})
		go func() {
			defer close(drained)
			for ev := range events {
				_ = jobStore.AppendEvent(ctx, job.JobID, ev)
			}
		}()

		result, err := runner.Run(ctx, pipeline.Input{
			Modality:  job.Modality,
			Image:     job.Image,
			ImageMIME: job.ImageMIME,
			Text:      job.Text,
		}, events)

		close(events)
		<-drained

		if err != nil {
			log.Error().Err(err).Str("job_id", job.JobID).Msg("Import failed")
			return err
		}

		job.Added = result.Added
		job.Skipped = result.Skipped
		log.Info().
			Str("job_id", job.JobID).
			Int("added", result.Added).
			Int("skipped", result.Skipped).
			Msg("Import completed")
		return nil
	}

	if err := jobQueue.Start(ctx, jobHandler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start import worker")
	}

	// Handlers and routes
	categoriesHandler := handlers.NewCategoriesHandler(db, log)
	expensesHandler := handlers.NewExpensesHandler(db, log)
	summaryHandler := handlers.NewSummaryHandler(db, log)
	importsHandler := handlers.NewImportsHandler(jobQueue, jobStore, archiver, cfg.WebImportConfigured(), log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			categoriesHandler.ListCategories(w, r)
		case http.MethodPost:
			categoriesHandler.CreateCategory(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/categories/", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r.URL.Path, "/api/categories/")
		if !ok {
			return
		}
		if r.Method == http.MethodPut {
			categoriesHandler.UpdateBudget(w, r, id)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/expenses", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			expensesHandler.ListExpenses(w, r)
		case http.MethodPost:
			expensesHandler.CreateExpense(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/expenses/", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r.URL.Path, "/api/expenses/")
		if !ok {
			return
		}
		switch r.Method {
		case http.MethodPut:
			expensesHandler.UpdateExpense(w, r, id)
		case http.MethodDelete:
			expensesHandler.DeleteExpense(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			summaryHandler.Summary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/imports", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			importsHandler.CreateImport(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/imports/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/api/imports/")
		jobID, wantPayload := strings.CutSuffix(rest, "/payload")
		if jobID == "" || strings.Contains(jobID, "/") {
			middleware.WriteError(w, http.StatusBadRequest, "Import ID is required")
			return
		}
		if wantPayload {
			importsHandler.GetImportPayload(w, r, jobID)
		} else {
			importsHandler.GetImport(w, r, jobID)
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := jobQueue.Stop(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Import worker did not stop cleanly")
		}
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
	log.Info().Msg("Server stopped")
}

// pathID parses the numeric ID segment after prefix, writing a 400 on
// failure.
func pathID(w http.ResponseWriter, path, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(path, prefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}
