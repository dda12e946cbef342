// Package jobs defines the asynchronous import jobs the server runs and
// the queue/store abstractions behind them.
package jobs

import (
	"context"
	"time"

	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/pipeline"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
)

// ImportJob is one pipeline run requested by the UI: a receipt image, a
// text/spreadsheet dump, or a web import. Image and Text are mutually
// exclusive per the modality. Events accumulate the pipeline's progress
// stream so the UI can poll it.
type ImportJob struct {
	JobID    string          `json:"job_id"`
	Modality domain.Modality `json:"modality"`

	Image     []byte `json:"-"`
	ImageMIME string `json:"-"`
	Text      string `json:"-"`

	// ArchiveURI points at the archived raw payload, when archival is
	// configured.
	ArchiveURI string `json:"archive_uri,omitempty"`

	Status JobStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Error string `json:"error,omitempty"`

	Events []pipeline.ProgressEvent `json:"events"`

	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// Publisher enqueues import jobs.
type Publisher interface {
	// PublishImport enqueues an import job for asynchronous processing.
	PublishImport(ctx context.Context, job *ImportJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer processes import jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs; the handler is called for each job.
	Start(ctx context.Context, handler Handler) error

	// Stop stops consuming and waits for in-flight jobs to finish.
	Stop(ctx context.Context) error
}

// Handler processes one import job. It may mutate the job's result fields;
// the queue persists the job after the call.
type Handler func(ctx context.Context, job *ImportJob) error

// Store persists job status for the UI to poll.
type Store interface {
	SaveJob(ctx context.Context, job *ImportJob) error
	GetJob(ctx context.Context, jobID string) (*ImportJob, error)
	AppendEvent(ctx context.Context, jobID string, ev pipeline.ProgressEvent) error
}
