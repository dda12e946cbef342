package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/orgabay12/epxe/internal/jobs"
	"github.com/orgabay12/epxe/internal/pipeline"
)

// Store keeps import jobs in memory. Safe for concurrent use; contents are
// lost on restart, which is acceptable for a single-household deployment —
// the expenses themselves live in the database.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.ImportJob
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*jobs.ImportJob)}
}

// SaveJob saves or updates a job. Events are append-only and owned by
// AppendEvent: a status update saving a job snapshot with fewer events than
// already recorded keeps the recorded stream instead of truncating it.
func (s *Store) SaveJob(ctx context.Context, job *jobs.ImportJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *job
	cp.Events = append([]pipeline.ProgressEvent(nil), job.Events...)
	if prev, ok := s.jobs[job.JobID]; ok && len(prev.Events) > len(cp.Events) {
		cp.Events = prev.Events
	}
	s.jobs[job.JobID] = &cp
	return nil
}

// GetJob returns a copy of the job with the given ID.
func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.ImportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	cp := *job
	cp.Events = append([]pipeline.ProgressEvent(nil), job.Events...)
	return &cp, nil
}

// AppendEvent records one progress event against a running job.
func (s *Store) AppendEvent(ctx context.Context, jobID string, ev pipeline.ProgressEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return fmt.Errorf("job not found: %s", jobID)
	}
	job.Events = append(job.Events, ev)
	return nil
}

var _ jobs.Store = (*Store)(nil)
