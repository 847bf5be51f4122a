package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/job-gateway/internal/gateway/domain"
	"github.com/google/uuid"
)

// Store is the storage capability the gateway depends on. It is in-memory
// today; a durable backend can be substituted without touching the
// dispatcher or the notifiers.
type Store interface {
	Create(op string, params json.RawMessage, callbackURL, idempotencyKey string) (job *domain.Job, existing bool, err error)
	Get(jobID string) (*domain.Job, error)
	Transition(jobID, status string, result any, errMsg string) (*domain.Job, error)
	Delete(jobID string)
	Sweep() int
}

// MemoryStore holds job records and idempotency records in process memory.
// A single mutex guards both maps so create's check-then-insert and every
// status transition are atomic. No blocking work ever happens under the
// lock; job execution runs entirely outside the store.
type MemoryStore struct {
	mu     sync.Mutex
	jobs   map[string]*domain.Job
	index  map[string]string // fingerprint -> job id
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewMemoryStore creates a MemoryStore with the given job TTL
func NewMemoryStore(ttl time.Duration, logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		jobs:   make(map[string]*domain.Job),
		index:  make(map[string]string),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Create inserts a new queued job, or returns the existing job when an
// unexpired idempotency record matches the request fingerprint. The check
// and the insert happen under one lock acquisition, so concurrent identical
// requests resolve to exactly one job.
func (s *MemoryStore) Create(op string, params json.RawMessage, callbackURL, idempotencyKey string) (*domain.Job, bool, error) {
	fingerprint, err := Fingerprint(op, params, idempotencyKey)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if jobID, ok := s.index[fingerprint]; ok {
		if job, ok := s.jobs[jobID]; ok && !s.expired(job) {
			return job.Clone(), true, nil
		}
		// Stale record pointing at an expired or removed job
		s.removeLocked(jobID)
	}

	now := s.now()
	job := &domain.Job{
		JobID:          uuid.New().String(),
		Operation:      op,
		Params:         params,
		Status:         domain.JobStatusQueued,
		CallbackURL:    callbackURL,
		IdempotencyKey: idempotencyKey,
		Fingerprint:    fingerprint,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.jobs[job.JobID] = job
	s.index[fingerprint] = job.JobID

	return job.Clone(), false, nil
}

// Get returns a copy of the job, or ErrJobNotFound when the id is unknown
// or the record outlived its TTL. Expired records are removed on access.
func (s *MemoryStore) Get(jobID string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if s.expired(job) {
		s.removeLocked(jobID)
		return nil, domain.ErrJobNotFound
	}

	return job.Clone(), nil
}

// Transition moves a job to a new status, enforcing the one-directional
// queued -> running -> done/error order. Terminal states are never left,
// result and error stay mutually exclusive.
func (s *MemoryStore) Transition(jobID, status string, result any, errMsg string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok || s.expired(job) {
		return nil, domain.ErrJobNotFound
	}

	if job.IsTerminal() {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrJobTerminal, jobID, job.Status)
	}

	switch {
	case job.Status == domain.JobStatusQueued && status == domain.JobStatusRunning:
	case job.Status == domain.JobStatusRunning && (status == domain.JobStatusDone || status == domain.JobStatusError):
	default:
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, job.Status, status)
	}

	job.Status = status
	job.UpdatedAt = s.now()

	switch status {
	case domain.JobStatusDone:
		job.Result = result
		job.Error = ""
	case domain.JobStatusError:
		job.Result = nil
		job.Error = errMsg
	}

	return job.Clone(), nil
}

// Delete removes a job and its idempotency record. Used to roll back a
// creation that could not be enqueued.
func (s *MemoryStore) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(jobID)
}

// Sweep removes every job whose age exceeds the TTL, together with its
// idempotency record, and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for jobID, job := range s.jobs {
		if s.expired(job) {
			s.removeLocked(jobID)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on a fixed interval until the context is canceled
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.Sweep(); removed > 0 {
					s.logger.Debug("Swept expired jobs",
						slog.Int("removed", removed),
					)
				}
			}
		}
	}()
}

func (s *MemoryStore) expired(job *domain.Job) bool {
	return s.ttl > 0 && s.now().Sub(job.CreatedAt) > s.ttl
}

func (s *MemoryStore) removeLocked(jobID string) {
	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	delete(s.jobs, jobID)
	if current, ok := s.index[job.Fingerprint]; ok && current == jobID {
		delete(s.index, job.Fingerprint)
	}
}
