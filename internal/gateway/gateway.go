package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/job-gateway/internal/gateway/dispatch"
	"github.com/cuongbtq/job-gateway/internal/gateway/domain"
	"github.com/cuongbtq/job-gateway/internal/gateway/registry"
	"github.com/cuongbtq/job-gateway/internal/gateway/store"
)

// Service ties the registry, the store and the dispatcher together behind
// the two operations the API exposes. It holds no state of its own, so it
// stays testable with fake operations and short TTLs.
type Service struct {
	logger     *slog.Logger
	registry   *registry.Registry
	store      store.Store
	dispatcher *dispatch.Dispatcher
}

// NewService creates the gateway service
func NewService(logger *slog.Logger, reg *registry.Registry, st store.Store, d *dispatch.Dispatcher) *Service {
	return &Service{
		logger:     logger,
		registry:   reg,
		store:      st,
		dispatcher: d,
	}
}

// CreateJob validates the operation, deduplicates the request and hands a
// newly created job to the dispatcher. Duplicate requests within the TTL
// window return the already tracked job without re-executing anything. When
// the queue is full, the just-created record is rolled back so a rejected
// request leaves no trace.
func (s *Service) CreateJob(op string, params json.RawMessage, callbackURL, idempotencyKey string) (*domain.Job, error) {
	if !s.registry.Has(op) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownOperation, op)
	}

	job, existing, err := s.store.Create(op, params, callbackURL, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing {
		s.logger.Debug("Duplicate creation request resolved to existing job",
			slog.String("job_id", job.JobID),
			slog.String("op", op),
		)
		return job, nil
	}

	if err := s.dispatcher.Enqueue(job); err != nil {
		s.store.Delete(job.JobID)
		return nil, err
	}

	s.logger.Info("Job accepted",
		slog.String("job_id", job.JobID),
		slog.String("op", op),
	)

	return job, nil
}

// GetJob returns the current state of a tracked job
func (s *Service) GetJob(jobID string) (*domain.Job, error) {
	return s.store.Get(jobID)
}

// QueueDepth returns the number of jobs waiting for a worker
func (s *Service) QueueDepth() int {
	return s.dispatcher.QueueDepth()
}

// Workers returns the size of the worker pool
func (s *Service) Workers() int {
	return s.dispatcher.Workers()
}
