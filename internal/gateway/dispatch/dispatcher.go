package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/job-gateway/internal/gateway/domain"
	"github.com/cuongbtq/job-gateway/internal/gateway/registry"
	"github.com/cuongbtq/job-gateway/internal/gateway/store"
)

// Notifier receives jobs that reached a terminal status. Implementations
// must not block the calling worker; delivery happens on their own
// goroutines.
type Notifier interface {
	Notify(job *domain.Job)
}

// Config holds dispatcher configuration
type Config struct {
	Logger         *slog.Logger
	Store          store.Store
	Registry       *registry.Registry
	Notifiers      []Notifier
	MaxWorkers     int
	QueueSize      int
	RequestTimeout time.Duration
}

// Dispatcher owns the bounded job queue and the fixed pool of workers that
// execute accepted jobs.
type Dispatcher struct {
	logger         *slog.Logger
	store          store.Store
	registry       *registry.Registry
	notifiers      []Notifier
	maxWorkers     int
	requestTimeout time.Duration
	queue          chan *domain.Job
	stopChan       chan struct{}
	wg             sync.WaitGroup
}

type outcome struct {
	result any
	err    error
}

// NewDispatcher creates a dispatcher with a bounded queue
func NewDispatcher(cfg *Config) *Dispatcher {
	return &Dispatcher{
		logger:         cfg.Logger,
		store:          cfg.Store,
		registry:       cfg.Registry,
		notifiers:      cfg.Notifiers,
		maxWorkers:     cfg.MaxWorkers,
		requestTimeout: cfg.RequestTimeout,
		queue:          make(chan *domain.Job, cfg.QueueSize),
		stopChan:       make(chan struct{}),
	}
}

// Start spawns the worker pool
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("Spawning worker pool",
		slog.Int("max_workers", d.maxWorkers),
		slog.Int("queue_size", cap(d.queue)),
		slog.Duration("request_timeout", d.requestTimeout),
	)

	for i := 0; i < d.maxWorkers; i++ {
		d.wg.Add(1)
		go d.workerLoop(ctx, i)
	}
}

// Stop signals the workers and waits for in-flight jobs to finish
func (d *Dispatcher) Stop() {
	close(d.stopChan)
	d.wg.Wait()
	d.logger.Info("Worker pool stopped")
}

// Enqueue hands an accepted job to the worker pool without blocking. A full
// queue yields ErrQueueFull so creation requests fail fast instead of
// growing memory unboundedly.
func (d *Dispatcher) Enqueue(job *domain.Job) error {
	select {
	case d.queue <- job:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// QueueDepth returns the number of jobs waiting for a worker
func (d *Dispatcher) QueueDepth() int {
	return len(d.queue)
}

// Workers returns the size of the worker pool
func (d *Dispatcher) Workers() int {
	return d.maxWorkers
}

// workerLoop is the main processing loop for each worker goroutine
func (d *Dispatcher) workerLoop(ctx context.Context, workerNum int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ctx.Done():
			return
		case job := <-d.queue:
			d.runJob(ctx, workerNum, job)
		}
	}
}

// runJob executes one job end to end: queued -> running, invoke the
// operation under the request deadline, record the terminal status and hand
// the finished job to the notifiers.
func (d *Dispatcher) runJob(ctx context.Context, workerNum int, job *domain.Job) {
	logger := d.logger.With(
		slog.Int("worker", workerNum),
		slog.String("job_id", job.JobID),
		slog.String("op", job.Operation),
	)

	if _, err := d.store.Transition(job.JobID, domain.JobStatusRunning, nil, ""); err != nil {
		// Swept or already claimed; nothing to execute
		logger.Warn("Skipping job, transition to running failed",
			slog.String("error", err.Error()),
		)
		return
	}

	logger.Info("Job started")

	result, execErr := d.execute(ctx, job)

	var finished *domain.Job
	var err error
	if execErr != nil {
		finished, err = d.store.Transition(job.JobID, domain.JobStatusError, nil, execErr.Error())
		logger.Error("Job failed",
			slog.String("error", execErr.Error()),
		)
	} else {
		finished, err = d.store.Transition(job.JobID, domain.JobStatusDone, result, "")
		logger.Info("Job completed")
	}
	if err != nil {
		logger.Error("Failed to record terminal status",
			slog.String("error", err.Error()),
		)
		return
	}

	for _, n := range d.notifiers {
		n.Notify(finished)
	}
}

// execute invokes the registered operation under the request timeout. The
// operation runs on its own goroutine so a callable that ignores its
// context still converts a deadline breach into a terminal error instead of
// pinning the worker forever.
func (d *Dispatcher) execute(ctx context.Context, job *domain.Job) (any, error) {
	fn, err := d.registry.Resolve(job.Operation)
	if err != nil {
		return nil, err
	}

	jobCtx, cancel := context.WithTimeout(ctx, d.requestTimeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("operation panicked: %v", r)}
			}
		}()
		result, err := fn(jobCtx, job.Params)
		done <- outcome{result: result, err: err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-jobCtx.Done():
		return nil, fmt.Errorf("%w after %s", domain.ErrOperationTimeout, d.requestTimeout)
	}
}
