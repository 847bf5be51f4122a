// Package events mirrors terminal job transitions onto a RabbitMQ exchange
// so other services can react without polling the gateway. Publishing is
// best-effort: failures are logged and never affect job state.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cuongbtq/job-gateway/internal/gateway/domain"
	"github.com/cuongbtq/job-gateway/shared/rabbitmq"
)

const publishTimeout = 5 * time.Second

// Event is the message published for each finished job
type Event struct {
	JobID      string    `json:"job_id"`
	Operation  string    `json:"op"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Publisher fans job lifecycle events out over AMQP. A nil Publisher is
// valid and publishes nothing, which is how the gateway runs when events
// are disabled.
type Publisher struct {
	logger *slog.Logger
	client *rabbitmq.Client
}

// NewPublisher creates a Publisher backed by an AMQP client
func NewPublisher(client *rabbitmq.Client, logger *slog.Logger) *Publisher {
	return &Publisher{
		logger: logger,
		client: client,
	}
}

// Notify publishes the terminal transition on its own goroutine
func (p *Publisher) Notify(job *domain.Job) {
	if p == nil || p.client == nil {
		return
	}
	go p.publish(job)
}

func (p *Publisher) publish(job *domain.Job) {
	event := Event{
		JobID:      job.JobID,
		Operation:  job.Operation,
		Status:     job.Status,
		Error:      job.Error,
		FinishedAt: job.UpdatedAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to encode lifecycle event",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.client.Publish(ctx, body, "application/json"); err != nil {
		p.logger.Warn("Failed to publish lifecycle event",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()),
		)
	}
}
