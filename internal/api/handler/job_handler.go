package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/job-gateway/internal/api/dto"
	"github.com/cuongbtq/job-gateway/internal/gateway/domain"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader is the alternative to the idempotency_key body field
const IdempotencyKeyHeader = "X-Idempotency-Key"

// CreateJob handles POST /jobs
// Accepts an operation for asynchronous execution
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	// Body field wins; the header is the fallback
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)
	}

	job, err := h.gateway.CreateJob(req.Op, req.Params, req.CallbackURL, req.IdempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownOperation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, domain.ErrQueueFull):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "job queue is full, retry later",
			})
		default:
			h.logger.Error("Failed to create job",
				slog.String("op", req.Op),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusAccepted, dto.CreateJobResponse{
		JobID:  job.JobID,
		Status: job.Status,
	})
}

// GetJob handles GET /jobs/:job_id
// Returns the current status and, when terminal, the result or error
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	job, err := h.gateway.GetJob(jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "job not found",
			})
			return
		}
		h.logger.Error("Failed to get job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get job",
		})
		return
	}

	c.JSON(http.StatusOK, dto.JobResponse{
		JobID:  job.JobID,
		Status: job.Status,
		Result: job.Result,
		Error:  job.Error,
	})
}

// Health handles GET /health
// Reports service identity plus live gateway numbers
func (h *JobHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "job-gateway",
		"queue_depth": h.gateway.QueueDepth(),
		"workers":     h.gateway.Workers(),
	})
}
