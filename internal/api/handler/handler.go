package handler

import (
	"log/slog"

	"github.com/cuongbtq/job-gateway/internal/gateway"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger  *slog.Logger
	Gateway *gateway.Service
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger  *slog.Logger
	gateway *gateway.Service
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:  deps.Logger,
		gateway: deps.Gateway,
	}
}
