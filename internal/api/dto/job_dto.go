package dto

import "encoding/json"

type CreateJobRequest struct {
	Op             string          `json:"op" binding:"required"`
	Params         json.RawMessage `json:"params"`
	CallbackURL    string          `json:"callback_url" binding:"omitempty,url"`
	IdempotencyKey string          `json:"idempotency_key"`
}

type CreateJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type JobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
