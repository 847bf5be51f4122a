package domain

import (
	"encoding/json"
	"time"
)

// Job status constants
const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusError   = "error"
)

// Job represents a tracked unit of asynchronously executed work
type Job struct {
	JobID          string
	Operation      string
	Params         json.RawMessage
	Status         string
	Result         any
	Error          string
	CallbackURL    string
	IdempotencyKey string
	Fingerprint    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsTerminal reports whether the job has reached a final status
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusError
}

// Clone returns a shallow copy that is safe to hand out past the store lock
func (j *Job) Clone() *Job {
	c := *j
	return &c
}
