package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job id is unknown or past its TTL
	ErrJobNotFound = errors.New("job not found")

	// ErrUnknownOperation is returned when the operation name is not registered
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrQueueFull is returned when the dispatch queue cannot accept more jobs
	ErrQueueFull = errors.New("job queue is full")

	// ErrJobTerminal is returned when attempting to transition a finished job
	ErrJobTerminal = errors.New("job already in terminal status")

	// ErrInvalidTransition is returned when a status change would skip or
	// reverse the queued -> running -> done/error order
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOperationTimeout marks executions that exceeded their deadline
	ErrOperationTimeout = errors.New("operation timed out")
)
