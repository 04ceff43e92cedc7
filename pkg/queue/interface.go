package queue

import (
	"context"
	"time"
)

// Handler processes one dequeued job. The passed context is cancelled when
// a stop is requested or the worker shuts down; the handler must finalize
// the job before returning either way.
type Handler func(ctx context.Context, jobID string) error

type Queue interface {
	// Enqueue adds a job to the work queue. The queue task id is the job
	// id itself, so the same job can never be queued twice; attempting to
	// returns ErrInvalidState.
	//
	// The given timeout should be the job's own run timeout; the queue
	// allows some slack beyond it so the worker can clean up.
	Enqueue(ctx context.Context, jobID string, timeout time.Duration) error

	// Register the handler called for each dequeued job.
	Register(handler Handler) error

	// Run the queue & process jobs (via the Register handler). This should
	// block until Close() is called.
	Run() error

	// Cancel asks whichever worker is processing the job to stop. Best
	// effort; the worker observes the cancellation at its next checkpoint.
	Cancel(jobID string) error

	// DeleteQueued removes a job that no worker has picked up yet.
	DeleteQueued(jobID string) error

	// Close & shutdown the queue.
	Close() error
}
