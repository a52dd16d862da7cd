package port

import (
	"context"
	"time"
)

// Task is a background job message: a stable type tag plus opaque payload
// bytes. Payload encoding is up to callers so the port stays free of
// serialization concerns.
//
// When a Task is delivered to a Handler, RetryCount and MaxRetry describe the
// delivery attempt: RetryCount is how many times the task has already been
// retried, MaxRetry the retry budget. Handlers use them to tell a retryable
// failure from a terminal one.
type Task struct {
	Type    string
	Payload []byte

	RetryCount int
	MaxRetry   int
}

// LastAttempt reports whether a failure of this delivery would exhaust the
// retry budget.
func (t Task) LastAttempt() bool { return t.RetryCount >= t.MaxRetry }

// Handler processes a Task. A non-nil error signals retry per the adapter's
// backoff policy. Handlers must be idempotent: delivery is at-least-once.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption controls enqueue behavior. Zero values mean "unspecified";
// adapters map supported fields to the backend as best-effort.
type EnqueueOption struct {
	Queue     string        // logical queue name
	ProcessIn time.Duration // delay before first processing
	MaxRetry  int           // retry budget for the task
	Retention time.Duration // keep result metadata for this duration after completion
}

// Client enqueues tasks durably. Enqueue returns as soon as the task is
// persisted; the work itself happens later in a worker process.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs background workers that claim and handle tasks. Run blocks
// until the context is canceled, then drains in-flight work.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}
