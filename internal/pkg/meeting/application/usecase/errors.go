package usecase

import "errors"

var (
	// ErrPersistence indicates an infrastructure/repository failure inside a
	// use case. Workers treat it as retryable.
	ErrPersistence = errors.New("meeting use case: persistence error")

	// ErrQueueUnavailable indicates the job could not be enqueued. The
	// meeting may already be PROCESSING when this happens; the caller should
	// surface it as a server-side failure.
	ErrQueueUnavailable = errors.New("meeting use case: queue unavailable")
)
