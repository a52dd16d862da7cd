package repository

import (
	"context"
	"time"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
)

// MeetingRepository persists meeting records. Lifecycle mutations are
// expressed as guarded single-statement updates so status can only move
// forward and concurrent writers cannot clobber each other's fields.
type MeetingRepository interface {
	// Create stores a new meeting and returns its generated id.
	Create(ctx context.Context, m meeting.Meeting) (string, error)

	// GetByID returns the full record or meeting.ErrNotFound.
	GetByID(ctx context.Context, id string) (*meeting.Meeting, error)

	// ListByMember returns the meetings the user hosts or participates in,
	// newest start time first.
	ListByMember(ctx context.Context, userID string) ([]meeting.Overview, error)

	// BeginProcessing atomically moves a LIVE meeting to PROCESSING, stamps
	// the end time and stores the submitted transcript. Returns
	// meeting.ErrStateConflict when the meeting is not LIVE (so the end time
	// is only ever set once) and meeting.ErrNotFound when the id is unknown.
	BeginProcessing(ctx context.Context, id string, endTime time.Time, transcript []meeting.TranscriptEntry) error

	// CompleteProcessing writes the terminal fields and COMPLETED status in
	// one update, guarded on the meeting being PROCESSING or already
	// COMPLETED. The write is absolute; repeating it after a redelivered job
	// produces the same record.
	CompleteProcessing(ctx context.Context, id string, rec meeting.CompletionRecord) error

	// MarkError sets status ERROR, guarded so a COMPLETED meeting is never
	// demoted. Safe to repeat.
	MarkError(ctx context.Context, id string) error
}

// TaskRepository persists action items extracted by the worker.
type TaskRepository interface {
	// ReplaceForMeeting atomically swaps the meeting's action items for the
	// given set and returns the new ids in order. Replacing rather than
	// appending keeps redelivered jobs from duplicating tasks.
	ReplaceForMeeting(ctx context.Context, meetingID string, tasks []meeting.Task) ([]string, error)

	// ListByMeeting returns the meeting's action items, oldest first.
	ListByMeeting(ctx context.Context, meetingID string) ([]meeting.Task, error)
}
