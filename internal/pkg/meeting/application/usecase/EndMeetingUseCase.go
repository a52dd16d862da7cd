package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	qport "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/queue/port"
	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	repository "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/persistence/repository/port"
)

// ProcessMeetingTaskType is the queue task name for post-meeting AI analysis.
const ProcessMeetingTaskType = "meeting:process"

// MeetingQueue is the logical queue meeting jobs go to.
const MeetingQueue = "meetings"

// processMaxRetry counts retries after the first run, so an analysis job gets
// three attempts total (delays 10s, 20s).
const processMaxRetry = 2

// ProcessMeetingPayload is the JSON job payload. It snapshots everything the
// worker needs so processing never depends on the record staying unchanged.
type ProcessMeetingPayload struct {
	MeetingID      string                    `json:"meetingId"`
	Transcript     []meeting.TranscriptEntry `json:"transcript"`
	ParticipantIDs []string                  `json:"participants"`
}

// EndMeetingInput carries the host's end-of-meeting submission.
type EndMeetingInput struct {
	MeetingID  string
	CallerID   string
	Transcript []meeting.TranscriptEntry
}

// EndMeetingUseCase is the job producer: it closes the live meeting and hands
// the transcript to the asynchronous pipeline. The caller gets an "accepted"
// answer; the analysis outcome arrives later through the meeting record.
type EndMeetingUseCase struct {
	Meetings repository.MeetingRepository
	Queue    qport.Client
}

func NewEndMeetingUseCase(meetings repository.MeetingRepository, queue qport.Client) *EndMeetingUseCase {
	return &EndMeetingUseCase{Meetings: meetings, Queue: queue}
}

// Execute validates the caller, moves the meeting LIVE -> PROCESSING with the
// end time stamped, and enqueues exactly one processing job carrying a
// snapshot of the transcript and participant list.
func (uc *EndMeetingUseCase) Execute(ctx context.Context, in EndMeetingInput) (*meeting.Meeting, error) {
	if in.MeetingID == "" || in.CallerID == "" {
		return nil, fmt.Errorf("%w: meeting id and caller id are required", meeting.ErrValidation)
	}
	for i, entry := range in.Transcript {
		if entry.SpeakerName == "" || entry.Text == "" {
			return nil, fmt.Errorf("%w: transcript entry %d is missing speaker name or text", meeting.ErrValidation, i)
		}
	}

	m, err := uc.Meetings.GetByID(ctx, in.MeetingID)
	if err != nil {
		if err == meeting.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if m.HostID != in.CallerID {
		return nil, meeting.ErrForbidden
	}
	if m.Status != meeting.StatusLive {
		return nil, meeting.ErrStateConflict
	}

	endTime := time.Now().UTC()
	if err := uc.Meetings.BeginProcessing(ctx, m.ID, endTime, in.Transcript); err != nil {
		switch err {
		case meeting.ErrNotFound, meeting.ErrStateConflict:
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	m.Status = meeting.StatusProcessing
	m.EndTime = &endTime
	m.Transcript = in.Transcript

	payload := ProcessMeetingPayload{
		MeetingID:      m.ID,
		Transcript:     in.Transcript,
		ParticipantIDs: m.ParticipantIDs,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode job payload: %v", ErrQueueUnavailable, err)
	}

	_, err = uc.Queue.Enqueue(ctx,
		qport.Task{Type: ProcessMeetingTaskType, Payload: raw},
		qport.EnqueueOption{Queue: MeetingQueue, MaxRetry: processMaxRetry},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}

	return m, nil
}
