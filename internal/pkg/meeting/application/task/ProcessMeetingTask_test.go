package task

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qport "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/queue/port"
	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/usecase"
	user "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/domain"
)

type stubMeetingRepo struct {
	mu        sync.Mutex
	status    map[string]meeting.Status
	completed []string
	errored   []string
}

func newStubMeetingRepo(id string, status meeting.Status) *stubMeetingRepo {
	return &stubMeetingRepo{status: map[string]meeting.Status{id: status}}
}

func (r *stubMeetingRepo) Create(_ context.Context, _ meeting.Meeting) (string, error) {
	return "", errors.New("not used")
}

func (r *stubMeetingRepo) GetByID(_ context.Context, _ string) (*meeting.Meeting, error) {
	return nil, meeting.ErrNotFound
}

func (r *stubMeetingRepo) ListByMember(_ context.Context, _ string) ([]meeting.Overview, error) {
	return nil, nil
}

func (r *stubMeetingRepo) BeginProcessing(_ context.Context, _ string, _ time.Time, _ []meeting.TranscriptEntry) error {
	return nil
}

func (r *stubMeetingRepo) CompleteProcessing(_ context.Context, id string, _ meeting.CompletionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.status[id]
	if !ok {
		return meeting.ErrNotFound
	}
	if s != meeting.StatusProcessing && s != meeting.StatusCompleted {
		return meeting.ErrStateConflict
	}
	r.status[id] = meeting.StatusCompleted
	r.completed = append(r.completed, id)
	return nil
}

func (r *stubMeetingRepo) MarkError(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.status[id]
	if !ok {
		return meeting.ErrNotFound
	}
	if s != meeting.StatusProcessing && s != meeting.StatusError {
		return meeting.ErrStateConflict
	}
	r.status[id] = meeting.StatusError
	r.errored = append(r.errored, id)
	return nil
}

type stubTaskRepo struct{}

func (stubTaskRepo) ReplaceForMeeting(_ context.Context, _ string, tasks []meeting.Task) ([]string, error) {
	return make([]string, len(tasks)), nil
}

func (stubTaskRepo) ListByMeeting(_ context.Context, _ string) ([]meeting.Task, error) {
	return nil, nil
}

type stubUserRepo struct{}

func (stubUserRepo) FindByID(_ context.Context, _ string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (stubUserRepo) FindByNameAmong(_ context.Context, _ string, _ []string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (stubUserRepo) SetPlatformConnected(_ context.Context, _ string, _ bool) error { return nil }

type stubAnalyzer struct {
	result *meeting.AnalysisResult
	err    error
}

func (a stubAnalyzer) Analyze(_ context.Context, _ []meeting.TranscriptEntry) (*meeting.AnalysisResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []LifecycleEvent
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	if channel != EventsChannel {
		return errors.New("unexpected channel")
	}
	var ev LifecycleEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func handlerUnderTest(repo *stubMeetingRepo, analyzer stubAnalyzer, pub *recordingPublisher) qport.Handler {
	uc := usecase.NewProcessMeetingUseCase(repo, stubTaskRepo{}, stubUserRepo{}, analyzer, nil)
	return newProcessMeetingHandler(uc, pub, zerolog.Nop())
}

func processPayload(t *testing.T, meetingID string) []byte {
	t.Helper()
	raw, err := json.Marshal(usecase.ProcessMeetingPayload{
		MeetingID:  meetingID,
		Transcript: []meeting.TranscriptEntry{{SpeakerName: "Alice", Text: "Quick sync."}},
	})
	require.NoError(t, err)
	return raw
}

func TestHandler_SuccessPublishesCompleted(t *testing.T) {
	repo := newStubMeetingRepo("m1", meeting.StatusProcessing)
	pub := &recordingPublisher{}
	h := handlerUnderTest(repo, stubAnalyzer{result: &meeting.AnalysisResult{Summary: "Done."}}, pub)

	err := h(context.Background(), qport.Task{
		Type:     usecase.ProcessMeetingTaskType,
		Payload:  processPayload(t, "m1"),
		MaxRetry: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"m1"}, repo.completed)
	require.Len(t, pub.events, 1)
	assert.Equal(t, LifecycleEvent{Event: "meeting:completed", MeetingID: "m1"}, pub.events[0])
}

func TestHandler_RetryableFailureLeavesRecordAlone(t *testing.T) {
	repo := newStubMeetingRepo("m1", meeting.StatusProcessing)
	pub := &recordingPublisher{}
	h := handlerUnderTest(repo, stubAnalyzer{err: errors.New("model unavailable")}, pub)

	// First attempt of three: retries remain, the meeting stays PROCESSING.
	err := h(context.Background(), qport.Task{
		Type:       usecase.ProcessMeetingTaskType,
		Payload:    processPayload(t, "m1"),
		RetryCount: 0,
		MaxRetry:   2,
	})
	require.Error(t, err)

	assert.Equal(t, meeting.StatusProcessing, repo.status["m1"])
	assert.Empty(t, repo.errored)
	assert.Empty(t, pub.events)
}

func TestHandler_FinalFailureMarksErrorAndPublishes(t *testing.T) {
	repo := newStubMeetingRepo("m1", meeting.StatusProcessing)
	pub := &recordingPublisher{}
	h := handlerUnderTest(repo, stubAnalyzer{err: errors.New("model unavailable")}, pub)

	// Third attempt: both retries are spent, so this failure is terminal.
	err := h(context.Background(), qport.Task{
		Type:       usecase.ProcessMeetingTaskType,
		Payload:    processPayload(t, "m1"),
		RetryCount: 2,
		MaxRetry:   2,
	})
	require.Error(t, err)

	assert.Equal(t, meeting.StatusError, repo.status["m1"])
	assert.Equal(t, []string{"m1"}, repo.errored)
	require.Len(t, pub.events, 1)
	assert.Equal(t, LifecycleEvent{Event: "meeting:failed", MeetingID: "m1"}, pub.events[0])
}

func TestHandler_PartialDecodeStillMarksError(t *testing.T) {
	repo := newStubMeetingRepo("m1", meeting.StatusProcessing)
	pub := &recordingPublisher{}
	h := handlerUnderTest(repo, stubAnalyzer{}, pub)

	// The meeting id decodes before the malformed transcript field, so the
	// final attempt can still mark the record.
	err := h(context.Background(), qport.Task{
		Type:       usecase.ProcessMeetingTaskType,
		Payload:    []byte(`{"meetingId":"m1","transcript":42}`),
		RetryCount: 2,
		MaxRetry:   2,
	})
	require.Error(t, err)

	assert.Equal(t, meeting.StatusError, repo.status["m1"])
	require.Len(t, pub.events, 1)
	assert.Equal(t, "meeting:failed", pub.events[0].Event)
}

func TestHandler_UndecodableMeetingIDArchivesQuietly(t *testing.T) {
	repo := newStubMeetingRepo("m1", meeting.StatusProcessing)
	pub := &recordingPublisher{}
	h := handlerUnderTest(repo, stubAnalyzer{}, pub)

	err := h(context.Background(), qport.Task{
		Type:       usecase.ProcessMeetingTaskType,
		Payload:    []byte(`not json`),
		RetryCount: 2,
		MaxRetry:   2,
	})
	require.Error(t, err)

	assert.Equal(t, meeting.StatusProcessing, repo.status["m1"])
	assert.Empty(t, pub.events)
}
