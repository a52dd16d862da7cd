package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	qport "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/queue/port"
	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	user "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/domain"
)

// fakeMeetingRepo is an in-memory MeetingRepository with the same guarded
// update semantics as the Postgres adapter.
type fakeMeetingRepo struct {
	mu       sync.Mutex
	meetings map[string]*meeting.Meeting
	nextID   int

	createErr   error
	completeErr error
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: map[string]*meeting.Meeting{}}
}

func (r *fakeMeetingRepo) put(m meeting.Meeting) *meeting.Meeting {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := m
	r.meetings[m.ID] = &cp
	return &cp
}

func (r *fakeMeetingRepo) Create(_ context.Context, m meeting.Meeting) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = fmt.Sprintf("m-%d", r.nextID)
	m.CreatedAt = time.Now().UTC()
	cp := m
	r.meetings[m.ID] = &cp
	return m.ID, nil
}

func (r *fakeMeetingRepo) GetByID(_ context.Context, id string) (*meeting.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, meeting.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMeetingRepo) ListByMember(_ context.Context, userID string) ([]meeting.Overview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []meeting.Overview
	for _, m := range r.meetings {
		if m.IsMember(userID) {
			out = append(out, meeting.Overview{ID: m.ID, Title: m.Title, Status: m.Status, StartTime: m.StartTime, EndTime: m.EndTime})
		}
	}
	return out, nil
}

func (r *fakeMeetingRepo) BeginProcessing(_ context.Context, id string, endTime time.Time, transcript []meeting.TranscriptEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return meeting.ErrNotFound
	}
	if m.Status != meeting.StatusLive {
		return meeting.ErrStateConflict
	}
	m.Status = meeting.StatusProcessing
	m.EndTime = &endTime
	m.Transcript = transcript
	return nil
}

func (r *fakeMeetingRepo) CompleteProcessing(_ context.Context, id string, rec meeting.CompletionRecord) error {
	if r.completeErr != nil {
		return r.completeErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return meeting.ErrNotFound
	}
	if m.Status != meeting.StatusProcessing && m.Status != meeting.StatusCompleted {
		return meeting.ErrStateConflict
	}
	m.Status = meeting.StatusCompleted
	summary := rec.Summary
	m.Summary = &summary
	m.KeyDecisions = rec.KeyDecisions
	analytics := rec.Analytics
	m.Analytics = &analytics
	return nil
}

func (r *fakeMeetingRepo) MarkError(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return meeting.ErrNotFound
	}
	if m.Status != meeting.StatusProcessing && m.Status != meeting.StatusError {
		return meeting.ErrStateConflict
	}
	m.Status = meeting.StatusError
	return nil
}

// fakeTaskRepo records replacements per meeting.
type fakeTaskRepo struct {
	mu       sync.Mutex
	byID     map[string][]meeting.Task
	replaces int

	replaceErr error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{byID: map[string][]meeting.Task{}}
}

func (r *fakeTaskRepo) ReplaceForMeeting(_ context.Context, meetingID string, tasks []meeting.Task) ([]string, error) {
	if r.replaceErr != nil {
		return nil, r.replaceErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaces++
	r.byID[meetingID] = tasks
	ids := make([]string, len(tasks))
	for i := range tasks {
		ids[i] = fmt.Sprintf("t-%d", i)
	}
	return ids, nil
}

func (r *fakeTaskRepo) ListByMeeting(_ context.Context, meetingID string) ([]meeting.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[meetingID], nil
}

// fakeUserRepo resolves names against a fixed directory.
type fakeUserRepo struct {
	users map[string]*user.User // id -> user

	findErr error
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*user.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByNameAmong(_ context.Context, name string, candidateIDs []string) (*user.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, id := range candidateIDs {
		u, ok := r.users[id]
		if !ok {
			continue
		}
		if strings.EqualFold(u.Name, name) {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *fakeUserRepo) SetPlatformConnected(_ context.Context, id string, connected bool) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.PlatformConnected = connected
	return nil
}

// fakeAnalyzer returns a canned result or error.
type fakeAnalyzer struct {
	result *meeting.AnalysisResult
	err    error
	calls  int
}

func (a *fakeAnalyzer) Analyze(_ context.Context, _ []meeting.TranscriptEntry) (*meeting.AnalysisResult, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

// enqueued is one recorded Enqueue call.
type enqueued struct {
	task qport.Task
	opts []qport.EnqueueOption
}

// fakeQueue records enqueued tasks.
type fakeQueue struct {
	mu    sync.Mutex
	tasks []enqueued
	err   error
}

func (q *fakeQueue) Enqueue(_ context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, enqueued{task: t, opts: opts})
	return "job-1", nil
}

func (q *fakeQueue) Close() error { return nil }

// fakeSpeakTime serves canned totals and records releases.
type fakeSpeakTime struct {
	totals    map[string]float64
	totalsErr error
	released  []string
}

func (s *fakeSpeakTime) Totals(_ context.Context, _ string) (map[string]float64, error) {
	if s.totalsErr != nil {
		return nil, s.totalsErr
	}
	return s.totals, nil
}

func (s *fakeSpeakTime) Release(_ context.Context, meetingID string) error {
	s.released = append(s.released, meetingID)
	return nil
}
