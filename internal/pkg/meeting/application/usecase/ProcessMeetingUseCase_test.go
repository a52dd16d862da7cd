package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	user "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/domain"
)

func processingMeeting(id, hostID string, participants ...string) meeting.Meeting {
	end := time.Now().UTC()
	return meeting.Meeting{
		ID:                id,
		PlatformMeetingID: "zoom-" + id,
		Title:             "Planning",
		HostID:            hostID,
		ParticipantIDs:    append([]string{hostID}, participants...),
		Status:            meeting.StatusProcessing,
		StartTime:         end.Add(-time.Hour),
		EndTime:           &end,
	}
}

func TestProcessMeeting_SuccessCommitsEverything(t *testing.T) {
	repo := newFakeMeetingRepo()
	repo.put(processingMeeting("m1", "ua", "ub"))
	tasks := newFakeTaskRepo()
	users := newFakeUserRepo(
		&user.User{ID: "ua", Name: "Alice", Email: "alice@example.com"},
		&user.User{ID: "ub", Name: "b", Email: "b@example.com"},
	)
	analyzer := &fakeAnalyzer{result: &meeting.AnalysisResult{
		Summary:      "Planned the release.",
		KeyDecisions: []string{"Ship Friday"},
		Tasks: []meeting.ActionItem{
			{Title: "Write release notes", Assignee: "B", Deadline: "Friday"},
			{Title: "Book retro", Assignee: "Unassigned"},
			{Title: "Ping legal", Assignee: "Charlie"},
		},
	}}
	speak := &fakeSpeakTime{totals: map[string]float64{"ub": 12.5, "ua": 40.25}}

	uc := NewProcessMeetingUseCase(repo, tasks, users, analyzer, speak)
	input := ProcessMeetingInput{
		MeetingID:      "m1",
		Transcript:     []meeting.TranscriptEntry{{SpeakerName: "Alice", Text: "Ship Friday, B writes the release notes."}},
		ParticipantIDs: []string{"ua", "ub"},
	}

	require.NoError(t, uc.Execute(context.Background(), input))

	m, err := repo.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, meeting.StatusCompleted, m.Status)
	require.NotNil(t, m.Summary)
	assert.Equal(t, "Planned the release.", *m.Summary)
	assert.Equal(t, []string{"Ship Friday"}, m.KeyDecisions)

	require.NotNil(t, m.Analytics)
	require.Len(t, m.Analytics.SpeakerStats, 2)
	assert.Equal(t, meeting.SpeakerStat{SpeakerID: "ua", SpeakTime: 40.25}, m.Analytics.SpeakerStats[0])
	assert.Equal(t, meeting.SpeakerStat{SpeakerID: "ub", SpeakTime: 12.5}, m.Analytics.SpeakerStats[1])
	assert.NotEmpty(t, m.Analytics.WordCloud)

	got, err := tasks.ListByMeeting(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	// "B" matches user ub case-insensitively.
	require.NotNil(t, got[0].AssignedTo)
	assert.Equal(t, "ub", *got[0].AssignedTo)
	assert.Equal(t, "Friday", got[0].Deadline)
	assert.Equal(t, meeting.TaskStatusToDo, got[0].Status)
	// Explicitly unassigned and unresolvable names stay unassigned.
	assert.Nil(t, got[1].AssignedTo)
	assert.Nil(t, got[2].AssignedTo)

	assert.Equal(t, []string{"m1"}, speak.released)
}

func TestProcessMeeting_AnalyzerFailureLeavesRecordUntouched(t *testing.T) {
	repo := newFakeMeetingRepo()
	repo.put(processingMeeting("m1", "ua"))
	tasks := newFakeTaskRepo()
	analyzer := &fakeAnalyzer{err: errors.New("model unavailable")}
	speak := &fakeSpeakTime{}

	uc := NewProcessMeetingUseCase(repo, tasks, newFakeUserRepo(), analyzer, speak)
	err := uc.Execute(context.Background(), ProcessMeetingInput{MeetingID: "m1"})
	require.Error(t, err)

	m, _ := repo.GetByID(context.Background(), "m1")
	assert.Equal(t, meeting.StatusProcessing, m.Status)
	assert.Nil(t, m.Summary)
	assert.Equal(t, 0, tasks.replaces)
	assert.Empty(t, speak.released)
}

func TestProcessMeeting_RedeliveryConverges(t *testing.T) {
	repo := newFakeMeetingRepo()
	repo.put(processingMeeting("m1", "ua"))
	tasks := newFakeTaskRepo()
	analyzer := &fakeAnalyzer{result: &meeting.AnalysisResult{
		Summary: "Short sync.",
		Tasks:   []meeting.ActionItem{{Title: "Follow up"}},
	}}

	uc := NewProcessMeetingUseCase(repo, tasks, newFakeUserRepo(), analyzer, &fakeSpeakTime{})
	input := ProcessMeetingInput{MeetingID: "m1", ParticipantIDs: []string{"ua"}}

	require.NoError(t, uc.Execute(context.Background(), input))
	require.NoError(t, uc.Execute(context.Background(), input))

	m, _ := repo.GetByID(context.Background(), "m1")
	assert.Equal(t, meeting.StatusCompleted, m.Status)

	got, _ := tasks.ListByMeeting(context.Background(), "m1")
	assert.Len(t, got, 1)
	assert.Equal(t, 2, tasks.replaces)
}

func TestProcessMeeting_SkipsEmptyTitles(t *testing.T) {
	repo := newFakeMeetingRepo()
	repo.put(processingMeeting("m1", "ua"))
	tasks := newFakeTaskRepo()
	analyzer := &fakeAnalyzer{result: &meeting.AnalysisResult{
		Summary: "Sync.",
		Tasks:   []meeting.ActionItem{{Title: "  "}, {Title: "Real task"}},
	}}

	uc := NewProcessMeetingUseCase(repo, tasks, newFakeUserRepo(), analyzer, &fakeSpeakTime{})
	require.NoError(t, uc.Execute(context.Background(), ProcessMeetingInput{MeetingID: "m1"}))

	got, _ := tasks.ListByMeeting(context.Background(), "m1")
	require.Len(t, got, 1)
	assert.Equal(t, "Real task", got[0].Title)
}

func TestProcessMeeting_CounterFailureDegradesToEmptyStats(t *testing.T) {
	repo := newFakeMeetingRepo()
	repo.put(processingMeeting("m1", "ua"))
	analyzer := &fakeAnalyzer{result: &meeting.AnalysisResult{Summary: "Sync."}}
	speak := &fakeSpeakTime{totalsErr: errors.New("redis down")}

	uc := NewProcessMeetingUseCase(repo, newFakeTaskRepo(), newFakeUserRepo(), analyzer, speak)
	require.NoError(t, uc.Execute(context.Background(), ProcessMeetingInput{MeetingID: "m1"}))

	m, _ := repo.GetByID(context.Background(), "m1")
	assert.Equal(t, meeting.StatusCompleted, m.Status)
	require.NotNil(t, m.Analytics)
	assert.Empty(t, m.Analytics.SpeakerStats)
}

func TestMarkFailed_SetsErrorAndIsRepeatable(t *testing.T) {
	repo := newFakeMeetingRepo()
	repo.put(processingMeeting("m1", "ua"))
	uc := NewProcessMeetingUseCase(repo, newFakeTaskRepo(), newFakeUserRepo(), &fakeAnalyzer{}, nil)

	require.NoError(t, uc.MarkFailed(context.Background(), "m1"))
	require.NoError(t, uc.MarkFailed(context.Background(), "m1"))

	m, _ := repo.GetByID(context.Background(), "m1")
	assert.Equal(t, meeting.StatusError, m.Status)
}

func TestMarkFailed_NeverDemotesCompleted(t *testing.T) {
	repo := newFakeMeetingRepo()
	m := processingMeeting("m1", "ua")
	m.Status = meeting.StatusCompleted
	repo.put(m)
	uc := NewProcessMeetingUseCase(repo, newFakeTaskRepo(), newFakeUserRepo(), &fakeAnalyzer{}, nil)

	require.NoError(t, uc.MarkFailed(context.Background(), "m1"))

	got, _ := repo.GetByID(context.Background(), "m1")
	assert.Equal(t, meeting.StatusCompleted, got.Status)
}
