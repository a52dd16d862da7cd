package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
)

func TestGetMeeting_MemberSeesRecordWithTasks(t *testing.T) {
	repo := newFakeMeetingRepo()
	m := processingMeeting("m1", "host", "alice")
	m.Status = meeting.StatusCompleted
	repo.put(m)
	tasks := newFakeTaskRepo()
	_, err := tasks.ReplaceForMeeting(context.Background(), "m1", []meeting.Task{
		{MeetingID: "m1", Title: "Follow up", Status: meeting.TaskStatusToDo},
	})
	require.NoError(t, err)

	uc := NewGetMeetingUseCase(repo, tasks)

	out, err := uc.Execute(context.Background(), GetMeetingInput{MeetingID: "m1", CallerID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "m1", out.Meeting.ID)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "Follow up", out.Tasks[0].Title)
}

func TestGetMeeting_NonMemberForbidden(t *testing.T) {
	repo := newFakeMeetingRepo()
	repo.put(processingMeeting("m1", "host"))
	uc := NewGetMeetingUseCase(repo, newFakeTaskRepo())

	_, err := uc.Execute(context.Background(), GetMeetingInput{MeetingID: "m1", CallerID: "mallory"})
	assert.ErrorIs(t, err, meeting.ErrForbidden)
}

func TestGetMeeting_Unknown(t *testing.T) {
	uc := NewGetMeetingUseCase(newFakeMeetingRepo(), newFakeTaskRepo())

	_, err := uc.Execute(context.Background(), GetMeetingInput{MeetingID: "nope", CallerID: "host"})
	assert.ErrorIs(t, err, meeting.ErrNotFound)
}

func TestListMeetings_OnlyMemberMeetings(t *testing.T) {
	repo := newFakeMeetingRepo()
	repo.put(processingMeeting("m1", "host", "alice"))
	repo.put(processingMeeting("m2", "alice"))
	repo.put(processingMeeting("m3", "bob"))
	uc := NewListMeetingsUseCase(repo)

	out, err := uc.Execute(context.Background(), ListMeetingsInput{CallerID: "alice"})
	require.NoError(t, err)
	ids := make([]string, 0, len(out))
	for _, o := range out {
		ids = append(ids, o.ID)
	}
	assert.ElementsMatch(t, []string{"m1", "m2"}, ids)
}

func TestListMeetings_RequiresCaller(t *testing.T) {
	uc := NewListMeetingsUseCase(newFakeMeetingRepo())
	_, err := uc.Execute(context.Background(), ListMeetingsInput{})
	assert.ErrorIs(t, err, meeting.ErrValidation)
}
