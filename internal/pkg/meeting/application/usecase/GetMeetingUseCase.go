package usecase

import (
	"context"
	"fmt"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	repository "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/persistence/repository/port"
)

// GetMeetingInput identifies the record and the caller asking for it.
type GetMeetingInput struct {
	MeetingID string
	CallerID  string
}

// GetMeetingOutput is the record plus its action items.
type GetMeetingOutput struct {
	Meeting *meeting.Meeting
	Tasks   []meeting.Task
}

// GetMeetingUseCase fetches a single meeting for a member. Clients poll this
// to observe the terminal outcome of processing.
type GetMeetingUseCase struct {
	Meetings repository.MeetingRepository
	Tasks    repository.TaskRepository
}

func NewGetMeetingUseCase(meetings repository.MeetingRepository, tasks repository.TaskRepository) *GetMeetingUseCase {
	return &GetMeetingUseCase{Meetings: meetings, Tasks: tasks}
}

func (uc *GetMeetingUseCase) Execute(ctx context.Context, in GetMeetingInput) (*GetMeetingOutput, error) {
	if in.MeetingID == "" || in.CallerID == "" {
		return nil, fmt.Errorf("%w: meeting id and caller id are required", meeting.ErrValidation)
	}

	m, err := uc.Meetings.GetByID(ctx, in.MeetingID)
	if err != nil {
		if err == meeting.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !m.IsMember(in.CallerID) {
		return nil, meeting.ErrForbidden
	}

	tasks, err := uc.Tasks.ListByMeeting(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &GetMeetingOutput{Meeting: m, Tasks: tasks}, nil
}
