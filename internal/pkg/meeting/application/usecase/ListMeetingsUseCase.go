package usecase

import (
	"context"
	"fmt"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	repository "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/persistence/repository/port"
)

// ListMeetingsInput wraps the caller whose meetings are listed.
type ListMeetingsInput struct {
	CallerID string
}

// ListMeetingsUseCase returns the caller's meetings, newest first.
type ListMeetingsUseCase struct {
	Meetings repository.MeetingRepository
}

func NewListMeetingsUseCase(meetings repository.MeetingRepository) *ListMeetingsUseCase {
	return &ListMeetingsUseCase{Meetings: meetings}
}

func (uc *ListMeetingsUseCase) Execute(ctx context.Context, in ListMeetingsInput) ([]meeting.Overview, error) {
	if in.CallerID == "" {
		return nil, fmt.Errorf("%w: caller id is required", meeting.ErrValidation)
	}
	out, err := uc.Meetings.ListByMember(ctx, in.CallerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return out, nil
}
