package usecase

import (
	"context"
	"fmt"
	"time"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	repository "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/persistence/repository/port"
)

// StartMeetingInput carries the data to open a LIVE meeting. The host is
// always included as a participant.
type StartMeetingInput struct {
	PlatformMeetingID string
	Title             string
	HostID            string
	ParticipantIDs    []string
}

// StartMeetingUseCase creates the meeting record when a live meeting begins.
type StartMeetingUseCase struct {
	Meetings repository.MeetingRepository
}

func NewStartMeetingUseCase(meetings repository.MeetingRepository) *StartMeetingUseCase {
	return &StartMeetingUseCase{Meetings: meetings}
}

func (uc *StartMeetingUseCase) Execute(ctx context.Context, in StartMeetingInput) (*meeting.Meeting, error) {
	if in.PlatformMeetingID == "" || in.HostID == "" {
		return nil, fmt.Errorf("%w: platform meeting id and host id are required", meeting.ErrValidation)
	}
	title := in.Title
	if title == "" {
		title = "Untitled Meeting"
	}

	participants := make([]string, 0, len(in.ParticipantIDs)+1)
	seen := map[string]struct{}{}
	for _, id := range append([]string{in.HostID}, in.ParticipantIDs...) {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		participants = append(participants, id)
	}

	m := meeting.Meeting{
		PlatformMeetingID: in.PlatformMeetingID,
		Title:             title,
		HostID:            in.HostID,
		ParticipantIDs:    participants,
		Status:            meeting.StatusLive,
		StartTime:         time.Now().UTC(),
	}

	id, err := uc.Meetings.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	m.ID = id
	return &m, nil
}
