package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	analysisport "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/analysis/port"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/analytics"
	repository "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/persistence/repository/port"
	user "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/domain"
	userrepo "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/repository/port"
)

// SpeakTimeSource exposes the accumulated speak-time counters the realtime
// layer has been flushing during the live meeting.
type SpeakTimeSource interface {
	Totals(ctx context.Context, meetingID string) (map[string]float64, error)
	Release(ctx context.Context, meetingID string) error
}

// ProcessMeetingInput mirrors the queue payload: a snapshot of everything the
// worker needs.
type ProcessMeetingInput struct {
	MeetingID      string
	Transcript     []meeting.TranscriptEntry
	ParticipantIDs []string
}

// ProcessMeetingUseCase is the per-job worker algorithm: analyze the
// transcript, resolve assignees, persist tasks, then commit every terminal
// field of the meeting record in one absolute write. Each step is idempotent
// so an at-least-once redelivery converges on the same end state.
type ProcessMeetingUseCase struct {
	Meetings  repository.MeetingRepository
	Tasks     repository.TaskRepository
	Users     userrepo.UserRepository
	Analyzer  analysisport.Analyzer
	SpeakTime SpeakTimeSource
}

func NewProcessMeetingUseCase(
	meetings repository.MeetingRepository,
	tasks repository.TaskRepository,
	users userrepo.UserRepository,
	analyzer analysisport.Analyzer,
	speakTime SpeakTimeSource,
) *ProcessMeetingUseCase {
	return &ProcessMeetingUseCase{
		Meetings:  meetings,
		Tasks:     tasks,
		Users:     users,
		Analyzer:  analyzer,
		SpeakTime: speakTime,
	}
}

func (uc *ProcessMeetingUseCase) Execute(ctx context.Context, in ProcessMeetingInput) error {
	if in.MeetingID == "" {
		return fmt.Errorf("%w: meeting id is required", meeting.ErrValidation)
	}

	result, err := uc.Analyzer.Analyze(ctx, in.Transcript)
	if err != nil {
		return fmt.Errorf("analyze meeting %s: %w", in.MeetingID, err)
	}

	tasks, err := uc.resolveTasks(ctx, in.MeetingID, in.ParticipantIDs, result.Tasks)
	if err != nil {
		return err
	}

	if _, err := uc.Tasks.ReplaceForMeeting(ctx, in.MeetingID, tasks); err != nil {
		return fmt.Errorf("%w: persist tasks: %v", ErrPersistence, err)
	}

	rec := meeting.CompletionRecord{
		Summary:      result.Summary,
		KeyDecisions: result.KeyDecisions,
		Analytics:    uc.buildAnalytics(ctx, in.MeetingID, in.Transcript),
	}
	if err := uc.Meetings.CompleteProcessing(ctx, in.MeetingID, rec); err != nil {
		if errors.Is(err, meeting.ErrNotFound) || errors.Is(err, meeting.ErrStateConflict) {
			return err
		}
		return fmt.Errorf("%w: complete meeting: %v", ErrPersistence, err)
	}

	if uc.SpeakTime != nil {
		// Best-effort cleanup; totals are already merged.
		_ = uc.SpeakTime.Release(ctx, in.MeetingID)
	}
	return nil
}

// MarkFailed records the terminal ERROR state after the retry budget is
// exhausted. Guarded in the repository so repeating it is safe and a
// COMPLETED meeting is never demoted.
func (uc *ProcessMeetingUseCase) MarkFailed(ctx context.Context, meetingID string) error {
	err := uc.Meetings.MarkError(ctx, meetingID)
	if err != nil && !errors.Is(err, meeting.ErrStateConflict) {
		return err
	}
	return nil
}

// resolveTasks maps extracted action items to Task records, resolving each
// assignee name against the participant set with a case-insensitive exact
// match. Unmatched and explicitly unassigned items are created unassigned.
func (uc *ProcessMeetingUseCase) resolveTasks(ctx context.Context, meetingID string, participantIDs []string, items []meeting.ActionItem) ([]meeting.Task, error) {
	tasks := make([]meeting.Task, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Title) == "" {
			continue
		}

		var assignedTo *string
		name := strings.TrimSpace(item.Assignee)
		if name != "" && !strings.EqualFold(name, "Unassigned") && len(participantIDs) > 0 {
			u, err := uc.Users.FindByNameAmong(ctx, name, participantIDs)
			switch {
			case err == nil:
				assignedTo = &u.ID
			case errors.Is(err, user.ErrNotFound):
				// best-effort resolution: leave unassigned
			default:
				return nil, fmt.Errorf("%w: resolve assignee %q: %v", ErrPersistence, name, err)
			}
		}

		tasks = append(tasks, meeting.Task{
			MeetingID:  meetingID,
			Title:      item.Title,
			AssignedTo: assignedTo,
			Status:     meeting.TaskStatusToDo,
			Deadline:   item.Deadline,
		})
	}
	return tasks, nil
}

// buildAnalytics assembles the analytics object from the live counters and
// the transcript. Counter-store failures degrade to empty speaker stats
// rather than failing the job: the summary is the primary deliverable.
func (uc *ProcessMeetingUseCase) buildAnalytics(ctx context.Context, meetingID string, transcript []meeting.TranscriptEntry) meeting.Analytics {
	a := meeting.Analytics{
		WordCloud: analytics.WordFrequency(transcript),
	}

	if uc.SpeakTime == nil {
		return a
	}
	totals, err := uc.SpeakTime.Totals(ctx, meetingID)
	if err != nil {
		return a
	}

	speakers := make([]string, 0, len(totals))
	for sid := range totals {
		speakers = append(speakers, sid)
	}
	sort.Strings(speakers)
	for _, sid := range speakers {
		a.SpeakerStats = append(a.SpeakerStats, meeting.SpeakerStat{
			SpeakerID: sid,
			SpeakTime: totals[sid],
		})
	}
	return a
}
