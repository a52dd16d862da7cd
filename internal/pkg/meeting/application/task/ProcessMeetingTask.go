package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	cacheport "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/cache/port"
	pubsubport "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/pubsub/port"
	qport "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/queue/port"
	analysisport "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/analysis/port"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/analytics"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/usecase"
	repoAdapter "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/persistence/repository/adapter"
	userAdapter "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/repository/adapter"
)

// EventsChannel is the pub/sub channel carrying meeting lifecycle events from
// worker processes to the API nodes that own the live connections.
const EventsChannel = "meeting:events"

// LifecycleEvent is the message published when a job reaches a terminal state.
type LifecycleEvent struct {
	Event     string `json:"event"` // "meeting:completed" | "meeting:failed"
	MeetingID string `json:"meetingId"`
}

// processTimeout bounds one job execution, model call included.
const processTimeout = 3 * time.Minute

// RegisterProcessMeetingTask binds the meeting-processing handler to the
// worker server. The handler retries through the queue's backoff policy; when
// the budget is exhausted it marks the meeting ERROR before letting the task
// fall into the archive.
func RegisterProcessMeetingTask(
	srv qport.Server,
	pool *pgxpool.Pool,
	cache cacheport.Cache,
	analyzer analysisport.Analyzer,
	publisher pubsubport.Publisher,
	log zerolog.Logger,
) {
	meetings := repoAdapter.NewPgMeetingRepository(pool)
	tasks := repoAdapter.NewPgTaskRepository(pool)
	users := userAdapter.NewPgUserRepository(pool)
	tracker := analytics.NewSpeakerTracker(cache)
	uc := usecase.NewProcessMeetingUseCase(meetings, tasks, users, analyzer, tracker)

	srv.Register(usecase.ProcessMeetingTaskType, newProcessMeetingHandler(uc, publisher, log))
}

func newProcessMeetingHandler(uc *usecase.ProcessMeetingUseCase, publisher pubsubport.Publisher, log zerolog.Logger) qport.Handler {
	return func(ctx context.Context, t qport.Task) error {
		var p usecase.ProcessMeetingPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// A payload we cannot decode will never succeed. Decoding keeps
			// the fields read before the failure, so when a meeting id is
			// recognizable the final attempt still marks that meeting ERROR;
			// otherwise there is nothing to mark and the task just archives.
			if t.LastAttempt() {
				failTerminally(ctx, uc, publisher, p.MeetingID, log)
			}
			return fmt.Errorf("decode payload: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, processTimeout)
		defer cancel()

		log.Info().
			Str("meeting_id", p.MeetingID).
			Int("attempt", t.RetryCount+1).
			Msg("processing meeting")

		if err := uc.Execute(ctx, usecase.ProcessMeetingInput{
			MeetingID:      p.MeetingID,
			Transcript:     p.Transcript,
			ParticipantIDs: p.ParticipantIDs,
		}); err != nil {
			if t.LastAttempt() {
				failTerminally(ctx, uc, publisher, p.MeetingID, log)
			}
			return err
		}

		log.Info().Str("meeting_id", p.MeetingID).Msg("meeting processed")
		publish(ctx, publisher, LifecycleEvent{Event: "meeting:completed", MeetingID: p.MeetingID}, log)
		return nil
	}
}

// failTerminally writes the ERROR state and announces the failure. Both steps
// are idempotent, so running this more than once for the same job is safe.
func failTerminally(ctx context.Context, uc *usecase.ProcessMeetingUseCase, publisher pubsubport.Publisher, meetingID string, log zerolog.Logger) {
	if meetingID == "" {
		return
	}
	if err := uc.MarkFailed(ctx, meetingID); err != nil {
		log.Error().Str("meeting_id", meetingID).Err(err).Msg("failed to mark meeting as errored")
		return
	}
	log.Warn().Str("meeting_id", meetingID).Msg("meeting marked as errored after exhausting retries")
	publish(ctx, publisher, LifecycleEvent{Event: "meeting:failed", MeetingID: meetingID}, log)
}

// publish is best-effort: the durable record already holds the outcome, the
// event only wakes up live clients.
func publish(ctx context.Context, publisher pubsubport.Publisher, ev LifecycleEvent, log zerolog.Logger) {
	if publisher == nil {
		return
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := publisher.Publish(ctx, EventsChannel, raw); err != nil {
		log.Warn().Str("meeting_id", ev.MeetingID).Err(err).Msg("failed to publish lifecycle event")
	}
}
