package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/queue/port"
	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/usecase"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/persistence/repository/adapter"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/presentation/middleware"
)

// EndMeetingController handles the end-of-meeting submission. It answers 202:
// the analysis outcome lands on the record asynchronously.
type EndMeetingController struct {
	UC *usecase.EndMeetingUseCase
}

func NewEndMeetingController(pool *pgxpool.Pool, queue qport.Client) *EndMeetingController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &EndMeetingController{UC: usecase.NewEndMeetingUseCase(repo, queue)}
}

type transcriptEntryRequest struct {
	SpeakerName string    `json:"speaker_name" binding:"required"`
	SpeakerID   string    `json:"speaker_id"`
	Text        string    `json:"text" binding:"required"`
	Timestamp   time.Time `json:"timestamp"`
}

type endMeetingRequest struct {
	Transcript []transcriptEntryRequest `json:"transcript" binding:"required"`
}

func (h *EndMeetingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		if caller == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		meetingID := c.Param("meetingId")
		if meetingID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "meetingId is required"})
			return
		}

		var req endMeetingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		transcript := make([]meeting.TranscriptEntry, 0, len(req.Transcript))
		for _, e := range req.Transcript {
			ts := e.Timestamp
			if ts.IsZero() {
				ts = time.Now().UTC()
			}
			transcript = append(transcript, meeting.TranscriptEntry{
				SpeakerName: e.SpeakerName,
				SpeakerID:   e.SpeakerID,
				Text:        e.Text,
				Timestamp:   ts,
			})
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		m, err := h.UC.Execute(ctx, usecase.EndMeetingInput{
			MeetingID:  meetingID,
			CallerID:   caller.ID,
			Transcript: transcript,
		})
		if err != nil {
			h.replyError(c, err)
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"message":  "Meeting ended. Summary processing has started.",
			"id":       m.ID,
			"status":   m.Status,
			"end_time": m.EndTime,
		})
	}
}

func (h *EndMeetingController) replyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, meeting.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
	case errors.Is(err, meeting.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the host can end the meeting"})
	case errors.Is(err, meeting.ErrStateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "meeting is not live"})
	case errors.Is(err, meeting.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrQueueUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to queue meeting for processing"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
	}
}
