package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/usecase"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/persistence/repository/adapter"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/presentation/middleware"
)

// GetMeetingController serves the full meeting record, tasks included. This
// is the poll target for clients waiting on processing.
type GetMeetingController struct {
	UC *usecase.GetMeetingUseCase
}

func NewGetMeetingController(pool *pgxpool.Pool) *GetMeetingController {
	meetings := adapter.NewPgMeetingRepository(pool)
	tasks := adapter.NewPgTaskRepository(pool)
	return &GetMeetingController{UC: usecase.NewGetMeetingUseCase(meetings, tasks)}
}

func (h *GetMeetingController) Handle() gin.HandlerFunc {
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

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.GetMeetingInput{MeetingID: meetingID, CallerID: caller.ID})
		if err != nil {
			switch {
			case errors.Is(err, meeting.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
			case errors.Is(err, meeting.ErrForbidden):
				c.JSON(http.StatusForbidden, gin.H{"error": "you do not have access to this meeting"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected persistence error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, toMeetingResponse(out.Meeting, out.Tasks))
	}
}

func toMeetingResponse(m *meeting.Meeting, tasks []meeting.Task) gin.H {
	taskOut := make([]gin.H, 0, len(tasks))
	for _, t := range tasks {
		taskOut = append(taskOut, gin.H{
			"id":          t.ID,
			"title":       t.Title,
			"assigned_to": t.AssignedTo,
			"status":      t.Status,
			"deadline":    t.Deadline,
			"created_at":  t.CreatedAt,
		})
	}

	out := gin.H{
		"id":                  m.ID,
		"platform_meeting_id": m.PlatformMeetingID,
		"title":               m.Title,
		"host_id":             m.HostID,
		"participant_ids":     m.ParticipantIDs,
		"status":              m.Status,
		"start_time":          m.StartTime,
		"end_time":            m.EndTime,
		"transcript":          m.Transcript,
		"summary":             m.Summary,
		"key_decisions":       m.KeyDecisions,
		"action_items":        taskOut,
	}
	if m.Analytics != nil {
		out["analytics"] = m.Analytics
	}
	return out
}
