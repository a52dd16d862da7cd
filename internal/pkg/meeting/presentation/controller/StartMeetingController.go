package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/realtime"
	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/usecase"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/persistence/repository/adapter"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/presentation/middleware"
)

// StartMeetingController handles the meeting start endpoint (one controller
// per endpoint). Invited participants with a live connection get a targeted
// meeting:started event.
type StartMeetingController struct {
	UC  *usecase.StartMeetingUseCase
	Hub *realtime.Hub
}

func NewStartMeetingController(pool *pgxpool.Pool, hub *realtime.Hub) *StartMeetingController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &StartMeetingController{UC: usecase.NewStartMeetingUseCase(repo), Hub: hub}
}

type startMeetingRequest struct {
	PlatformMeetingID string   `json:"platform_meeting_id" binding:"required"`
	Title             string   `json:"title"`
	ParticipantIDs    []string `json:"participant_ids"`
}

type meetingStartedEvent struct {
	Event     string         `json:"event"`
	MeetingID string         `json:"meeting_id"`
	Title     string         `json:"title"`
	HostID    string         `json:"host_id"`
	Status    meeting.Status `json:"status"`
}

func (h *StartMeetingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		if caller == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var req startMeetingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		m, err := h.UC.Execute(ctx, usecase.StartMeetingInput{
			PlatformMeetingID: req.PlatformMeetingID,
			Title:             req.Title,
			HostID:            caller.ID,
			ParticipantIDs:    req.ParticipantIDs,
		})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		h.notifyParticipants(m)

		c.JSON(http.StatusCreated, gin.H{
			"id":                  m.ID,
			"platform_meeting_id": m.PlatformMeetingID,
			"title":               m.Title,
			"host_id":             m.HostID,
			"participant_ids":     m.ParticipantIDs,
			"status":              m.Status,
			"start_time":          m.StartTime,
		})
	}
}

func (h *StartMeetingController) notifyParticipants(m *meeting.Meeting) {
	if h.Hub == nil {
		return
	}
	payload, err := json.Marshal(meetingStartedEvent{
		Event:     "meeting:started",
		MeetingID: m.ID,
		Title:     m.Title,
		HostID:    m.HostID,
		Status:    m.Status,
	})
	if err != nil {
		return
	}
	for _, uid := range m.ParticipantIDs {
		if uid == m.HostID {
			continue
		}
		_ = h.Hub.NotifyUser(uid, payload)
	}
}
