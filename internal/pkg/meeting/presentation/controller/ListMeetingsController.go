package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/usecase"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/persistence/repository/adapter"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/presentation/middleware"
)

// ListMeetingsController lists the caller's meetings, newest first.
type ListMeetingsController struct {
	UC *usecase.ListMeetingsUseCase
}

func NewListMeetingsController(pool *pgxpool.Pool) *ListMeetingsController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &ListMeetingsController{UC: usecase.NewListMeetingsUseCase(repo)}
}

func (h *ListMeetingsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		if caller == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		meetings, err := h.UC.Execute(ctx, usecase.ListMeetingsInput{CallerID: caller.ID})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(meetings))
		for _, m := range meetings {
			out = append(out, gin.H{
				"id":         m.ID,
				"title":      m.Title,
				"status":     m.Status,
				"start_time": m.StartTime,
				"end_time":   m.EndTime,
			})
		}
		c.JSON(http.StatusOK, gin.H{"meetings": out, "count": len(out)})
	}
}
