package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/platform/application/usecase"
	user "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/domain"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/presentation/middleware"
	userAdapter "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/repository/adapter"
)

// PlatformOAuthController handles the mocked meeting-platform OAuth surface.
type PlatformOAuthController struct {
	UC *usecase.ConnectPlatformUseCase
}

func NewPlatformOAuthController(pool *pgxpool.Pool) *PlatformOAuthController {
	users := userAdapter.NewPgUserRepository(pool)
	return &PlatformOAuthController{UC: usecase.NewConnectPlatformUseCase(users)}
}

func (h *PlatformOAuthController) HandleURL() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		if caller == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		url, err := h.UC.OAuthURL(caller.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

type oauthCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *PlatformOAuthController) HandleCallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		if caller == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var req oauthCallbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.UC.HandleCallback(ctx, caller.ID, req.Code); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown user"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to connect platform account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Platform account connected successfully (mock)."})
	}
}
