package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	qport "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/queue/port"
	"github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/realtime"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/analytics"
	meetingHTTP "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/presentation/http"
	platformHTTP "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/platform/presentation/http"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/presentation/middleware"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1. REST routes
// require the resolved caller identity; the websocket endpoint authenticates
// during its own handshake.
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, queue qport.Client, hub *realtime.Hub, tracker *analytics.SpeakerTracker, log zerolog.Logger) {
	v1 := r.Group("/api/v1")

	authed := v1.Group("", middleware.RequireUser(pool))
	meetingHTTP.RegisterRoutes(authed, v1, pool, queue, hub, tracker, log)
	platformHTTP.RegisterRoutes(authed, pool)
}
