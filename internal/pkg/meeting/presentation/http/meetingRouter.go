package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	qport "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/queue/port"
	"github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/realtime"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/analytics"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/presentation/controller"
)

// RegisterRoutes registers meeting HTTP endpoints under the given (already
// authenticated) router group, and the websocket endpoint under wsGroup. The
// websocket does its own handshake authentication.
func RegisterRoutes(g *gin.RouterGroup, wsGroup *gin.RouterGroup, pool *pgxpool.Pool, queue qport.Client, hub *realtime.Hub, tracker *analytics.SpeakerTracker, log zerolog.Logger) {
	startCtl := controller.NewStartMeetingController(pool, hub)
	endCtl := controller.NewEndMeetingController(pool, queue)
	getCtl := controller.NewGetMeetingController(pool)
	listCtl := controller.NewListMeetingsController(pool)
	socketCtl := controller.NewMeetingSocketController(pool, hub, tracker, log)

	// POST /api/v1/meetings/start -> open a LIVE meeting
	g.POST("/meetings/start", startCtl.Handle())

	// POST /api/v1/meetings/:meetingId/end -> submit transcript, 202
	g.POST("/meetings/:meetingId/end", endCtl.Handle())

	// GET /api/v1/meetings/:meetingId -> full record incl. action items
	g.GET("/meetings/:meetingId", getCtl.Handle())

	// GET /api/v1/meetings -> caller's meetings
	g.GET("/meetings", listCtl.Handle())

	// GET /api/v1/meetings/ws -> websocket endpoint for live meetings
	wsGroup.GET("/meetings/ws", socketCtl.Handle())
}
