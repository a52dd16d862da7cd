package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/platform/presentation/controller"
)

// RegisterRoutes registers the mocked platform OAuth endpoints under the
// given (already authenticated) router group.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool) {
	oauthCtl := controller.NewPlatformOAuthController(pool)

	// GET /api/v1/platform/oauth/url -> authorization URL for the caller
	g.GET("/platform/oauth/url", oauthCtl.HandleURL())

	// POST /api/v1/platform/oauth/callback -> consume the code (mocked)
	g.POST("/platform/oauth/callback", oauthCtl.HandleCallback())
}
