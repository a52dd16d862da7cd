package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	user "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/domain"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/repository/adapter"
	repository "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/repository/port"
)

// ContextUserKey is where the authenticated user is stored on the gin context.
const ContextUserKey = "currentUser"

// RequireUser resolves the caller from the X-User-ID header against the user
// directory and aborts with 401 when it is missing or unknown. Token
// verification happens upstream; this service only needs the resolved
// identity.
func RequireUser(pool *pgxpool.Pool) gin.HandlerFunc {
	return requireUser(adapter.NewPgUserRepository(pool))
}

func requireUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-User-ID")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		u, err := users.FindByID(ctx, id)
		if errors.Is(err, user.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
			return
		}

		c.Set(ContextUserKey, u)
		c.Next()
	}
}

// CurrentUser fetches the user attached by RequireUser.
func CurrentUser(c *gin.Context) *user.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}
