package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paintshop/internal/domain"
)

const guestTokenHeader = "X-Guest-Token"

type ctxKey string

const actorCtxKey ctxKey = "actor"

// identityMiddleware resolves the session and guest tokens into an Actor. Invalid tokens
// leave the request anonymous; the require* middlewares reject it where identity matters.
func identityMiddleware(sessions SessionService, guests GuestService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var actor domain.Actor
		if token := bearerToken(c); token != "" {
			u, err := sessions.Authenticate(c.Request.Context(), token)
			switch {
			case err == nil:
				actor.User = u
			case errors.Is(err, domain.ErrUnauthorized):
			default:
				logger.Error("authenticate", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
		}
		if token := strings.TrimSpace(c.GetHeader(guestTokenHeader)); token != "" {
			if id, err := guests.Lookup(token); err == nil {
				actor.GuestID = id
			}
		}
		ctx := context.WithValue(c.Request.Context(), actorCtxKey, actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func actorFrom(c *gin.Context) domain.Actor {
	actor, _ := c.Request.Context().Value(actorCtxKey).(domain.Actor)
	return actor
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func requireUser(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := domain.RequireUser(actorFrom(c)); err != nil {
			writeError(c, logger, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func requireAdmin(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := domain.RequireAdmin(actorFrom(c)); err != nil {
			writeError(c, logger, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireIdentity admits users and guests.
func requireIdentity(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorFrom(c).OwnerID() == "" {
			writeError(c, logger, domain.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
