package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paintshop/internal/domain"
	sessionsvc "paintshop/internal/service/session"
)

type guestMerger interface {
	Merge(ctx context.Context, guestID, userID string) (*domain.Cart, error)
}

func guestHandler(svc GuestService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, id, err := svc.Issue()
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "guestId": id, "expiresIn": svc.TTLSeconds()})
	}
}

func loginHandler(svc SessionService, carts guestMerger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in sessionsvc.LoginInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		sess, err := svc.Login(c.Request.Context(), in)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		mergeGuestCart(c, carts, sess, logger)
		c.JSON(http.StatusOK, toSessionView(sess, svc.TokenTTLSeconds()))
	}
}

func registerHandler(svc SessionService, carts guestMerger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in sessionsvc.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		sess, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		mergeGuestCart(c, carts, sess, logger)
		c.JSON(http.StatusCreated, toSessionView(sess, svc.TokenTTLSeconds()))
	}
}

// mergeGuestCart folds the caller's guest cart into the new session's cart. A failed
// merge leaves the guest cart in place and does not fail the login.
func mergeGuestCart(c *gin.Context, carts guestMerger, sess *sessionsvc.Session, logger *zap.Logger) {
	guestID := actorFrom(c).GuestID
	if guestID == "" {
		return
	}
	if _, err := carts.Merge(c.Request.Context(), guestID, sess.User.ID); err != nil {
		logger.Warn("merge guest cart", zap.String("guest", guestID), zap.String("user", sess.User.ID), zap.Error(err))
	}
}

func logoutHandler(svc SessionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Logout(c.Request.Context(), bearerToken(c)); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": actorFrom(c).User})
	}
}

func toSessionView(s *sessionsvc.Session, ttl int) sessionView {
	return sessionView{User: s.User, Token: s.Token, ExpiresAt: s.ExpiresAt, ExpiresIn: ttl}
}
