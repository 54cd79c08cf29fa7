package auth

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StoreOwnership answers whether a user owns a store.
type StoreOwnership interface {
	Owns(ctx context.Context, storeID, userID string) (bool, error)
}

// Session resolves the session cookie into the current user and re-issues
// it so an active dashboard session does not expire. Invalid cookies are
// cleared; the request continues anonymously.
func Session(m *SessionManager, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.CookieName())
		if err != nil || token == "" {
			c.Next()
			return
		}
		claims, err := m.Parse(token)
		if err != nil {
			m.Clear(c)
			c.Next()
			return
		}
		if err := m.Start(c, claims.User); err != nil {
			log.Warn("session refresh failed", zap.String("user_id", claims.User.ID), zap.Error(err))
		}
		setUser(c, claims.User)
		c.Next()
	}
}

func RequireUser(log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			httpx.Error(c, log, apperror.Unauthorized())
			return
		}
		c.Next()
	}
}

// RequireStoreOwner rejects requests whose user does not own :storeId.
func RequireStoreOwner(stores StoreOwnership, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			httpx.Error(c, log, apperror.Unauthorized())
			return
		}
		owns, err := stores.Owns(c.Request.Context(), c.Param("storeId"), u.ID)
		if err != nil {
			httpx.Error(c, log, err)
			return
		}
		if !owns {
			httpx.Error(c, log, apperror.Forbidden())
			return
		}
		c.Next()
	}
}
