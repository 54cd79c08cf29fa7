package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

type ctxKey struct{}

const userKey = "session_user"

// WithUser stores the session user on ctx for use cases that need it.
func WithUser(ctx context.Context, u SessionUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFromContext(ctx context.Context) (SessionUser, bool) {
	u, ok := ctx.Value(ctxKey{}).(SessionUser)
	return u, ok
}

func setUser(c *gin.Context, u SessionUser) {
	c.Set(userKey, u)
	c.Request = c.Request.WithContext(WithUser(c.Request.Context(), u))
}

// CurrentUser returns the user resolved by the session middleware.
func CurrentUser(c *gin.Context) (SessionUser, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return SessionUser{}, false
	}
	u, ok := v.(SessionUser)
	return u, ok
}

// GetUserID is a shorthand for handlers behind RequireUser.
func GetUserID(c *gin.Context) string {
	u, _ := CurrentUser(c)
	return u.ID
}
