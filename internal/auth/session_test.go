package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manager() *SessionManager {
	return NewSessionManager(&SessionConfig{SecretKey: "test-secret", TTL: time.Hour})
}

var alice = SessionUser{ID: "u1", Email: "alice@example.com", Role: "USER"}

func TestIssueAndParse(t *testing.T) {
	m := manager()
	token, expires, err := m.Issue(alice)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, alice, claims.User)
	assert.Equal(t, "u1", claims.Subject)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	token, _, err := NewSessionManager(&SessionConfig{SecretKey: "other", TTL: time.Hour}).Issue(alice)
	require.NoError(t, err)
	_, err = manager().Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	m := manager()
	token, _, err = m.Issue(alice)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

type owners map[string]string

func (o owners) Owns(_ context.Context, storeID, userID string) (bool, error) {
	return o[storeID] == userID, nil
}

func router(m *SessionManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(m, logger.NewNop()))
	r.GET("/me", RequireUser(logger.NewNop()), func(c *gin.Context) {
		u, _ := UserFromContext(c.Request.Context())
		c.String(http.StatusOK, u.Email)
	})
	r.GET("/dashboard/:storeId", RequireStoreOwner(owners{"s1": "u1"}, logger.NewNop()), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})
	return r
}

func get(r http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSessionMiddlewareRefreshesCookie(t *testing.T) {
	m := manager()
	token, _, err := m.Issue(alice)
	require.NoError(t, err)

	rec := get(router(m), "/me", &http.Cookie{Name: "session", Value: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestAnonymousAndInvalidSessionsRedirect(t *testing.T) {
	m := manager()
	rec := get(router(m), "/me", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = get(router(m), "/me", &http.Cookie{Name: "session", Value: "garbage"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Empty(t, rec.Result().Cookies()[0].Value)
}

func TestRequireStoreOwner(t *testing.T) {
	m := manager()
	token, _, err := m.Issue(alice)
	require.NoError(t, err)
	cookie := &http.Cookie{Name: "session", Value: token}

	rec := get(router(m), "/dashboard/s1", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())

	rec = get(router(m), "/dashboard/s2", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
