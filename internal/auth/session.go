package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("auth: invalid session")

type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Claims is the session token payload.
type Claims struct {
	User SessionUser `json:"user"`
	jwt.RegisteredClaims
}

type SessionConfig struct {
	SecretKey  string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

type SessionManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

func NewSessionManager(cfg *SessionConfig) *SessionManager {
	name := cfg.CookieName
	if name == "" {
		name = "session"
	}
	return &SessionManager{
		secret:     []byte(cfg.SecretKey),
		ttl:        cfg.TTL,
		cookieName: name,
		secure:     cfg.Secure,
		now:        time.Now,
	}
}

func (m *SessionManager) CookieName() string { return m.cookieName }

// Issue signs a token for u that expires one TTL from now.
func (m *SessionManager) Issue(u SessionUser) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	claims := &Claims{
		User: u,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expires, nil
}

func (m *SessionManager) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Start issues a session for u and sets it as an httpOnly cookie.
func (m *SessionManager) Start(c *gin.Context, u SessionUser) error {
	token, expires, err := m.Issue(u)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, int(time.Until(expires).Seconds()), "/", "", m.secure, true)
	return nil
}

func (m *SessionManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}
