package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "stress_session"
	flashCookieName   = "flash"
)

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager issues and resolves the signed session cookie binding a
// browser to a user identity. Sessions are not persisted server-side.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a new session token for the user and sets it as an HTTP-only cookie.
func (m *SessionManager) Issue(c *gin.Context, userID int64, username string) error {
	now := time.Now()
	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	c.SetCookie(sessionCookieName, signed, int(m.ttl.Seconds()), "/", "", false, true)
	return nil
}

// Clear drops the session cookie unconditionally.
func (m *SessionManager) Clear(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
}

// Resolve validates the session cookie and returns the user identity it carries.
func (m *SessionManager) Resolve(c *gin.Context) (int64, string, error) {
	raw, err := c.Cookie(sessionCookieName)
	if err != nil || raw == "" {
		return 0, "", fmt.Errorf("no session cookie")
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid session token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", fmt.Errorf("invalid session subject")
	}
	return userID, claims.Username, nil
}

// flashMessage is a one-shot status banner carried across a redirect.
type flashMessage struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

func setFlash(c *gin.Context, category, message string) {
	value := url.QueryEscape(category + "|" + message)
	c.SetCookie(flashCookieName, value, 60, "/", "", false, true)
}

// popFlash reads and clears the flash cookie, returning nil when none is set.
func popFlash(c *gin.Context) *flashMessage {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(decoded, "|")
	if !ok {
		return &flashMessage{Message: decoded, Category: "info"}
	}
	return &flashMessage{Message: message, Category: category}
}
