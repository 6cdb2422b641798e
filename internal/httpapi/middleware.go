package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glizzus/goonbot/internal/websession"
)

const (
	sessionCookie = "goonbot_session"
	sessionKey    = "session"
)

// Logging logs each request through slog once it has been handled.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if session, ok := sessionFrom(c); ok && session.Authenticated() {
			attrs = append(attrs, "userID", session.UserID)
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			slog.Error("HTTP request", attrs...)
			return
		}
		slog.Info("HTTP request", attrs...)
	}
}

// loadSession attaches the session named by the cookie, if any, to the context.
func (s *Server) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			c.Next()
			return
		}

		session, err := s.Sessions.Get(c.Request.Context(), id)
		switch {
		case errors.Is(err, websession.ErrSessionNotFound):
		case err != nil:
			slog.Error("Failed to load session", "error", err)
		default:
			c.Set(sessionKey, session)
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) (websession.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return websession.Session{}, false
	}
	session, ok := v.(websession.Session)
	return session, ok
}

// userID returns the logged in user. Only valid behind requireAuth.
func userID(c *gin.Context) string {
	session, _ := sessionFrom(c)
	return session.UserID
}

func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session, ok := sessionFrom(c); !ok || !session.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You need to log in first."})
			return
		}
		c.Next()
	}
}

func requireNoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session, ok := sessionFrom(c); ok && session.Authenticated() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Already logged in."})
			return
		}
		c.Next()
	}
}
