package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glizzus/goonbot/internal/websession"
)

// Pending logins only need to survive the trip to Discord and back.
const pendingLoginTTL = 10 * time.Minute

func (s *Server) setSessionCookie(c *gin.Context, id string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(ttl.Seconds()), "/", "", s.Config.IsProduction(), true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", s.Config.IsProduction(), true)
}

func (s *Server) currentUser(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok || !session.Authenticated() {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	user, err := s.Preferences.Get(c.Request.Context(), session.UserID)
	if err != nil {
		slog.Warn("Session refers to an unknown user", "userID", session.UserID, "error", err)
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// beginLogin starts a pending session holding the OAuth state and sends the
// browser to Discord.
func (s *Server) beginLogin(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := s.SessionIDs.Next()
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := s.States.Next()
	if err != nil {
		respondError(c, err)
		return
	}

	if err := s.Sessions.SaveFor(ctx, websession.Session{ID: id, OAuthState: state}, pendingLoginTTL); err != nil {
		slog.Error("Failed to save pending login", "error", err)
		respondError(c, err)
		return
	}

	s.setSessionCookie(c, id, pendingLoginTTL)
	c.Redirect(http.StatusFound, s.Auth.AuthCodeURL(state))
}

// finishLogin handles Discord's redirect back. Failures send the browser to
// the site root like a cancelled login.
func (s *Server) finishLogin(c *gin.Context) {
	ctx := c.Request.Context()

	pending, ok := sessionFrom(c)
	if ok && pending.OAuthState != "" {
		// A pending login is good for one attempt either way.
		if err := s.Sessions.Delete(ctx, pending.ID); err != nil {
			slog.Warn("Failed to delete pending login", "error", err)
		}
	}
	if !ok || pending.OAuthState == "" || c.Query("state") != pending.OAuthState {
		slog.Warn("OAuth state mismatch")
		c.Redirect(http.StatusFound, s.Config.SiteURL())
		return
	}

	profile, err := s.Auth.Exchange(ctx, c.Query("code"))
	if err != nil {
		slog.Error("Failed to complete Discord login", "error", err)
		c.Redirect(http.StatusFound, s.Config.SiteURL())
		return
	}

	user, err := s.Preferences.Login(ctx, profile)
	if err != nil {
		slog.Error("Failed to log in user", "userID", profile.ID, "error", err)
		c.Redirect(http.StatusFound, s.Config.SiteURL())
		return
	}

	id, err := s.SessionIDs.Next()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.Sessions.Save(ctx, websession.Session{ID: id, UserID: user.ID}); err != nil {
		slog.Error("Failed to save session", "error", err)
		c.Redirect(http.StatusFound, s.Config.SiteURL())
		return
	}

	slog.Info("User logged in", "userID", user.ID, "username", user.Username)
	s.setSessionCookie(c, id, s.Config.SessionTTL)
	c.Redirect(http.StatusFound, s.Config.SoundboardURL())
}

func (s *Server) logout(c *gin.Context) {
	if session, ok := sessionFrom(c); ok {
		if err := s.Sessions.Delete(c.Request.Context(), session.ID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to logout. " + err.Error()})
			return
		}
	}
	s.clearSessionCookie(c)
	respondOK(c, "Logout successful.")
}
