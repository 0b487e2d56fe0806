package middleware

import (
	"net/http"

	"github.com/feedback-board/internal/config"
	"github.com/feedback-board/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextKeySessionID is the key for the session ID in gin context
	ContextKeySessionID = "session_id"
	// ContextKeyUsername is the key for the authenticated username in gin context
	ContextKeyUsername = "username"
)

// SessionMiddleware ensures every client carries a session cookie and places
// the session ID plus the resolved identity (if any) in the gin context.
func SessionMiddleware(store session.Store, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
			c.SetCookie(cfg.CookieName, sessionID, cfg.TTLHours*3600, "/", "", cfg.Secure, true)
		}
		c.Set(ContextKeySessionID, sessionID)

		username, err := store.Identity(c.Request.Context(), sessionID)
		if err != nil {
			// Treat the session as anonymous but leave a trace; a store
			// outage otherwise looks like a silent mass logout.
			LogError("session identity lookup failed: %v", err)
		} else if username != "" {
			c.Set(ContextKeyUsername, username)
		}

		c.Next()
	}
}

// RequireAuth redirects anonymous clients to the login page.
// It must run after SessionMiddleware.
func RequireAuth(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUsername(c) != "" {
			c.Next()
			return
		}

		_ = store.AddFlash(c.Request.Context(), GetSessionID(c), session.Flash{
			Message: "Please login first!",
			Kind:    session.KindDanger,
		})
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// GetSessionID gets the session ID from the gin context
func GetSessionID(c *gin.Context) string {
	sessionID, exists := c.Get(ContextKeySessionID)
	if !exists {
		return ""
	}
	return sessionID.(string)
}

// GetUsername gets the authenticated username from the gin context.
// Returns "" for anonymous sessions.
func GetUsername(c *gin.Context) string {
	username, exists := c.Get(ContextKeyUsername)
	if !exists {
		return ""
	}
	return username.(string)
}
