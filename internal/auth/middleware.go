package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys for user data
const (
	ContextKeyUserID = "auth_user_id"
	ContextKeyName   = "auth_user_name"
)

// Middleware resolves the session user for each request.
type Middleware struct {
	sessions *SessionManager
}

func NewMiddleware(sessions *SessionManager) *Middleware {
	return &Middleware{sessions: sessions}
}

// Handler returns a Gin middleware that copies the session user into the
// Gin context. It never rejects a request; use RequireAuth for that.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := m.sessions.GetUserID(c.Request); userID != 0 {
			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyName, m.sessions.GetName(c.Request))
		}
		c.Next()
	}
}

// RequireAuth rejects unauthenticated requests with 401.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns 0 when the request is anonymous.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetUserName retrieves the authenticated user's display name.
func GetUserName(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyName); exists {
		if s, ok := name.(string); ok {
			return s
		}
	}
	return ""
}
