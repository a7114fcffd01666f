package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "cart_session"
	ctxSessionID  = "session_id"

	sessionMaxAge = 60 * 60 * 24 * 30 // 30 days
)

// CartSession guarantees every request carries an anonymous session id: the
// cookie is minted on first contact so a session identity is always present.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(sessionCookie, sessionID, sessionMaxAge, "/", "", false, true)
		}
		c.Set(ctxSessionID, sessionID)
		c.Next()
	}
}

// SessionID returns the request's anonymous session id.
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(ctxSessionID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
