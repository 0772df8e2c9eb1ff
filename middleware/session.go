package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "cart_session"

// CartSession assigns every browser a stable session id cookie; the
// cart and checkout state are keyed by it.
func CartSession(c *gin.Context) {
	sessionID, err := c.Cookie(sessionCookie)
	if err != nil || sessionID == "" {
		sessionID = uuid.NewString()
		// One year, host-wide; not accessible to page scripts.
		c.SetCookie(sessionCookie, sessionID, 365*24*3600, "/", "", false, true)
	}
	c.Set("session_id", sessionID)
	c.Next()
}
