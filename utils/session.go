package utils

import (
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// Session is the identity of the signed-in shopper for one request.
type Session struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// SetSession attaches the shopper's session to the request.
func SetSession(c *gin.Context, s Session) {
	c.Set(sessionKey, s)
}

// CurrentSession returns the shopper attached by the auth middleware.
func CurrentSession(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}
