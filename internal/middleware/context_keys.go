package middleware

import (
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// sessionKey is the key used to store the authenticated session in the
// request context. Using a custom type prevents collisions.
const sessionKey = contextKey("session")

// GetSessionFromContext retrieves the authenticated session from the Gin
// context. It returns the session and a boolean indicating if it was found.
func GetSessionFromContext(c *gin.Context) (domain.Session, bool) {
	sessionVal, exists := c.Get(string(sessionKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(sessionKey)
		if ctxVal != nil {
			if session, ok := ctxVal.(domain.Session); ok {
				return session, true
			}
		}
		return domain.Session{}, false
	}

	session, ok := sessionVal.(domain.Session)
	if !ok {
		return domain.Session{}, false
	}

	return session, true
}
