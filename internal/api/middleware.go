package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jorge11BYU/project3/internal/session"
)

// userKey is the gin context key holding the authenticated user.
const userKey = "user"

// RequireSession gates protected routes on session presence. A request whose
// cookie is missing, fails signature verification, or references an expired
// session is redirected to the login page. No re-validation against the
// database happens here; the session snapshot is trusted for its lifetime.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		sid, err := store.ParseToken(token)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		user, ok := store.Get(sid)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}
