package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crosswatch/crosswatch/internal/apperr"
	"github.com/crosswatch/crosswatch/internal/webauth"
)

// RequireScope authenticates the request with HTTP basic auth against the
// web user store and requires the given scope bitmask.
func RequireScope(store *webauth.Store, scope uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="crosswatch"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := store.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			if apperr.KindOf(err) != apperr.KindUnauthorized {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			c.Header("WWW-Authenticate", `Basic realm="crosswatch"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if !webauth.HasScope(user.Scopes, scope) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient scope"})
			return
		}

		c.Set("web_user", user.Username)
		c.Next()
	}
}
