package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// RequireIdentity verifies the bearer credential and injects the resolved
// identity into the request context. It does not perform role or membership
// checks; those belong to internal/rbac and the handlers.
//
// Verification failure short-circuits here, before any registry or upstream
// group call is made.
func RequireIdentity(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		id, err := v.Verify(c.Request.Context(), tok)
		if err != nil {
			if errors.Is(err, ErrIdentityUnavailable) {
				c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "identity service unavailable"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx := WithIdentity(c.Request.Context(), id, tok)
		c.Request = c.Request.WithContext(ctx)

		// Also store on gin context for handler convenience.
		c.Set("user_id", id.ID)
		c.Set("role", id.Role)

		c.Next()
	}
}
