package httpapi

import (
	"errors"
	"net/http"

	"videocall-service/internal/rooms"
	"videocall-service/internal/upstream"

	"github.com/gin-gonic/gin"
)

// writeError maps internal errors onto the HTTP failure taxonomy:
// Unauthorized 401, Forbidden 403, BadRequest 400, NotFound 404, upstream
// statuses propagated where meaningful, 502 for unreachable collaborators,
// 500 otherwise. Every failure gets a structured payload; none are swallowed.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rooms.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, rooms.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no active call found"})
	case errors.Is(err, upstream.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "upstream rejected credential"})
	case errors.Is(err, upstream.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "upstream denied access"})
	case errors.Is(err, upstream.ErrGroupNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "group not found or unauthorized"})
	case errors.Is(err, upstream.ErrUnavailable):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "upstream service unreachable"})
	default:
		var se *upstream.StatusError
		if errors.As(err, &se) {
			// Propagate the upstream's status when it carries meaning,
			// otherwise shield the caller behind a 502.
			code := se.Code
			if code < 400 || code > 599 {
				code = http.StatusBadGateway
			}
			c.AbortWithStatusJSON(code, gin.H{"error": "upstream request failed"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
