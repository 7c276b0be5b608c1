package middleware

import (
	"net/http"
	"strings"

	"captable/internal/api/models"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the caller's identity. Authentication happens upstream.
const UserIDHeader = "X-User-ID"

const userIDKey = "user_id"

// RequireUser rejects requests without an X-User-ID header and stores the id
// on the context for UserID.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewError("MISSING_USER", UserIDHeader+" header is required"))
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// UserID returns the id set by RequireUser.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
