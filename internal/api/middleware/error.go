package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"captable/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware recovers panics into the JSON error envelope.
func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(recovered),
		)
		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.NewError("INTERNAL_ERROR", message))
	})
}
