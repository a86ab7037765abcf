package middleware

import (
	"github.com/gin-gonic/gin"

	"foodgram-backend/internal/shared/response"
	"foodgram-backend/internal/shared/viewer"
)

// AdminMiddleware checks if user has admin role. Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !viewer.FromContext(c).IsAdmin() {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}
