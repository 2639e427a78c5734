package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware restricts a route group to admin users. It must run after
// AuthMiddleware so the role is present in the context.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
