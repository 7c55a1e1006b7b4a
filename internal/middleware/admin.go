// internal/middleware/admin.go
package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/rentalworks/catalog-backend/internal/utils"
)

// AdminTokenRequired guards operator endpoints with a static shared token.
// An empty configured token disables the surface entirely.
func AdminTokenRequired(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader("X-Admin-Token")
		if token == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			utils.UnauthorizedResponse(c, "Invalid admin token")
			c.Abort()
			return
		}

		c.Next()
	}
}
