package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storelane/ecommerce-api/models"
)

// RequireRole compares the role resolved by ValidateToken against a route's
// declared requirement. Must run after ValidateToken.
func RequireRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := models.ParseRole(c.GetString("role"))
		if err != nil || role != required {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}
