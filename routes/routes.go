package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up Auth, Cart, Order,
// Product and User route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Cart routes (JWT-protected)
	SetupCartRoutes(r, db)

	// Order routes (JWT-protected; admin subgroup role-gated)
	SetupOrderRoutes(r, db)

	// Product routes (public reads, admin writes)
	SetupProductRoutes(r, db)

	// User/admin routes
	SetupUserRoutes(r, db)
}
