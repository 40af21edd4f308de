package routes

import (
	"github.com/gin-gonic/gin"
	authControllers "github.com/storelane/ecommerce-api/controllers/auth"
	"gorm.io/gorm"
)

func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authControllers.RegisterHandler(db))
		auth.POST("/login", authControllers.LoginHandler(db))
	}
}
