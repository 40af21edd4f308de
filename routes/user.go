package routes

import (
	"github.com/gin-gonic/gin"
	userControllers "github.com/storelane/ecommerce-api/controllers/user"
	"github.com/storelane/ecommerce-api/middleware"
	"github.com/storelane/ecommerce-api/models"
	"gorm.io/gorm"
)

func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	users := r.Group("/users")
	users.Use(middleware.ValidateToken)
	{
		users.GET("/me", userControllers.GetMe(db))
		users.GET("", middleware.RequireRole(models.RoleAdmin), userControllers.GetAllUsers(db))
	}

	admin := r.Group("/admin")
	admin.Use(middleware.ValidateToken, middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", userControllers.AdminDashboard())
	}
}
