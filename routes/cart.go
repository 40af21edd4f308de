package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/storelane/ecommerce-api/controllers/cart"
	"github.com/storelane/ecommerce-api/middleware"
	"gorm.io/gorm"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cart := r.Group("/cart")
	cart.Use(middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCartHandler(db))
		cart.POST("", cartControllers.AddItemHandler(db))
		cart.PATCH("", cartControllers.UpdateItemHandler(db))
		cart.DELETE("/:productId", cartControllers.RemoveItemHandler(db))
		cart.POST("/clear", cartControllers.ClearCartHandler(db))
	}
}
