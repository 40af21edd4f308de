package routes

import (
	"github.com/gin-gonic/gin"
	productcontroller "github.com/storelane/ecommerce-api/controllers/product"
	"github.com/storelane/ecommerce-api/middleware"
	"github.com/storelane/ecommerce-api/models"
	"gorm.io/gorm"
)

func SetupProductRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(db))
		products.GET("/:id", productcontroller.GetProductByID(db))

		admin := products.Group("")
		admin.Use(middleware.ValidateToken, middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("", productcontroller.CreateProduct(db))
			admin.PATCH("/:id", productcontroller.UpdateProduct(db))
			admin.DELETE("/:id", productcontroller.DeleteProduct(db))
		}
	}
}
