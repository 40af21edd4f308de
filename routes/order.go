package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/storelane/ecommerce-api/controllers/order"
	"github.com/storelane/ecommerce-api/middleware"
	"github.com/storelane/ecommerce-api/models"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Place an order from the caller's cart
		orders.POST("", orderControllers.PlaceOrderHandler(db))

		// Caller's own orders, newest first
		orders.GET("", orderControllers.GetUserOrdersHandler(db))

		admin := orders.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			// Paginated, filtered order listing
			admin.GET("", orderControllers.GetAllOrdersHandler(db))

			// Realtime feed of placements and status changes
			admin.GET("/ws", orderControllers.OrderFeedHandler)

			// Status transitions (e.g. shipped, cancelled)
			admin.PATCH("/:orderId/status", orderControllers.UpdateOrderStatusHandler(db))

			// Append-only transition log, newest first
			admin.GET("/:orderId/history", orderControllers.GetOrderHistoryHandler(db))
		}
	}
}
