package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/bazario-dev/marketplace-api/controllers/order"
	"github.com/bazario-dev/marketplace-api/middleware"
	"github.com/bazario-dev/marketplace-api/models"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	orders.Use(middleware.RequireAuth(d.Config.JWTSecret), middleware.WithActor(d.Store))
	{
		orders.POST("", orderControllers.PlaceOrder(d.Orders))
		orders.GET("", orderControllers.ListOrders(d.Orders))
		orders.GET("/:orderID", orderControllers.GetOrder(d.Orders))
		orders.POST("/:orderID/return", orderControllers.RequestReturn(d.Orders))

		// Role-gated status transitions; the policy check happens in the
		// service so vendors are scoped to their own shops' orders.
		orders.PUT("/:orderID",
			middleware.RequireRoles(models.RoleVendor, models.RoleAdmin, models.RoleSuperAdmin),
			orderControllers.UpdateOrderStatus(d.Orders))
	}
}
