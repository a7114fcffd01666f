package routes

import (
	"github.com/gin-gonic/gin"

	analyticsControllers "github.com/bazario-dev/marketplace-api/controllers/analytics"
	catalogControllers "github.com/bazario-dev/marketplace-api/controllers/catalog"
	"github.com/bazario-dev/marketplace-api/middleware"
	"github.com/bazario-dev/marketplace-api/models"
)

// SetupDashboardRoutes registers the vendor and admin dashboard endpoints.
func SetupDashboardRoutes(r *gin.Engine, d Deps) {
	vendor := r.Group("/vendor")
	vendor.Use(
		middleware.RequireAuth(d.Config.JWTSecret),
		middleware.RequireRoles(models.RoleVendor, models.RoleAdmin, models.RoleSuperAdmin),
		middleware.WithActor(d.Store),
	)
	{
		vendor.POST("/products", catalogControllers.CreateProduct(d.Catalog))
		vendor.PUT("/products/:id", catalogControllers.UpdateProduct(d.Catalog))
		vendor.DELETE("/products/:id", catalogControllers.DeleteProduct(d.Catalog))
		vendor.PATCH("/variants/:id", catalogControllers.UpdateVariant(d.Catalog))
		vendor.GET("/products/low-stock", catalogControllers.LowStock(d.Catalog))
		vendor.GET("/analytics/overview", analyticsControllers.VendorOverview(d.Analytics))
	}

	admin := r.Group("/admin")
	admin.Use(
		middleware.RequireAuth(d.Config.JWTSecret),
		middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin),
		middleware.WithActor(d.Store),
	)
	{
		admin.GET("/analytics/overview", analyticsControllers.AdminOverview(d.Analytics))
		admin.GET("/products/export", catalogControllers.ExportProducts(d.Catalog))
	}
}
