package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bazario-dev/marketplace-api/auth"
	cartControllers "github.com/bazario-dev/marketplace-api/controllers/cart"
	catalogControllers "github.com/bazario-dev/marketplace-api/controllers/catalog"
	"github.com/bazario-dev/marketplace-api/middleware"
)

// SetupAuthRoutes registers the login endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		if d.Verifier != nil {
			authGroup.POST("/google", auth.GoogleLoginHandler(d.Verifier, d.Store, d.Carts, d.Issuer, d.Log))
		}
	}
}

// SetupStorefrontRoutes registers public browsing plus the cart. Cart routes
// accept both authenticated and anonymous identities; the session cookie is
// always present.
func SetupStorefrontRoutes(r *gin.Engine, d Deps) {
	r.GET("/products", catalogControllers.ListProducts(d.Catalog))
	r.GET("/products/:id", catalogControllers.GetProduct(d.Catalog))
	r.GET("/shops", catalogControllers.ListShops(d.Catalog))
	r.GET("/shops/:id", catalogControllers.GetShop(d.Catalog))

	cart := r.Group("/cart")
	cart.Use(middleware.OptionalAuth(d.Config.JWTSecret))
	{
		cart.GET("", cartControllers.GetCart(d.Carts))
		cart.GET("/count", cartControllers.GetCartCount(d.Carts))
		cart.POST("", cartControllers.AddToCart(d.Carts))
		cart.PATCH("/:itemID", cartControllers.UpdateCartItem(d.Carts))
		cart.DELETE("/:itemID", cartControllers.RemoveCartItem(d.Carts))
		cart.POST("/merge", cartControllers.MergeCart(d.Carts))
	}
}
