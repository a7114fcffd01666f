package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bazario-dev/marketplace-api/auth"
	"github.com/bazario-dev/marketplace-api/config"
	"github.com/bazario-dev/marketplace-api/services"
	"github.com/bazario-dev/marketplace-api/store"
	"github.com/bazario-dev/marketplace-api/ws"
)

// Deps is everything the route tree needs, wired by the composition root.
type Deps struct {
	Config    *config.Config
	Store     store.Store
	Carts     *services.CartService
	Orders    *services.OrderService
	Catalog   *services.CatalogService
	Chat      *services.ChatService
	Analytics *services.AnalyticsService
	Payments  *services.PaymentService
	Hub       *ws.Hub
	Verifier  *auth.FirebaseVerifier
	Issuer    *auth.TokenIssuer
	Log       *logrus.Logger
}

// Setup wires every route group onto the engine.
func Setup(r *gin.Engine, d Deps) {
	SetupAuthRoutes(r, d)
	SetupStorefrontRoutes(r, d)
	SetupOrderRoutes(r, d)
	SetupChatRoutes(r, d)
	SetupDashboardRoutes(r, d)
	SetupPaymentRoutes(r, d)
}
