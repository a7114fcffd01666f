package routes

import (
	"github.com/gin-gonic/gin"

	paymentControllers "github.com/bazario-dev/marketplace-api/controllers/payment"
	"github.com/bazario-dev/marketplace-api/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, d Deps) {
	payments := r.Group("/payments")
	{
		payments.POST("/webhook",
			middleware.PaymentWebhookAuth(d.Config.PaymentSecret, d.Config.PaymentMode),
			paymentControllers.Webhook(d.Payments))
	}
}
