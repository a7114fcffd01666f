package paymentControllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bazario-dev/marketplace-api/services"
)

// POST /payments/webhook
// Form-encoded provider callback; the signature was already checked by the
// webhook middleware. tran_order carries the order reference.
func Webhook(payments *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderRef := c.PostForm("tran_order")
		reference := c.PostForm("tran_ref")
		status := strings.ToUpper(c.PostForm("tran_status"))
		if orderRef == "" || reference == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tran_order and tran_ref are required"})
			return
		}

		// "A" is the provider's authorized code; everything else is a decline.
		paid := status == "A" || status == "AUTHORIZED"

		tr, err := payments.Confirm(c.Request.Context(), orderRef, "telr", reference, paid)
		if err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": tr.Status})
	}
}
