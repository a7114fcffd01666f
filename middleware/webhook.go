package middleware

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// paymentCheckFields is the provider's documented field order for the
// signature digest.
var paymentCheckFields = []string{
	"tran_ref", "tran_order", "tran_amount", "tran_currency", "tran_status",
}

// PaymentWebhookAuth verifies the payment provider's form signature. The
// check is skipped in sandbox mode so local stacks can post test webhooks.
func PaymentWebhookAuth(secret, mode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(mode, "sandbox") {
			c.Next()
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form for signature verification"})
			c.Abort()
			return
		}

		providedCheck := c.PostForm("tran_check")
		if providedCheck == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing tran_check signature"})
			c.Abort()
			return
		}

		parts := []string{secret}
		for _, f := range paymentCheckFields {
			parts = append(parts, strings.TrimSpace(c.PostForm(f)))
		}
		sum := sha1.Sum([]byte(strings.Join(parts, ":")))
		expected := hex.EncodeToString(sum[:])

		if !strings.EqualFold(providedCheck, expected) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}
		c.Next()
	}
}
