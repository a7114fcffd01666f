package analyticsControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bazario-dev/marketplace-api/middleware"
	"github.com/bazario-dev/marketplace-api/services"
)

// GET /admin/analytics/overview?days=30
func AdminOverview(analytics *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := analytics.Overview(c.Request.Context(), middleware.Actor(c), 0, queryDays(c))
		if err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, overview)
	}
}

// GET /vendor/analytics/overview?shop_id=&days=30
func VendorOverview(analytics *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID, err := strconv.ParseUint(c.Query("shop_id"), 10, 64)
		if err != nil || shopID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shop_id is required"})
			return
		}

		overview, err2 := analytics.Overview(c.Request.Context(), middleware.Actor(c), uint(shopID), queryDays(c))
		if err2 != nil {
			c.JSON(services.HTTPStatus(err2), gin.H{"error": err2.Error()})
			return
		}
		c.JSON(http.StatusOK, overview)
	}
}

func queryDays(c *gin.Context) int {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		return 30
	}
	return days
}
