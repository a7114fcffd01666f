package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazario-dev/marketplace-api/models"
	"github.com/bazario-dev/marketplace-api/policy"
	"github.com/bazario-dev/marketplace-api/store"
)

const ctxActor = "actor"

// WithActor materializes the request's policy actor, loading owned shops for
// vendors so authorization checks never hit the database again downstream.
// Must run after RequireAuth.
func WithActor(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := policy.Actor{
			UserID: UserID(c),
			Role:   Role(c),
		}
		if actor.Role == models.RoleVendor {
			shops, err := st.ShopsByOwner(c.Request.Context(), actor.UserID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve vendor shops"})
				c.Abort()
				return
			}
			for _, shop := range shops {
				actor.ShopIDs = append(actor.ShopIDs, shop.ID)
			}
		}
		c.Set(ctxActor, actor)
		c.Next()
	}
}

// Actor returns the actor materialized by WithActor.
func Actor(c *gin.Context) policy.Actor {
	if v, ok := c.Get(ctxActor); ok {
		if a, ok := v.(policy.Actor); ok {
			return a
		}
	}
	return policy.Actor{UserID: UserID(c), Role: Role(c)}
}
