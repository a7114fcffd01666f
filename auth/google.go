package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bazario-dev/marketplace-api/middleware"
	"github.com/bazario-dev/marketplace-api/models"
	"github.com/bazario-dev/marketplace-api/services"
	"github.com/bazario-dev/marketplace-api/store"
)

type googleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLoginHandler verifies the Firebase ID token, upserts the user, folds
// the anonymous session cart into the user's cart and issues a bearer token.
func GoogleLoginHandler(verifier *FirebaseVerifier, st store.Store, carts *services.CartService, issuer *TokenIssuer, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req googleLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		token, err := verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token"})
			return
		}

		email, _ := token.Claims["email"].(string)
		name, _ := token.Claims["name"].(string)
		picture, _ := token.Claims["picture"].(string)
		uid := token.UID

		// Fetch or create the user.
		user, err := st.UserByID(c.Request.Context(), uid)
		switch {
		case errors.Is(err, store.ErrNotFound):
			user = &models.User{
				ID:       uid,
				Email:    email,
				Name:     name,
				Picture:  picture,
				Provider: "google",
				Role:     models.RoleUser,
			}
			if err := st.CreateUser(c.Request.Context(), user); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
		case err == nil:
			user.Name = name
			user.Picture = picture
			if err := st.SaveUser(c.Request.Context(), user); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		// Merge the anonymous session cart into the user's cart.
		mergeStatus := "no-session-cart"
		if sessionID := middleware.SessionID(c); sessionID != "" {
			if err := carts.MergeCartsOnLogin(c.Request.Context(), sessionID, user.ID); err != nil {
				log.WithError(err).WithField("user_id", user.ID).Warn("cart merge failed on login")
				mergeStatus = "merge-failed"
			} else {
				mergeStatus = "merged"
			}
		}

		jwt, err := issuer.Issue(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Login successful",
			"merge_status": mergeStatus,
			"user":         user,
			"token":        jwt,
		})
	}
}
