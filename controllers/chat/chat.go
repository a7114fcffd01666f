package chatControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bazario-dev/marketplace-api/middleware"
	"github.com/bazario-dev/marketplace-api/services"
)

type startConversationInput struct {
	ShopID uint `json:"shop_id" binding:"required"`
}

type sendMessageInput struct {
	Body string `json:"body" binding:"required"`
}

// POST /chats
func StartConversation(chat *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input startConversationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		conv, err := chat.StartConversation(c.Request.Context(), middleware.UserID(c), input.ShopID)
		if err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, conv)
	}
}

// GET /chats
func ListConversations(chat *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		convs, err := chat.Conversations(c.Request.Context(), middleware.Actor(c))
		if err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, convs)
	}
}

// GET /chats/:chatID/messages?limit=&offset=
func ListMessages(chat *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, ok := parseID(c, "chatID")
		if !ok {
			return
		}
		limit := queryInt(c, "limit", 100)
		offset := queryInt(c, "offset", 0)

		msgs, err := chat.Messages(c.Request.Context(), middleware.Actor(c), chatID, limit, offset)
		if err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, msgs)
	}
}

// POST /chats/:chatID/messages
func SendMessage(chat *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, ok := parseID(c, "chatID")
		if !ok {
			return
		}

		var input sendMessageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		msg, err := chat.SendMessage(c.Request.Context(), middleware.Actor(c), chatID, input.Body)
		if err != nil {
			c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
