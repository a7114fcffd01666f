package routes

import (
	"github.com/gin-gonic/gin"

	chatControllers "github.com/bazario-dev/marketplace-api/controllers/chat"
	"github.com/bazario-dev/marketplace-api/middleware"
)

func SetupChatRoutes(r *gin.Engine, d Deps) {
	chats := r.Group("/chats")
	chats.Use(middleware.RequireAuth(d.Config.JWTSecret), middleware.WithActor(d.Store))
	{
		chats.POST("", chatControllers.StartConversation(d.Chat))
		chats.GET("", chatControllers.ListConversations(d.Chat))
		chats.GET("/:chatID/messages", chatControllers.ListMessages(d.Chat))
		chats.POST("/:chatID/messages", chatControllers.SendMessage(d.Chat))
	}

	// Real-time fan-out endpoint.
	r.GET("/ws",
		middleware.RequireAuth(d.Config.JWTSecret),
		middleware.WithActor(d.Store),
		chatControllers.Websocket(d.Hub, d.Chat))
}
