package chatControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bazario-dev/marketplace-api/middleware"
	"github.com/bazario-dev/marketplace-api/services"
	"github.com/bazario-dev/marketplace-api/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GET /ws
// Clients land in their own user room (vendors also in each owned shop's
// room) and may subscribe to chat rooms they participate in.
func Websocket(hub *ws.Hub, chat *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.Actor(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		rooms := []string{"user:" + actor.UserID}
		for _, shopID := range actor.ShopIDs {
			rooms = append(rooms, "shop:"+strconv.FormatUint(uint64(shopID), 10))
		}

		authorize := func(room string) bool {
			raw, found := strings.CutPrefix(room, "chat:")
			if !found {
				return false
			}
			chatID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return false
			}
			return chat.IsParticipant(c.Request.Context(), actor, uint(chatID))
		}

		hub.Serve(conn, rooms, authorize)
	}
}
