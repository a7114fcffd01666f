package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// AuthorizeRoom decides whether the connected identity may join a room the
// client asked to subscribe to.
type AuthorizeRoom func(room string) bool

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	authorize AuthorizeRoom
}

// clientCommand is what clients send: subscribe/unsubscribe to a room.
type clientCommand struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

// Serve registers the connection, joins its initial rooms and pumps messages
// until the connection drops. It blocks until the read side closes.
func (h *Hub) Serve(conn *websocket.Conn, initialRooms []string, authorize AuthorizeRoom) {
	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		authorize: authorize,
	}
	for _, room := range initialRooms {
		h.join(room, client)
	}

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		close(c.send)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Debug("ws read error")
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			continue
		}
		switch cmd.Action {
		case "subscribe":
			if c.authorize != nil && c.authorize(cmd.Room) {
				c.hub.join(cmd.Room, c)
			}
		case "unsubscribe":
			c.hub.leave(cmd.Room, c)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
