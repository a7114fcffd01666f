// Package ws is the real-time layer: a hub of string-keyed rooms
// ("user:<id>", "shop:<id>", "chat:<id>") that connected clients join.
// Delivery is at-most-once to currently connected members; a slow client's
// messages are dropped rather than blocking the hub.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Envelope is the wire format pushed to clients.
type Envelope struct {
	Room    string      `json:"room"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
	log   *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
		log:   log,
	}
}

func (h *Hub) join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[c] = true
}

func (h *Hub) leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// remove drops the client from every room it joined.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		if members[c] {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}

// Emit sends the event to every member of the room. Members whose send
// buffers are full miss the message.
func (h *Hub) Emit(room, event string, payload interface{}) {
	data, err := json.Marshal(Envelope{Room: room, Event: event, Payload: payload})
	if err != nil {
		h.log.WithError(err).Warn("failed to marshal ws envelope")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		select {
		case client.send <- data:
		default:
			h.log.WithField("room", room).Debug("dropping message for slow ws client")
		}
	}
}
