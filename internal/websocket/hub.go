// Package websocket pushes catalog change notifications to connected
// browsers. Every client receives every frame; there is no per-client
// subscription state and no delivery guarantee.
package websocket

import (
	"encoding/json"
	"log/slog"

	"go-shop-backend/internal/event"
)

// frame is the wire shape of a catalog notification. Clients only learn
// that the catalog changed and how, never which product.
type frame struct {
	Event  string `json:"event"`
	Action string `json:"action"`
}

type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Product events to fan out.
	bus event.Bus
}

func NewHub(bus event.Bus) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		bus:        bus,
	}
}

func (h *Hub) Run() {
	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			slog.Info("websocket client connected", "clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				slog.Info("websocket client disconnected", "clients", len(h.clients))
			}
		case e := <-events:
			message, err := json.Marshal(frame{Event: "productsUpdated", Action: e.Type.Action()})
			if err != nil {
				slog.Error("failed to marshal notification", "error", err)
				continue
			}
			// A client that cannot keep up is dropped rather than letting
			// its backlog stall the fan-out.
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}
