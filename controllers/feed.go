package controllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/aarthurcreis/hungryhub-proto/models"
)

// OrderEvent is one message on the realtime order feed.
type OrderEvent struct {
	Type  string       `json:"type"` // "created" or "status_changed"
	Order models.Order `json:"order"`
}

// OrderFeed pushes order changes to connected websocket clients. Delivery
// dashboards subscribe here to see pending orders appear and disappear as
// other workers accept them.
type OrderFeed struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

// NewOrderFeed creates an OrderFeed with no subscribers.
func NewOrderFeed() *OrderFeed {
	return &OrderFeed{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Subscribe upgrades the connection and keeps it registered until the
// client disconnects, so a closed page stops receiving events.
func (f *OrderFeed) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		delete(f.clients, conn)
		f.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast sends event to every subscriber, dropping connections that
// fail to write.
func (f *OrderFeed) Broadcast(event OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for client := range f.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(f.clients, client)
		}
	}
}
