// Package live pushes packing-list changes to open websocket clients.
package live

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	ItemAdded       = "item_added"
	ItemUpdated     = "item_updated"
	ItemDeleted     = "item_deleted"
	ListRegenerated = "list_regenerated"
)

const writeWait = 10 * time.Second

// Upgrader configures the WebSocket connection.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is one change to a trip's packing list.
type Event struct {
	Type   string      `json:"type"`
	TripID uint        `json:"trip_id"`
	Data   interface{} `json:"data,omitempty"`
}

// Hub keeps the open connections of each trip and fans events out to them.
type Hub struct {
	tripClients map[uint]map[*websocket.Conn]bool
	broadcast   chan Event
	mu          sync.Mutex
	done        chan struct{}
}

// NewHub creates a hub and starts its broadcast goroutine.
func NewHub() *Hub {
	hub := &Hub{
		tripClients: make(map[uint]map[*websocket.Conn]bool),
		broadcast:   make(chan Event, 100),
		done:        make(chan struct{}),
	}
	go hub.run()
	return hub
}

// run delivers events to the clients of the event's trip. Writes happen one
// at a time so a connection never has two concurrent writers, and outside
// the lock so a slow client does not stall registration.
func (h *Hub) run() {
	defer close(h.done)
	for ev := range h.broadcast {
		h.mu.Lock()
		conns := make([]*websocket.Conn, 0, len(h.tripClients[ev.TripID]))
		for conn := range h.tripClients[ev.TripID] {
			conns = append(conns, conn)
		}
		h.mu.Unlock()

		var stale []*websocket.Conn
		for _, conn := range conns {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"trip_id":  ev.TripID,
					"conn_ptr": fmt.Sprintf("%p", conn),
				}).Info("Dropping websocket client after failed write.")
				stale = append(stale, conn)
			}
		}
		for _, conn := range stale {
			h.Unregister(ev.TripID, conn)
			conn.Close()
		}
	}
}

// Register adds a connection to a trip.
func (h *Hub) Register(tripID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.tripClients[tripID]; !ok {
		h.tripClients[tripID] = make(map[*websocket.Conn]bool)
	}
	h.tripClients[tripID][conn] = true
	logrus.WithFields(logrus.Fields{
		"trip_id":  tripID,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client registered with packing hub.")
}

// Unregister removes a connection from a trip.
func (h *Hub) Unregister(tripID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.tripClients[tripID]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.tripClients, tripID)
		}
	}
}

// Clients returns how many connections follow a trip.
func (h *Hub) Clients(tripID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.tripClients[tripID])
}

// Publish queues an event. When the queue is full the event is dropped.
func (h *Hub) Publish(ev Event) {
	select {
	case h.broadcast <- ev:
	default:
		logrus.WithField("trip_id", ev.TripID).Warn("Packing broadcast channel full, dropping event.")
	}
}

// Serve registers conn for tripID and blocks until the client goes away.
// Clients only listen; anything they send is ignored.
func (h *Hub) Serve(tripID uint, conn *websocket.Conn) {
	h.Register(tripID, conn)
	defer h.Unregister(tripID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithError(err).WithField("trip_id", tripID).Debug("Packing websocket read ended.")
			}
			return
		}
	}
}

// Close stops the broadcast goroutine after queued events are sent.
func (h *Hub) Close() {
	close(h.broadcast)
	<-h.done
}
