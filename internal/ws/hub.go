package ws

import (
	"encoding/json"
	"sync"
	"time"

	"sigmavie-commerce/internal/metrics"
	"sigmavie-commerce/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Update topics pushed to connected back-office and storefront clients.
// Clients subscribed to a topic re-fetch the entity on receipt, the same
// invalidation contract the browser build implemented with DOM events.
const (
	TopicProducts     = "products_update"
	TopicOrders       = "orders_update"
	TopicCustomers    = "customers_update"
	TopicCategories   = "categories_update"
	TopicSettings     = "settings_update"
	TopicStockEntries = "stock_entries_update"
)

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			metrics.WSClients.Set(float64(len(h.Clients)))
			h.mutex.Unlock()

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			metrics.WSClients.Set(float64(len(h.Clients)))
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			metrics.WSClients.Set(float64(len(h.Clients)))
			h.mutex.Unlock()
		}
	}
}

// Publish broadcasts an entity-update event on a topic. Fired from a
// goroutine by callers so a slow socket never blocks a mutation path.
func (h *Hub) Publish(topic string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"type":    topic,
		"payload": payload,
		"at":      time.Now(),
	})
	if err != nil {
		logger.Get().Warn("failed to marshal ws payload", zap.String("topic", topic), zap.Error(err))
		return
	}
	h.Broadcast <- msg
}
