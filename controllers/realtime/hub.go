package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lojak57/baseform-api/models"
	"github.com/lojak57/baseform-api/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans store notices and catalog refreshes out to connected websocket
// clients. It implements store.Notifier so the stores can push toasts
// without knowing about websockets.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// HandleWS upgrades the connection and holds it until the client goes away.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			break
		}
	}
}

// Notify implements store.Notifier: toasts go to every connected client
// and to the log.
func (h *Hub) Notify(n store.Notice) {
	store.LogNotifier{}.Notify(n)
	h.broadcast(envelope{Type: "notice", Data: n})
}

// WatchProducts forwards catalog refreshes from the product store's
// subscription channel. Run in its own goroutine.
func (h *Hub) WatchProducts(ch <-chan []models.Product) {
	for snapshot := range ch {
		h.broadcast(envelope{Type: "products", Data: snapshot})
	}
}

func (h *Hub) broadcast(msg envelope) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Failed to marshal ws message: %v", err)
		return
	}
	h.mu.Lock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
	h.mu.Unlock()
}
