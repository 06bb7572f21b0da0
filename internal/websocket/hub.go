package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"paper-assistant-be/internal/model"
	"paper-assistant-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// redisChannel carries notifications between instances; every instance
// re-broadcasts what it receives to its local clients.
const redisChannel = "cluster_events"

// Hub fans notifications out to connected websocket clients. The assistant
// is single-user, so there is no per-user routing; every client gets every
// notification.
type Hub struct {
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out; nil runs local-only.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"clients": count})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"clients": count})
		}
	}
}

// Broadcast sends a notification to all connected clients, on this
// instance and (via redis) on every other one.
func (h *Hub) Broadcast(notification model.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.broadcastLocal(data)

	if h.rdb != nil {
		h.rdb.Publish(context.Background(), redisChannel, data)
	}
}

// ClientCount reports how many clients are connected locally.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcastLocal(data []byte) {
	// Full lock: slow clients get evicted from the map below.
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow client; drop it rather than blocking the hub.
			close(client.Send)
			delete(h.clients, client)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.broadcastLocal([]byte(msg.Payload))
	}
	log.Printf("redis subscription for %s closed", redisChannel)
}
