package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a freshly upgraded connection to the hub and blocks
// until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := &Client{Hub: hub, Conn: c, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // blocks; keeps the fiber handler alive
}
