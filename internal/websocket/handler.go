package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ServeWs runs one connection until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := NewClient(hub, c)
	hub.register <- client

	go client.writePump()
	client.readPump()
}

// RegisterRoutes mounts the event stream at /ws. Plain HTTP requests get 426.
func RegisterRoutes(app fiber.Router, hub *Hub) {
	app.Use("/ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		ServeWs(hub, c)
	}))
}
