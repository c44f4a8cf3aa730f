// livefeed.go — the WebSocket endpoint behind the live scoresheet view.
// Spectators connect to /ws/games/:id; every snapshot the scoring manager
// flushes for that game is pushed down the socket as JSON.
//
// The Hub (internal/websocket) deals in Clients and byte slices; this file
// owns the fasthttp upgrade and the two per-connection pumps.
package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	ws "github.com/qbrepubliq/ballers-api/internal/websocket"
)

// LiveFeedUpgrade gates the /ws routes: plain HTTP requests get 426 Upgrade
// Required instead of reaching the socket handler.
func LiveFeedUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// LiveFeed returns the websocket handler for GET /ws/games/:id.
func LiveFeed(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := &ws.Client{
			GameID: conn.Params("id"),
			Send:   make(chan []byte, 64),
		}
		hub.Register(client)

		// Write pump: drain the client's Send channel onto the socket. The
		// Hub closes Send on unregister, which ends the range and the
		// goroutine.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for data := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			}
		}()

		// Read pump: the feed is one-way, but reading is what notices the
		// peer hanging up. Any read error means the connection is gone.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		hub.Unregister(client)
		<-done
	})
}
