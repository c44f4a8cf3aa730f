// Package websocket implements the Hub that pushes live scoresheet snapshots
// to everyone watching a game. A persistent WebSocket connection lets the
// server push each update the moment the scorekeeper records it — no polling.
//
// The Hub is transport-agnostic: it deals in Client structs and byte slices.
// The HTTP upgrade and the per-connection read/write pumps live in
// internal/handlers/livefeed.go.
package websocket

import "sync"

// Client represents a single connected viewer. Each device watching a live
// game has one Client instance on the server.
type Client struct {
	GameID string      // Which game this client is watching
	Send   chan []byte // Buffered channel of outgoing snapshots; the Hub writes, the connection's write pump drains
}

// Message is a unit of data to broadcast to all clients watching one game.
type Message struct {
	GameID string
	Data   []byte // JSON-encoded scoresheet snapshot
}

// Hub manages all active connections, grouped by game ID. It runs in its own
// goroutine and processes registration, unregistration, and broadcasts
// through channels, so the clients map is only ever mutated from one place.
type Hub struct {
	// clients is a nested map: gameID -> set of clients. A map[*Client]bool
	// as a set is the usual Go idiom.
	clients map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	// mu lets broadcasts read the client list with an RLock while the main
	// loop holds the write lock for map mutations.
	mu sync.RWMutex
}

// NewHub creates an empty Hub. The broadcast channel is buffered so a burst
// of scoring events doesn't block the scorekeeper's request; register and
// unregister stay unbuffered because those need to complete synchronously.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the Hub's event loop. It must be called in a goroutine
// ("go hub.Run()") and blocks forever.
func (h *Hub) Run() {
	for {
		select {

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.GameID] == nil {
				h.clients[client.GameID] = make(map[*Client]bool)
			}
			h.clients[client.GameID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.drop(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			clients := h.clients[msg.GameID]
			h.mu.RUnlock()

			var slow []*Client
			for client := range clients {
				select {
				case client.Send <- msg.Data:
				// A full Send buffer means the client can't keep up — drop
				// the connection rather than stall every other watcher.
				default:
					slow = append(slow, client)
				}
			}
			for _, client := range slow {
				h.drop(client)
			}
		}
	}
}

// drop removes a client from its game's set and closes its Send channel,
// which signals the connection's write pump to stop. Only called from the Run
// goroutine, so a client can never be dropped twice.
func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.GameID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.GameID)
	}
}

// BroadcastToGame sends data to every client watching the given game. This
// is what the scoring manager calls after each flush.
func (h *Hub) BroadcastToGame(gameID string, data []byte) {
	h.broadcast <- &Message{GameID: gameID, Data: data}
}

// Register adds a client so it starts receiving broadcasts for its game.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client when its connection closes.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
