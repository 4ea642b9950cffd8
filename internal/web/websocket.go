package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// WebSocket upgrader with reasonable settings
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same policy as the CORS middleware
		return true
	},
}

// Hub fans game updates out to the clients watching each game.
type Hub struct {
	// Registered clients by game ID
	gameClients map[string]map[*Client]bool

	// Broadcast channel for game updates
	broadcast chan GameUpdate

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

// Client represents a WebSocket connection
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	gameID   string
	clientID string
	// closed is guarded by hub.mu
	closed bool
}

// GameUpdate represents an update to broadcast
type GameUpdate struct {
	GameID string      `json:"gameId"`
	Type   string      `json:"type"` // "move", "spectator_count"
	Data   interface{} `json:"data"`
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		gameClients: make(map[string]map[*Client]bool),
		broadcast:   make(chan GameUpdate, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.gameClients[client.gameID] == nil {
				h.gameClients[client.gameID] = make(map[*Client]bool)
			}
			h.gameClients[client.gameID][client] = true
			count := len(h.gameClients[client.gameID])
			h.mu.Unlock()

			log.Info().
				Str("gameID", client.gameID).
				Str("clientID", client.clientID).
				Msg("Client connected to game")
			h.deliver(GameUpdate{GameID: client.gameID, Type: "spectator_count", Data: map[string]int{"count": count}})

		case client := <-h.unregister:
			h.mu.Lock()
			count := 0
			if clients, ok := h.gameClients[client.gameID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					client.close()
				}
				count = len(clients)

				// Clean up empty game rooms
				if count == 0 {
					delete(h.gameClients, client.gameID)
				}
			}
			h.mu.Unlock()

			log.Info().
				Str("gameID", client.gameID).
				Str("clientID", client.clientID).
				Msg("Client disconnected from game")
			if count > 0 {
				h.deliver(GameUpdate{GameID: client.gameID, Type: "spectator_count", Data: map[string]int{"count": count}})
			}

		case update := <-h.broadcast:
			h.deliver(update)
		}
	}
}

func (h *Hub) deliver(update GameUpdate) {
	message, err := json.Marshal(update)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal game update")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.gameClients[update.GameID]
	for client := range clients {
		select {
		case client.send <- message:
		default:
			// Client's send channel is full, close it
			client.close()
			delete(clients, client)
		}
	}
	if clients != nil && len(clients) == 0 {
		delete(h.gameClients, update.GameID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for gameID, clients := range h.gameClients {
		for client := range clients {
			client.close()
		}
		delete(h.gameClients, gameID)
	}
}

// BroadcastGameUpdate queues an update for everyone watching update.GameID.
// It never blocks; updates are dropped while the queue is full.
func (h *Hub) BroadcastGameUpdate(update GameUpdate) {
	select {
	case h.broadcast <- update:
	default:
		log.Warn().Str("gameID", update.GameID).Msg("Broadcast channel full, dropping update")
	}
}

// BroadcastToGame sends an update to all clients watching a specific game
func (h *Hub) BroadcastToGame(gameID string, update GameUpdate) {
	update.GameID = gameID
	h.BroadcastGameUpdate(update)
}

// SpectatorCount returns the number of clients watching gameID.
func (h *Hub) SpectatorCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.gameClients[gameID])
}

// SpectatorCountHandler reports how many clients watch a game.
func (s *Service) SpectatorCountHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gameId":         gameID,
		"spectatorCount": s.hub.SpectatorCount(gameID),
	})
}

// WebSocketHandler handles WebSocket upgrade requests
func (s *Service) WebSocketHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Get game ID from query params
		gameID := r.URL.Query().Get("gameId")
		if gameID == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeBadRequest, Message: "missing gameId parameter"})
			return
		}

		// Upgrade connection
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
			return
		}

		client := &Client{
			hub:      hub,
			conn:     conn,
			send:     make(chan []byte, 256),
			gameID:   gameID,
			clientID: uuid.NewString(),
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

// close must be called with hub.mu held for writing.
func (c *Client) close() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump handles incoming messages from the WebSocket
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("WebSocket error")
			}
			break
		}

		// Answer application level pings
		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err == nil && msg["type"] == "ping" {
			if data, err := json.Marshal(map[string]string{"type": "pong"}); err == nil {
				c.hub.mu.RLock()
				if !c.closed {
					select {
					case c.send <- data:
					default:
					}
				}
				c.hub.mu.RUnlock()
			}
		}
	}
}

// writePump handles sending messages to the WebSocket
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
