package relay

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	writeWait = 10 * time.Second
	closeWait = time.Second

	// queued frames per client before it is considered stalled
	sendBuffer = 32
)

// Hub fans every text frame out to all connected sockets.
type Hub struct {
	id        string
	logger    zerolog.Logger
	broadcast chan Broadcast
	done      chan struct{}

	mu      sync.Mutex
	clients map[string]*client
}

// client is one registered socket. Only its write pump writes to the
// socket; the hub hands it frames through send.
type client struct {
	id   string
	send chan []byte
}

// Broadcast is one inbound frame waiting to be relayed.
type Broadcast struct {
	Payload []byte
	Sender  string
}

func NewHub(logger zerolog.Logger) *Hub {
	id := uuid.New().String()
	return &Hub{
		id:        id,
		logger:    logger.With().Str("hub", id).Logger(),
		broadcast: make(chan Broadcast, 32),
		done:      make(chan struct{}),
		clients:   make(map[string]*client),
	}
}

// ID identifies the hub in logs.
func (h *Hub) ID() string {
	return h.id
}

// Len returns the number of connected sockets.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleWebSocket registers conn and queues its text frames for relay
// until the socket fails.
func (h *Hub) HandleWebSocket(conn *websocket.Conn) {
	c := h.register()
	logger := h.logger.With().Str("client", c.id).Logger()
	logger.Info().Msg("client connected")

	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		writePump(conn, c, logger)
	}()

	// conn is released once this handler returns, so wait for the pump.
	defer func() {
		h.remove(c.id)
		conn.Close()
		<-pumped
		logger.Info().Msg("client disconnected")
	}()

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("read error")
			}
			return
		}
		if mt != websocket.TextMessage {
			logger.Debug().Int("type", mt).Msg("ignoring non-text frame")
			continue
		}

		select {
		case h.broadcast <- Broadcast{Payload: msg, Sender: c.id}:
		case <-h.done:
			return
		}
	}
}

// writePump writes queued frames to conn until send is closed or a write
// fails. A closed queue ends with a going-away close frame.
func writePump(conn *websocket.Conn, c *client, logger zerolog.Logger) {
	for payload := range c.send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn().Err(err).Msg("write error")
			conn.Close()
			return
		}
	}

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
	conn.Close()
}

// HandleMessages hands queued frames to every client until ctx is done.
// A client whose queue is full is dropped. It must run once per hub.
func (h *Hub) HandleMessages(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case b := <-h.broadcast:
			h.relay(b)
		}
	}
}

func (h *Hub) relay(b Broadcast) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		select {
		case c.send <- b.Payload:
		default:
			h.logger.Warn().Str("client", id).Msg("client stalled, dropping")
			h.drop(id)
		}
	}
	h.logger.Debug().Str("sender", b.Sender).Int("bytes", len(b.Payload)).Msg("relayed")
}

func (h *Hub) register() *client {
	c := &client{id: uuid.New().String(), send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(id)
}

// drop unregisters id and closes its queue. h.mu must be held.
func (h *Hub) drop(id string) {
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id := range h.clients {
		h.drop(id)
	}
}
