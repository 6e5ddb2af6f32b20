package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames.
	maxMessageSize = 512

	sendBuffer = 16
)

// Message is pushed to every socket watching a session.
type Message struct {
	SessionID string        `json:"session_id"`
	Event     string        `json:"event"`
	State     *SessionState `json:"state,omitempty"`
}

// Event names.
const (
	EventState   = "state_update"
	EventDeleted = "session_deleted"
)

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub tracks the sockets watching each session.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewHub creates a hub. Origins are checked against allowedOrigins; an
// empty list accepts any origin.
func NewHub(allowedOrigins []string, logger *log.Logger) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Hub{
		sessions: make(map[string]map[*client]struct{}),
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return len(allowed) == 0 || allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// ServeWS upgrades the request and subscribes the socket to sessionID.
// The initial state is queued before any update.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, initial SessionState) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: sessionID,
	}

	if data, err := json.Marshal(Message{SessionID: sessionID, Event: EventState, State: &initial}); err == nil {
		c.send <- data
	}

	h.mu.Lock()
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[*client]struct{})
	}
	h.sessions[sessionID][c] = struct{}{}
	total := len(h.sessions[sessionID])
	h.mu.Unlock()

	h.logger.Debug("socket subscribed", "session", sessionID, "clients", total)

	go c.writePump()
	go c.readPump()
}

// Broadcast sends a state update to every socket on the session.
func (h *Hub) Broadcast(sessionID string, state SessionState) {
	h.publish(Message{SessionID: sessionID, Event: EventState, State: &state})
}

// CloseSession notifies and disconnects every socket on the session.
func (h *Hub) CloseSession(sessionID string) {
	h.publish(Message{SessionID: sessionID, Event: EventDeleted})

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.sessions[sessionID] {
		h.removeLocked(c)
	}
}

// Clients returns the number of sockets watching a session.
func (h *Hub) Clients(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[sessionID])
}

func (h *Hub) publish(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("cannot encode websocket message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.sessions[msg.SessionID] {
		select {
		case c.send <- data:
		default:
			// Slow consumer
			h.removeLocked(c)
		}
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	clients, ok := h.sessions[c.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}

	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.sessions, c.sessionID)
	}
}

// readPump keeps the connection alive and detects disconnects.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // Deadline errors surface on the next read
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket closed", "session", c.sessionID, "error", err)
			}
			return
		}
	}
}

// writePump sends queued messages, one frame each, and keeps pinging.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			//nolint:errcheck // Write errors end the pump below
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				//nolint:errcheck // Peer may already be gone
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			//nolint:errcheck // Write errors end the pump below
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
