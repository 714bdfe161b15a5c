package web

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"pdf-assistant/internal/domain/model"
	"pdf-assistant/internal/usecase"
)

// Hub tracks one websocket per client id (the session id) and pushes
// chat messages and operation updates as they are composed. Implements
// usecase.Notifier.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*wsConn
	log   *zerolog.Logger
}

var _ usecase.Notifier = (*Hub)(nil)

type wsConn struct {
	mu sync.Mutex // serializes writes; gorilla allows one writer at a time
	c  *websocket.Conn
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{conns: make(map[string]*wsConn), log: logger}
}

type frame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Serve upgrades the request and parks until the peer goes away. The
// read loop only drains control frames; all data flows server->client.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, clientID string) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("client_id", clientID).Msg("websocket upgrade failed")
		return
	}
	conn := &wsConn{c: c}

	h.mu.Lock()
	if old, ok := h.conns[clientID]; ok {
		_ = old.c.Close()
	}
	h.conns[clientID] = conn
	h.mu.Unlock()

	_ = conn.write(frame{Type: "connection", Message: "Connected to PDF Assistant", Data: clientID})

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	if h.conns[clientID] == conn {
		delete(h.conns, clientID)
	}
	h.mu.Unlock()
	_ = c.Close()
}

func (h *Hub) NotifyMessage(sessionID string, m model.ChatMessage) {
	h.send(sessionID, frame{Type: "chat_message", Data: m})
}

func (h *Hub) NotifyOperation(sessionID string, r model.OperationResult) {
	h.send(sessionID, frame{Type: "operation_update", Data: r})
}

func (h *Hub) send(clientID string, f frame) {
	h.mu.RLock()
	conn, ok := h.conns[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := conn.write(f); err != nil {
		h.log.Debug().Err(err).Str("client_id", clientID).Msg("websocket push failed, dropping connection")
		h.mu.Lock()
		if h.conns[clientID] == conn {
			delete(h.conns, clientID)
		}
		h.mu.Unlock()
		_ = conn.c.Close()
	}
}

func (c *wsConn) write(f frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.WriteJSON(f)
}
