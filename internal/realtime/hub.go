// Package realtime pushes committed events to connected users. Each user has
// one logical channel; a message for a user with no open connection is
// dropped.
package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/anonto42/nano-midea/engagement/pkg/metrics"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	defaultMaxConnsPerUser = 8
	maxTotalConns          = 10000
)

var (
	ErrUserConnLimit   = errors.New("user connection limit reached")
	ErrServerConnLimit = errors.New("server connection limit reached")
	ErrHubClosed       = errors.New("hub is shut down")
)

// ChannelName is the logical address of a user's realtime channel.
func ChannelName(userID string) string {
	return "user:" + userID
}

// Hub maps user ids to their open connections on this instance.
type Hub struct {
	mu         sync.RWMutex
	conns      map[string]map[*Client]struct{}
	totalConns int
	maxPerUser int
	closed     bool
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger, maxConnsPerUser int) *Hub {
	if maxConnsPerUser <= 0 {
		maxConnsPerUser = defaultMaxConnsPerUser
	}
	return &Hub{
		conns:      make(map[string]map[*Client]struct{}),
		maxPerUser: maxConnsPerUser,
		log:        log,
	}
}

// Register binds conn to the user's channel.
func (h *Hub) Register(userID string, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.admit(userID); err != nil {
		return nil, err
	}
	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}

	client := newClient(h, conn, userID)
	m[client] = struct{}{}
	h.totalConns++
	metrics.WebSocketConnections.Inc()
	return client, nil
}

// CanRegister reports whether Register would currently accept userID.
func (h *Hub) CanRegister(userID string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.admit(userID)
}

func (h *Hub) admit(userID string) error {
	switch {
	case h.closed:
		return ErrHubClosed
	case h.totalConns >= maxTotalConns:
		return ErrServerConnLimit
	case len(h.conns[userID]) >= h.maxPerUser:
		return ErrUserConnLimit
	}
	return nil
}

// UnregisterClient removes client and closes its send queue. It is safe to
// call more than once.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.conns[client.UserID]
	if !ok {
		return
	}
	if _, exists := m[client]; !exists {
		return
	}
	delete(m, client)
	close(client.Send)
	h.totalConns--
	metrics.WebSocketConnections.Dec()
	if len(m) == 0 {
		delete(h.conns, client.UserID)
	}
}

// Deliver pushes payload to every connection of userID. With no connection
// the message is dropped; that is not an error.
func (h *Hub) Deliver(_ context.Context, userID string, payload []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for c := range h.conns[userID] {
		if c.TrySend(payload) {
			sent++
		}
	}
	if sent == 0 {
		metrics.RealtimeMessages.WithLabelValues("dropped").Inc()
		return nil
	}
	metrics.RealtimeMessages.WithLabelValues("delivered").Inc()
	return nil
}

// IsOnline reports whether userID has at least one connection here.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID]) > 0
}

// Shutdown closes every connection and rejects new registrations.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for userID, clients := range h.conns {
		for c := range clients {
			close(c.Send)
			if c.Conn == nil {
				continue
			}
			_ = c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			if err := c.Conn.Close(); err != nil {
				h.log.Debug().Err(err).Str("channel", ChannelName(userID)).Msg("close websocket")
			}
		}
	}
	metrics.WebSocketConnections.Sub(float64(h.totalConns))
	h.conns = make(map[string]map[*Client]struct{})
	h.totalConns = 0
	return nil
}
