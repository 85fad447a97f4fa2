package toast

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBuffer     = 16
)

// Message is the frame written to clients.
type Message struct {
	Event  string `json:"event"`
	Detail Toast  `json:"detail"`
}

// Hub fans toasts out to connected WebSocket clients. Run must be running
// for clients to be served.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	register   chan *client
	unregister chan *client
	broadcast  chan Toast
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(l *slog.Logger) HubOption {
	return func(h *Hub) { h.logger = l }
}

// WithAllowedOrigins restricts upgrades to the given origins
// ("scheme://host"). "*" allows any origin. Without this option only
// same-origin requests are accepted.
func WithAllowedOrigins(origins ...string) HubOption {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = struct{}{}
		}
	}
	return func(h *Hub) {
		if len(allowed) == 0 {
			return
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			return originAllowed(allowed, r.Header.Get("Origin"))
		}
	}
}

// NewHub creates a hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Toast, 256),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// Run serves registrations and broadcasts until ctx is done, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.logger.Debug("toast hub started")

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Debug("toast hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("toast client registered", "clients", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("toast client unregistered", "clients", n)

		case t := <-h.broadcast:
			msg := Message{Event: EventName, Detail: t}
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
					h.logger.Warn("toast client too slow, disconnected")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Notify queues t for every connected client. Toasts are dropped when the
// broadcast queue is full.
func (h *Hub) Notify(t Toast) {
	select {
	case h.broadcast <- t:
	default:
		h.logger.Warn("toast queue full, dropping toast", "level", string(t.Level))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a WebSocket and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("toast upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan Message, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) remove(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func originAllowed(allowed map[string]struct{}, origin string) bool {
	if _, ok := allowed["*"]; ok {
		return true
	}
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Host == "" {
		return false
	}
	_, ok := allowed[u.Scheme+"://"+u.Host]
	return ok
}
