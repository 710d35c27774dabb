package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/dispatch"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second

	defaultSendBuf      = 32
	defaultBroadcastBuf = 128
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// envelope is the wire format of every event frame.
type envelope struct {
	Type string      `json:"type"`
	Ts   *time.Time  `json:"ts,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// effectData is the payload of an "effect" event.
type effectData struct {
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Profile string `json:"profile"`
	Detail  string `json:"detail"`
	Error   string `json:"error,omitempty"`
}

// Hub fans dispatch effects out to websocket clients. Each client has its
// own write pump, and a client whose send buffer fills is disconnected.
type Hub struct {
	logger *slog.Logger

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	clients map[*Client]struct{}

	sendBuf  int
	snapshot func() interface{}
}

// HubConfig sizes the hub queues. Zero values use the defaults.
type HubConfig struct {
	SendBuf      int
	BroadcastBuf int
	// Snapshot, if set, is sent to each client on connect as a "status" event.
	Snapshot func() interface{}
}

// NewHub creates a hub. Call Run to start it.
func NewHub(logger *slog.Logger, cfg HubConfig) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SendBuf <= 0 {
		cfg.SendBuf = defaultSendBuf
	}
	if cfg.BroadcastBuf <= 0 {
		cfg.BroadcastBuf = defaultBroadcastBuf
	}
	return &Hub{
		logger:     logger,
		broadcast:  make(chan []byte, cfg.BroadcastBuf),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		clients:    make(map[*Client]struct{}),
		sendBuf:    cfg.SendBuf,
		snapshot:   cfg.Snapshot,
	}
}

// Run processes hub events until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("event client connected", "remote_addr", c.remoteAddr, "clients", n)

		case c := <-h.unregister:
			h.remove(c, "unregister")

		case msg := <-h.broadcast:
			var slow []*Client
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()

			for _, c := range slow {
				h.remove(c, "slow_client")
			}
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues an effect for every client. It never blocks, so it is safe
// to call from an engine observer.
func (h *Hub) Publish(ef dispatch.Effect) {
	data := effectData{
		Kind:    string(ef.Kind),
		Label:   ef.Label,
		Profile: ef.Profile,
		Detail:  ef.Detail(),
	}
	if ef.Err != nil {
		data.Error = ef.Err.Error()
	}
	h.publish("effect", ef.At, data)
}

func (h *Hub) publish(typ string, at time.Time, data interface{}) {
	if at.IsZero() {
		at = time.Now()
	}
	msg, err := json.Marshal(envelope{Type: typ, Ts: &at, Data: data})
	if err != nil {
		h.logger.Warn("failed to encode event", "type", typ, "error", err)
		return
	}
	h.BroadcastBytes(msg)
}

// BroadcastBytes queues an encoded frame, dropping it if the hub is backed up.
func (h *Hub) BroadcastBytes(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("event queue full, dropping message", "bytes", len(msg))
	}
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(h, conn, r.RemoteAddr)
	if h.snapshot != nil {
		now := time.Now()
		if msg, err := json.Marshal(envelope{Type: "status", Ts: &now, Data: h.snapshot()}); err == nil {
			c.send <- msg
		}
	}
	h.register <- c

	// The pumps outlive the request; the hub and socket errors end them.
	go c.writePump()
	go c.readPump()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.conn != nil {
			c.conn.Close()
		}
		safeClose(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) remove(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	if c.conn != nil {
		c.conn.Close()
	}
	safeClose(c.send)
	h.logger.Debug("event client disconnected", "remote_addr", c.remoteAddr, "reason", reason, "clients", n)
}

func safeClose(ch chan []byte) {
	defer func() {
		recover() // already closed
	}()
	close(ch)
}

// Client is one websocket connection.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
}

func newClient(h *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, h.sendBuf),
		remoteAddr: remoteAddr,
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logWriteError(err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logWriteError(err)
				return
			}
		}
	}
}

func (c *Client) logWriteError(err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	c.hub.logger.Debug("event client write failed", "remote_addr", c.remoteAddr, "error", err)
}

// readPump discards incoming frames and unregisters the client when the
// connection drops.
func (c *Client) readPump() {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.hub.unregister <- c
			return
		}
	}
}
