// Package realtime is the websocket publish/subscribe hub.
//
// Clients connect to ServeWS and exchange Envelope frames. A client may join
// groups keyed by user id; Publish delivers according to the hub's Policy.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/dalemusser/carehub/internal/app/system/metrics"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message is one published event.
type Message struct {
	Event string
	Data  any
	// Recipients are group keys (user ids). Only PolicyTargeted uses them.
	Recipients []string
}

// Publisher is what handlers depend on to emit events.
type Publisher interface {
	Publish(msg Message)
}

// InboundHandler handles one inbound event from a client.
type InboundHandler func(ctx context.Context, c *Client, data json.RawMessage)

// Hub tracks connected clients and their groups.
type Hub struct {
	policy Policy
	log    *zap.Logger

	upgrader websocket.Upgrader

	mu       sync.RWMutex
	clients  map[*Client]struct{}
	groups   map[string]map[*Client]struct{}
	handlers map[string]InboundHandler
	closed   bool
}

// NewHub creates a hub with the given delivery policy.
func NewHub(policy Policy, logger *zap.Logger) *Hub {
	return &Hub{
		policy: policy,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin checks are left to CORS configuration in front of the API.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:  make(map[*Client]struct{}),
		groups:   make(map[string]map[*Client]struct{}),
		handlers: make(map[string]InboundHandler),
	}
}

// Policy returns the delivery policy.
func (h *Hub) Policy() Policy { return h.policy }

// Handle registers fn for an inbound event. join is handled by the hub.
func (h *Hub) Handle(event string, fn InboundHandler) {
	h.mu.Lock()
	h.handlers[event] = fn
	h.mu.Unlock()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish encodes msg once and queues it for every selected client.
// Clients whose queue is full are disconnected.
func (h *Hub) Publish(msg Message) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		h.log.Error("realtime: encode payload failed", zap.String("event", msg.Event), zap.Error(err))
		return
	}
	frame, err := json.Marshal(Envelope{Event: msg.Event, Data: data})
	if err != nil {
		h.log.Error("realtime: encode frame failed", zap.String("event", msg.Event), zap.Error(err))
		return
	}
	metrics.RealtimeEvents.WithLabelValues(msg.Event).Inc()

	var slow []*Client
	h.mu.RLock()
	for c := range h.targets(msg) {
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("realtime: dropping slow client", zap.String("client_id", c.id), zap.String("event", msg.Event))
		h.unregister(c)
	}
}

// targets returns the clients msg is delivered to. Callers hold h.mu.
func (h *Hub) targets(msg Message) map[*Client]struct{} {
	if h.policy != PolicyTargeted || len(msg.Recipients) == 0 {
		return h.clients
	}
	out := make(map[*Client]struct{})
	for _, key := range msg.Recipients {
		for c := range h.groups[key] {
			out[c] = struct{}{}
		}
	}
	return out
}

// Join adds c to the group for key.
func (h *Hub) Join(c *Client, key string) {
	if key == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	set := h.groups[key]
	if set == nil {
		set = make(map[*Client]struct{})
		h.groups[key] = set
	}
	set[c] = struct{}{}
	c.groups[key] = struct{}{}
}

// ServeWS upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.log.Debug("realtime: upgrade failed", zap.Error(err))
		return
	}
	c := newClient(h, conn)
	if !h.register(c) {
		_ = conn.Close()
		return
	}

	go c.writePump()
	c.readPump(r.Context())
}

// Close disconnects every client. Later connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	all := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.Unlock()

	for _, c := range all {
		h.unregister(c)
	}
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	metrics.RealtimeClients.Inc()
	h.log.Debug("realtime: client connected", zap.String("client_id", c.id))
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for key := range c.groups {
		if set := h.groups[key]; set != nil {
			delete(set, c)
			if len(set) == 0 {
				delete(h.groups, key)
			}
		}
	}
	h.mu.Unlock()

	metrics.RealtimeClients.Dec()
	c.close()
	h.log.Debug("realtime: client disconnected", zap.String("client_id", c.id))
}

func (h *Hub) handler(event string) (InboundHandler, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn, ok := h.handlers[event]
	return fn, ok
}
