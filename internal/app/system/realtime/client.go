package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 64 << 10
	sendQueueSize  = 64
)

// Client is one websocket connection.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// groups is guarded by hub.mu.
	groups map[string]struct{}

	closeOnce sync.Once
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:     uuid.NewString(),
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		groups: make(map[string]struct{}),
	}
}

// ID identifies the connection in logs.
func (c *Client) ID() string { return c.id }

type joinData struct {
	UserID string `json:"userId"`
}

// readPump dispatches inbound frames until the connection fails.
func (c *Client) readPump(ctx context.Context) {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("realtime: read failed", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
			c.hub.log.Debug("realtime: ignoring malformed frame", zap.String("client_id", c.id))
			continue
		}

		if env.Event == EventJoin {
			var d joinData
			if err := json.Unmarshal(env.Data, &d); err == nil {
				c.hub.Join(c, d.UserID)
			}
			continue
		}

		fn, ok := c.hub.handler(env.Event)
		if !ok {
			c.hub.log.Debug("realtime: no handler for event", zap.String("event", env.Event))
			continue
		}
		fn(ctx, c, env.Data)
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.hub.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.unregister(c)
				return
			}
		}
	}
}

// close stops the writer. Safe to call more than once.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}
