// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/broker"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/gorilla/websocket"
)

// sendBuffer is the number of frames queued per connection. A connection
// whose buffer is full is dropped.
const sendBuffer = 64

// Hub fans change events out to websocket connections.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[*hubConn]struct{}

	logger *logger.Logger
}

type hubConn struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once

	mu       sync.RWMutex
	channels map[string]struct{}
}

func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		// A nil CheckOrigin rejects browser requests whose Origin host differs
		// from the request host. Non-browser clients send no Origin.
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns:  make(map[*hubConn]struct{}),
		logger: logger,
	}
}

// Run feeds the hub from changes until ctx is cancelled.
func (h *Hub) Run(ctx context.Context, changes broker.Broker) error {
	return changes.Subscribe(ctx, h.Broadcast)
}

// Broadcast pushes event to every connection subscribed to its table.
func (h *Hub) Broadcast(event models.ChangeEvent) {
	raw, err := json.Marshal(models.RealtimeMessage{Type: models.RealtimeEvent, Channel: event.Table, Event: &event})
	if err != nil {
		h.logger.Err(err).Str("func", "*Hub.Broadcast").Msg("failed to encode change event")
		return
	}

	h.mu.RLock()
	targets := make([]*hubConn, 0, len(h.conns))
	for c := range h.conns {
		if c.subscribed(event.Table) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- raw:
		case <-c.done:
		default:
			h.logger.Warn().Str("func", "*Hub.Broadcast").Msg("slow realtime client dropped")
			h.drop(c)
		}
	}
}

// Clients returns the number of open connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Str("func", "*Hub.ServeHTTP").Msg("websocket upgrade failed")
		return
	}

	c := &hubConn{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		channels: make(map[string]struct{}),
	}
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	log.Debug().Str("func", "*Hub.ServeHTTP").Msg("realtime client connected")

	go h.writeLoop(c)
	h.readLoop(c)
	h.drop(c)
}

func (h *Hub) readLoop(c *hubConn) {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg models.RealtimeMessage
		if err = json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case models.RealtimeSubscribe:
			if msg.Channel == AllChannels || models.IsKnownTable(msg.Channel) {
				c.mu.Lock()
				c.channels[msg.Channel] = struct{}{}
				c.mu.Unlock()
			}
		case models.RealtimeUnsubscribe:
			c.mu.Lock()
			delete(c.channels, msg.Channel)
			c.mu.Unlock()
		case models.RealtimePing:
			if pong, err := json.Marshal(models.RealtimeMessage{Type: models.RealtimePing, Payload: msg.Payload}); err == nil {
				select {
				case c.send <- pong:
				default:
				}
			}
		}
	}
}

func (h *Hub) writeLoop(c *hubConn) {
	for {
		select {
		case <-c.done:
			return
		case raw := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				h.drop(c)
				return
			}
		}
	}
}

func (h *Hub) drop(c *hubConn) {
	c.once.Do(func() {
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *hubConn) subscribed(table string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, one := c.channels[table]
	_, all := c.channels[AllChannels]
	return one || all
}
