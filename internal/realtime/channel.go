// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/gorilla/websocket"
)

const (
	endpointPath = "/api/realtime"
	writeTimeout = 5 * time.Second
)

// EndpointURL turns the server HTTP address into the websocket URL of the
// realtime endpoint. A bare host:port is treated as http.
func EndpointURL(httpAddress string) (string, error) {
	if !strings.Contains(httpAddress, "://") {
		httpAddress = "http://" + httpAddress
	}

	u, err := url.Parse(httpAddress)
	if err != nil {
		return "", fmt.Errorf("parse server address: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + endpointPath

	return u.String(), nil
}

// WSChannel is a [Channel] over a gorilla websocket connection.
type WSChannel struct {
	url    string
	token  func() string
	dialer *websocket.Dialer

	mu      sync.Mutex
	conn    *websocket.Conn
	done    chan struct{}
	subs    map[string]map[uint64]Handler
	nextID  uint64
	writeMu sync.Mutex

	logger *logger.Logger
}

// NewWSChannel returns a disconnected channel for endpoint. token supplies
// the bearer token sent with every dial.
func NewWSChannel(endpoint string, token func() string, logger *logger.Logger) *WSChannel {
	return &WSChannel{
		url:    endpoint,
		token:  token,
		dialer: websocket.DefaultDialer,
		subs:   make(map[string]map[uint64]Handler),
		logger: logger,
	}
}

func (c *WSChannel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.mu.Unlock()

	header := http.Header{}
	if t := c.token(); t != "" {
		header.Set("Authorization", "Bearer "+t)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.done = make(chan struct{})
	channels := make([]string, 0, len(c.subs))
	for ch := range c.subs {
		channels = append(channels, ch)
	}
	done := c.done
	c.mu.Unlock()

	go c.readLoop(conn, done)

	for _, ch := range channels {
		if err := c.Send(ctx, models.RealtimeMessage{Type: models.RealtimeSubscribe, Channel: ch}); err != nil {
			return err
		}
	}

	c.logger.Info().Str("func", "*WSChannel.Connect").Str("url", c.url).Msg("realtime channel connected")
	return nil
}

func (c *WSChannel) Subscribe(channel string, handler Handler) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	first := len(c.subs[channel]) == 0
	if first {
		c.subs[channel] = make(map[uint64]Handler)
	}
	c.subs[channel][id] = handler
	connected := c.conn != nil
	c.mu.Unlock()

	if first && connected {
		c.sendQuietly(models.RealtimeMessage{Type: models.RealtimeSubscribe, Channel: channel})
	}

	var once sync.Once
	return func() {
		once.Do(func() { c.unsubscribe(channel, id) })
	}
}

func (c *WSChannel) unsubscribe(channel string, id uint64) {
	c.mu.Lock()
	delete(c.subs[channel], id)
	last := len(c.subs[channel]) == 0
	if last {
		delete(c.subs, channel)
	}
	connected := c.conn != nil
	c.mu.Unlock()

	if last && connected {
		c.sendQuietly(models.RealtimeMessage{Type: models.RealtimeUnsubscribe, Channel: channel})
	}
}

func (c *WSChannel) Send(ctx context.Context, msg models.RealtimeMessage) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode realtime message: %w", err)
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(deadline)
	if err = conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		return fmt.Errorf("write realtime message: %w", err)
	}
	return nil
}

func (c *WSChannel) sendQuietly(msg models.RealtimeMessage) {
	if err := c.Send(context.Background(), msg); err != nil {
		c.logger.Warn().Err(err).Str("channel", msg.Channel).Str("type", string(msg.Type)).Msg("realtime control frame not sent")
	}
}

func (c *WSChannel) Disconnect() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
	c.writeMu.Unlock()

	return conn.Close()
}

func (c *WSChannel) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *WSChannel) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		_ = conn.Close()
		close(done)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn().Err(err).Str("func", "*WSChannel.readLoop").Msg("realtime connection lost")
			}
			return
		}

		var msg models.RealtimeMessage
		if err = json.Unmarshal(raw, &msg); err != nil {
			c.logger.Warn().Err(err).Str("func", "*WSChannel.readLoop").Msg("malformed realtime frame")
			continue
		}
		c.dispatch(msg)
	}
}

func (c *WSChannel) dispatch(msg models.RealtimeMessage) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.subs[msg.Channel])+len(c.subs[AllChannels]))
	for _, h := range c.subs[msg.Channel] {
		handlers = append(handlers, h)
	}
	if msg.Channel != AllChannels {
		for _, h := range c.subs[AllChannels] {
			handlers = append(handlers, h)
		}
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(msg)
	}
}
