// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"context"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/sethvargo/go-retry"
)

const (
	reconnectBase = time.Second
	reconnectMax  = 30 * time.Second
)

// Emitter publishes events on the client bus.
type Emitter interface {
	Emit(eventType string, payload any)
}

// Bridge keeps a Channel connected and re-emits the change frames of tables
// as models.EventRealtimeChange events.
type Bridge struct {
	channel Channel
	bus     Emitter
	tables  []string
	backoff func() retry.Backoff

	logger *logger.Logger
}

func NewBridge(channel Channel, bus Emitter, tables []string, logger *logger.Logger) *Bridge {
	return &Bridge{
		channel: channel,
		bus:     bus,
		tables:  tables,
		backoff: func() retry.Backoff {
			return retry.WithCappedDuration(reconnectMax, retry.NewExponential(reconnectBase))
		},
		logger: logger,
	}
}

func (b *Bridge) Name() string { return "realtime" }

// Run subscribes to the tables and reconnects with capped exponential
// backoff until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	for _, table := range b.tables {
		unsubscribe := b.channel.Subscribe(table, b.forward)
		defer unsubscribe()
	}

	for {
		err := retry.Do(ctx, b.backoff(), func(ctx context.Context) error {
			if err := b.channel.Connect(ctx); err != nil {
				b.logger.Debug().Err(err).Msg("realtime connect failed")
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			return
		}

		select {
		case <-ctx.Done():
			_ = b.channel.Disconnect()
			return
		case <-b.channel.Done():
		}
	}
}

func (b *Bridge) forward(msg models.RealtimeMessage) {
	if msg.Type != models.RealtimeEvent || msg.Event == nil {
		return
	}
	b.bus.Emit(models.EventRealtimeChange, *msg.Event)
}
