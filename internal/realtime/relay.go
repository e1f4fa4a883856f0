// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"context"

	"github.com/MKhiriev/go-tool-keeper/internal/broker"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/sethvargo/go-retry"
)

// Relay is the server worker feeding a Hub from the change broker. A lost
// subscription is re-established with the same backoff as the client
// Bridge.
type Relay struct {
	hub     *Hub
	changes broker.Broker
	backoff func() retry.Backoff

	logger *logger.Logger
}

func NewRelay(hub *Hub, changes broker.Broker, logger *logger.Logger) *Relay {
	return &Relay{
		hub:     hub,
		changes: changes,
		backoff: func() retry.Backoff {
			return retry.WithCappedDuration(reconnectMax, retry.NewExponential(reconnectBase))
		},
		logger: logger,
	}
}

func (r *Relay) Name() string { return "realtime-relay" }

func (r *Relay) Run(ctx context.Context) {
	_ = retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		err := r.hub.Run(ctx, r.changes)
		if ctx.Err() != nil {
			return nil
		}
		r.logger.Warn().Err(err).Str("func", "*Relay.Run").Msg("change subscription lost")
		return retry.RetryableError(err)
	})
}
