// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package realtime carries table change events from the server to clients
// over websocket.
//
// The server [Hub] upgrades authenticated requests on /api/realtime and
// pushes every [models.ChangeEvent] received from the change broker to the
// connections subscribed to the event's table. The client side is a
// [Channel]; [Bridge] keeps a channel connected and re-emits change frames
// on the client event bus.
package realtime

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-tool-keeper/models"
)

var (
	ErrNotConnected     = errors.New("realtime channel is not connected")
	ErrAlreadyConnected = errors.New("realtime channel is already connected")
)

// AllChannels subscribes a connection to the events of every table.
const AllChannels = "*"

// Handler receives the frames of one channel.
type Handler func(msg models.RealtimeMessage)

// Channel is a client connection to the realtime endpoint.
type Channel interface {
	Connect(ctx context.Context) error

	// Subscribe registers handler for frames of channel. Subscriptions
	// survive reconnects.
	Subscribe(channel string, handler Handler) (unsubscribe func())

	Send(ctx context.Context, msg models.RealtimeMessage) error

	Disconnect() error

	// Done is closed when the current connection ends.
	Done() <-chan struct{}
}

// nopChannel is used when realtime is disabled. It never delivers frames.
type nopChannel struct{}

// NewNopChannel returns a Channel that accepts every call and stays silent.
func NewNopChannel() Channel { return nopChannel{} }

func (nopChannel) Connect(context.Context) error                      { return nil }
func (nopChannel) Subscribe(string, Handler) func()                   { return func() {} }
func (nopChannel) Send(context.Context, models.RealtimeMessage) error { return nil }
func (nopChannel) Disconnect() error                                  { return nil }
func (nopChannel) Done() <-chan struct{}                              { return nil }
