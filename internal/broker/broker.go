// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package broker distributes table change events between server instances.
//
// Every successful table mutation is published as a [models.ChangeEvent].
// The realtime hub subscribes and pushes the events to connected clients.
// The memory broker serves a single instance; the redis and kafka brokers
// let several instances share one stream.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
)

var (
	ErrBrokerClosed      = errors.New("broker is closed")
	ErrUnknownBrokerType = errors.New("unknown broker type")
)

// Broker publishes and delivers change events.
type Broker interface {
	Publish(ctx context.Context, event models.ChangeEvent) error

	// Subscribe delivers events to handler until ctx is cancelled or the
	// broker is closed. It blocks.
	Subscribe(ctx context.Context, handler func(models.ChangeEvent)) error

	Close() error
}

// New builds the broker selected by cfg.Type. An empty type selects the
// memory broker.
func New(cfg config.Broker, logger *logger.Logger) (Broker, error) {
	switch cfg.Type {
	case "", config.BrokerMemory:
		return NewMemoryBroker(logger), nil
	case config.BrokerRedis:
		return NewRedisBroker(cfg, logger)
	case config.BrokerKafka:
		return NewKafkaBroker(cfg, logger)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBrokerType, cfg.Type)
}

func encodeEvent(event models.ChangeEvent) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode change event: %w", err)
	}
	return raw, nil
}

func decodeEvent(raw []byte) (models.ChangeEvent, error) {
	var event models.ChangeEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return models.ChangeEvent{}, fmt.Errorf("decode change event: %w", err)
	}
	return event, nil
}
