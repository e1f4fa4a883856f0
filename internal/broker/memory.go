// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package broker

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
)

// MemoryBroker delivers events to subscribers of the same process.
// Handlers run on the publishing goroutine.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[uint64]func(models.ChangeEvent)
	nextID uint64
	closed bool
	done   chan struct{}

	logger *logger.Logger
}

func NewMemoryBroker(logger *logger.Logger) *MemoryBroker {
	return &MemoryBroker{
		subs:   make(map[uint64]func(models.ChangeEvent)),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, event models.ChangeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBrokerClosed
	}
	handlers := make([]func(models.ChangeEvent), 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, handler func(models.ChangeEvent)) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBrokerClosed
	}
	b.nextID++
	id := b.nextID
	b.subs[id] = handler
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return ErrBrokerClosed
	}
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	return nil
}
