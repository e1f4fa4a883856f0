// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package events implements the in-process event bus of the client.
//
// Handlers run synchronously in registration order on the emitting
// goroutine. A panicking handler is recovered and logged; the remaining
// handlers still run. The bus keeps a bounded history of emitted events for
// the dashboard.
package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
)

// DefaultHistorySize is the number of events kept by [Bus.History].
const DefaultHistorySize = 100

// Handler receives an emitted event.
type Handler func(models.Event)

type subscription struct {
	id        uint64
	eventType string // "" for OnAny
	handler   Handler
}

// Bus is a typed publish/subscribe hub. The zero value is not usable; use
// [NewBus].
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64

	history []models.Event
	head    int
	size    int

	now    func() time.Time
	logger *logger.Logger
}

// NewBus returns a bus keeping historySize events (DefaultHistorySize when
// historySize <= 0).
func NewBus(historySize int, logger *logger.Logger) *Bus {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &Bus{
		history: make([]models.Event, historySize),
		now:     time.Now,
		logger:  logger,
	}
}

// On registers handler for eventType. The returned function removes it and
// may be called more than once.
func (b *Bus) On(eventType string, handler Handler) (unsubscribe func()) {
	return b.subscribe(eventType, handler)
}

// OnAny registers handler for every event type.
func (b *Bus) OnAny(handler Handler) (unsubscribe func()) {
	return b.subscribe("", handler)
}

func (b *Bus) subscribe(eventType string, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, eventType: eventType, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Emit records the event in the history and calls matching handlers.
func (b *Bus) Emit(eventType string, payload any) {
	ev := models.Event{Type: eventType, Payload: payload, At: b.now().UTC()}

	b.mu.Lock()
	b.history[b.head] = ev
	b.head = (b.head + 1) % len(b.history)
	if b.size < len(b.history) {
		b.size++
	}

	handlers := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.eventType == "" || s.eventType == eventType {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.Unlock()

	for _, h := range handlers {
		b.call(h, ev)
	}
}

func (b *Bus) call(h Handler, ev models.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Str("func", "Bus.Emit").Str("event", ev.Type).
				Str("panic", fmt.Sprint(r)).Msg("event handler panicked")
		}
	}()
	h(ev)
}

// History returns the retained events, oldest first.
func (b *Bus) History() []models.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Event, 0, b.size)
	start := (b.head - b.size + len(b.history)) % len(b.history)
	for i := 0; i < b.size; i++ {
		out = append(out, b.history[(start+i)%len(b.history)])
	}
	return out
}

// Clear drops the history. Subscriptions are kept.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.history)
	b.head = 0
	b.size = 0
}
