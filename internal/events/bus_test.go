package events

import (
	"fmt"
	"sync"
	"testing"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_HandlersRunInRegistrationOrder(t *testing.T) {
	bus := NewBus(0, logger.Nop())

	var calls []string
	bus.On("a", func(models.Event) { calls = append(calls, "first") })
	bus.OnAny(func(models.Event) { calls = append(calls, "any") })
	bus.On("a", func(models.Event) { calls = append(calls, "second") })
	bus.On("b", func(models.Event) { calls = append(calls, "other") })

	bus.Emit("a", 1)

	assert.Equal(t, []string{"first", "any", "second"}, calls)
}

func TestBus_PayloadDelivered(t *testing.T) {
	bus := NewBus(0, logger.Nop())

	var got models.Event
	bus.On(models.EventSyncComplete, func(ev models.Event) { got = ev })
	bus.Emit(models.EventSyncComplete, models.SyncResult{Synced: 3})

	assert.Equal(t, models.EventSyncComplete, got.Type)
	assert.Equal(t, 3, got.Payload.(models.SyncResult).Synced)
	assert.False(t, got.At.IsZero())
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus(0, logger.Nop())

	n := 0
	unsub := bus.On("a", func(models.Event) { n++ })
	other := bus.On("a", func(models.Event) { n += 10 })

	bus.Emit("a", nil)
	unsub()
	unsub()
	bus.Emit("a", nil)
	other()
	bus.Emit("a", nil)

	assert.Equal(t, 21, n)
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus(0, logger.Nop())

	reached := false
	bus.On("a", func(models.Event) { panic("boom") })
	bus.On("a", func(models.Event) { reached = true })

	require.NotPanics(t, func() { bus.Emit("a", nil) })
	assert.True(t, reached)
}

func TestBus_HandlerMayUnsubscribeDuringEmit(t *testing.T) {
	bus := NewBus(0, logger.Nop())

	var unsub func()
	n := 0
	unsub = bus.On("a", func(models.Event) {
		n++
		unsub()
	})

	bus.Emit("a", nil)
	bus.Emit("a", nil)
	assert.Equal(t, 1, n)
}

func TestBus_HistoryRingEvictsOldest(t *testing.T) {
	bus := NewBus(3, logger.Nop())

	for i := 0; i < 5; i++ {
		bus.Emit(fmt.Sprintf("e%d", i), i)
	}

	hist := bus.History()
	require.Len(t, hist, 3)
	assert.Equal(t, "e2", hist[0].Type)
	assert.Equal(t, "e3", hist[1].Type)
	assert.Equal(t, "e4", hist[2].Type)
}

func TestBus_HistoryBeforeFull(t *testing.T) {
	bus := NewBus(0, logger.Nop())
	assert.Empty(t, bus.History())

	bus.Emit("x", nil)
	bus.Emit("y", nil)
	hist := bus.History()
	require.Len(t, hist, 2)
	assert.Equal(t, "x", hist[0].Type)
}

func TestBus_ClearKeepsSubscribers(t *testing.T) {
	bus := NewBus(0, logger.Nop())

	n := 0
	bus.On("a", func(models.Event) { n++ })
	bus.Emit("a", nil)
	bus.Clear()

	assert.Empty(t, bus.History())
	bus.Emit("a", nil)
	assert.Equal(t, 2, n)
	assert.Len(t, bus.History(), 1)
}

func TestBus_ConcurrentUse(t *testing.T) {
	bus := NewBus(10, logger.Nop())

	var mu sync.Mutex
	count := 0
	bus.OnAny(func(models.Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := bus.On("tmp", func(models.Event) {})
			bus.Emit("tmp", nil)
			_ = bus.History()
			unsub()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, count)
	assert.Len(t, bus.History(), 10)
}
