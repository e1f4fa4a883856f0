package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func newTestBolt(t *testing.T) *BoltDB {
	t.Helper()
	db, err := NewBoltDB(filepath.Join(t.TempDir(), "client.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestQueue(t *testing.T, maxRetries int) *queueRepository {
	t.Helper()
	return NewQueueRepository(newTestBolt(t), utils.NewUUIDGenerator(), maxRetries, logger.Nop()).(*queueRepository)
}

func ids(items []models.QueueItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

// ── AddToQueue / GetQueue ─────────────────────────────────────────────────────

func TestQueue_AddAndGetInInsertionOrder(t *testing.T) {
	q := newTestQueue(t, 5)
	ctx := context.Background()

	id1, err := q.AddToQueue(ctx, models.ActionCreate, "tools", map[string]any{"name": "drill"}, models.PriorityLow)
	require.NoError(t, err)
	id2, err := q.AddToQueue(ctx, models.ActionUpdate, "tools", map[string]any{"id": "t1"}, models.PriorityHigh)
	require.NoError(t, err)
	id3, err := q.AddToQueue(ctx, models.ActionDelete, "epi_items", map[string]any{"id": "e1"}, models.PriorityLow)
	require.NoError(t, err)

	items, err := q.GetQueue(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{id1, id2, id3}, ids(items))

	first := items[0]
	assert.Equal(t, models.ActionCreate, first.Action)
	assert.Equal(t, "tools", first.Table)
	assert.Equal(t, "drill", first.Data["name"])
	assert.Equal(t, models.PriorityLow, first.Priority)
	assert.Zero(t, first.Retries)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Less(t, items[0].Seq, items[1].Seq)
}

func TestQueue_FilterByPriority(t *testing.T) {
	q := newTestQueue(t, 5)
	ctx := context.Background()

	_, err := q.AddToQueue(ctx, models.ActionCreate, "tools", nil, models.PriorityLow)
	require.NoError(t, err)
	high, err := q.AddToQueue(ctx, models.ActionCreate, "tools", nil, models.PriorityHigh)
	require.NoError(t, err)

	p := models.PriorityHigh
	items, err := q.GetQueue(ctx, &p)
	require.NoError(t, err)
	assert.Equal(t, []string{high}, ids(items))
}

func TestQueue_DefaultPriorityIsMedium(t *testing.T) {
	q := newTestQueue(t, 5)
	ctx := context.Background()

	_, err := q.AddToQueue(ctx, models.ActionCreate, "tools", nil, "")
	require.NoError(t, err)

	items, err := q.GetQueue(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.PriorityMedium, items[0].Priority)
}

func TestQueue_RejectsInvalidItem(t *testing.T) {
	q := newTestQueue(t, 5)
	ctx := context.Background()

	_, err := q.AddToQueue(ctx, "upsert", "tools", nil, models.PriorityLow)
	assert.ErrorIs(t, err, ErrInvalidQueueItem)

	_, err = q.AddToQueue(ctx, models.ActionCreate, "", nil, models.PriorityLow)
	assert.ErrorIs(t, err, ErrInvalidQueueItem)
}

func TestQueue_EmptyQueue(t *testing.T) {
	q := newTestQueue(t, 5)

	items, err := q.GetQueue(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	n, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueue_CanceledContext(t *testing.T) {
	q := newTestQueue(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.AddToQueue(ctx, models.ActionCreate, "tools", nil, models.PriorityLow)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_ConcurrentAddsGetUniqueIDs(t *testing.T) {
	q := newTestQueue(t, 5)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := q.AddToQueue(ctx, models.ActionCreate, "tools", map[string]any{"n": i}, models.PriorityMedium)
			assert.NoError(t, err)
			results <- id
		}(i)
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for id := range results {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	count, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}

// ── RemoveFromQueue ───────────────────────────────────────────────────────────

func TestQueue_RemoveIsIdempotent(t *testing.T) {
	q := newTestQueue(t, 5)
	ctx := context.Background()

	id, err := q.AddToQueue(ctx, models.ActionCreate, "tools", nil, models.PriorityLow)
	require.NoError(t, err)

	require.NoError(t, q.RemoveFromQueue(ctx, id))
	require.NoError(t, q.RemoveFromQueue(ctx, id))
	require.NoError(t, q.RemoveFromQueue(ctx, "never-existed"))

	items, err := q.GetQueue(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

// ── IncrementRetries ──────────────────────────────────────────────────────────

func TestQueue_IncrementRetriesUpToCeiling(t *testing.T) {
	q := newTestQueue(t, 3)
	ctx := context.Background()

	id, err := q.AddToQueue(ctx, models.ActionCreate, "tools", nil, models.PriorityLow)
	require.NoError(t, err)

	for want := 1; want <= 3; want++ {
		retries, retry, err := q.IncrementRetries(ctx, id, fmt.Sprintf("boom %d", want))
		require.NoError(t, err)
		assert.Equal(t, want, retries)
		assert.Equal(t, want < 3, retry)
	}

	items, err := q.GetQueue(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Retries)
	assert.Equal(t, "boom 3", items[0].LastError)
}

func TestQueue_IncrementRetriesWithoutCeiling(t *testing.T) {
	q := newTestQueue(t, 0)
	ctx := context.Background()

	id, err := q.AddToQueue(ctx, models.ActionCreate, "tools", nil, models.PriorityLow)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, retry, err := q.IncrementRetries(ctx, id, "x")
		require.NoError(t, err)
		assert.True(t, retry)
	}
}

func TestQueue_IncrementRetriesMissingItem(t *testing.T) {
	q := newTestQueue(t, 3)

	_, _, err := q.IncrementRetries(context.Background(), "ghost", "x")
	assert.ErrorIs(t, err, ErrQueueItemNotFound)
}

// ── dead letters ──────────────────────────────────────────────────────────────

func TestQueue_DeadLetterLifecycle(t *testing.T) {
	q := newTestQueue(t, 3)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	q.now = func() time.Time { return fixed }
	ctx := context.Background()

	keep, err := q.AddToQueue(ctx, models.ActionCreate, "tools", nil, models.PriorityLow)
	require.NoError(t, err)
	bad, err := q.AddToQueue(ctx, models.ActionUpdate, "tools", map[string]any{"name": "no id"}, models.PriorityHigh)
	require.NoError(t, err)

	require.NoError(t, q.MoveToDeadLetter(ctx, bad, "missing id"))

	items, err := q.GetQueue(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, ids(items))

	letters, err := q.ListDeadLetters(ctx)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, bad, letters[0].ID)
	assert.Equal(t, "missing id", letters[0].Reason)
	assert.Equal(t, fixed, letters[0].FailedAt)

	require.NoError(t, q.RequeueDeadLetter(ctx, bad))

	items, err = q.GetQueue(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{keep, bad}, ids(items))
	assert.Zero(t, items[1].Retries)

	letters, err = q.ListDeadLetters(ctx)
	require.NoError(t, err)
	assert.Empty(t, letters)
}

func TestQueue_LargeIntegerIDSurvivesRoundTrip(t *testing.T) {
	q := newTestQueue(t, 5)
	ctx := context.Background()
	const bigID = int64(9007199254740993) // 2^53 + 1

	id, err := q.AddToQueue(ctx, models.ActionUpdate, "tools", map[string]any{"id": bigID, "qty": 3}, models.PriorityMedium)
	require.NoError(t, err)

	items, err := q.GetQueue(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	recordID, ok := items[0].RecordID()
	require.True(t, ok)
	assert.Equal(t, "9007199254740993", recordID)
	assert.Equal(t, json.Number("9007199254740993"), items[0].Data["id"])
	assert.Equal(t, json.Number("3"), items[0].Data["qty"])

	require.NoError(t, q.MoveToDeadLetter(ctx, id, "rejected"))
	letters, err := q.ListDeadLetters(ctx)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	recordID, _ = letters[0].RecordID()
	assert.Equal(t, "9007199254740993", recordID)

	require.NoError(t, q.RequeueDeadLetter(ctx, id))
	items, err = q.GetQueue(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	recordID, _ = items[0].RecordID()
	assert.Equal(t, "9007199254740993", recordID)
}

func TestQueue_MoveMissingToDeadLetter(t *testing.T) {
	q := newTestQueue(t, 3)
	err := q.MoveToDeadLetter(context.Background(), "ghost", "x")
	assert.ErrorIs(t, err, ErrQueueItemNotFound)
}

func TestQueue_RequeueMissingDeadLetter(t *testing.T) {
	q := newTestQueue(t, 3)
	err := q.RequeueDeadLetter(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrDeadLetterNotFound)
}

func TestQueue_PurgeDeadLetters(t *testing.T) {
	q := newTestQueue(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := q.AddToQueue(ctx, models.ActionDelete, "tools", nil, models.PriorityLow)
		require.NoError(t, err)
		require.NoError(t, q.MoveToDeadLetter(ctx, id, "x"))
	}

	n, err := q.PurgeDeadLetters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	letters, err := q.ListDeadLetters(ctx)
	require.NoError(t, err)
	assert.Empty(t, letters)
}

// ── durability ────────────────────────────────────────────────────────────────

func TestQueue_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.db")
	ctx := context.Background()

	db, err := NewBoltDB(path, logger.Nop())
	require.NoError(t, err)
	q := NewQueueRepository(db, utils.NewUUIDGenerator(), 5, logger.Nop())
	id, err := q.AddToQueue(ctx, models.ActionCreate, "tools", map[string]any{"name": "saw"}, models.PriorityHigh)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewBoltDB(path, logger.Nop())
	require.NoError(t, err)
	defer db.Close()
	q = NewQueueRepository(db, utils.NewUUIDGenerator(), 5, logger.Nop())

	items, err := q.GetQueue(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "saw", items[0].Data["name"])

	// new items still sort after the surviving one
	id2, err := q.AddToQueue(ctx, models.ActionCreate, "tools", nil, models.PriorityHigh)
	require.NoError(t, err)
	items, err = q.GetQueue(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{id, id2}, ids(items))
}
