package store

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(t *testing.T) (*cacheRepository, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewCacheRepository(newTestBolt(t), logger.Nop()).(*cacheRepository)
	repo.now = clock.now
	return repo, clock
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("value"), time.Minute, map[string]string{"src": "remote"}))

	entry, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("value"), entry.Value)
	assert.Equal(t, "remote", entry.Metadata["src"])
	require.NotNil(t, entry.ExpiresAt)
}

func TestCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_ExpiredIsMissButStaleAvailable(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute, nil))
	clock.advance(time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	entry, ok, err := c.GetStale(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), entry.Value)
}

func TestCache_NoTTLNeverExpires(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0, nil))
	clock.advance(1000 * time.Hour)

	entry, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, entry.ExpiresAt)
}

func TestCache_ValueIsCompressedOnDisk(t *testing.T) {
	c, _ := newTestCache(t)
	plain := bytes.Repeat([]byte("hammer "), 200)
	require.NoError(t, c.Set(context.Background(), "k", plain, 0, nil))

	var raw []byte
	require.NoError(t, c.db.View(func(tx *bbolt.Tx) error {
		raw = append([]byte(nil), tx.Bucket(bucketCache).Get([]byte("k"))...)
		return nil
	}))
	assert.Less(t, len(raw), len(plain))
	assert.False(t, bytes.Contains(raw, plain))
}

func TestCache_InvalidateAndPrefix(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	for _, k := range []string{"table:tools:a", "table:tools:b", "table:tooling:c", "table:epi_items:a"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0, nil))
	}

	n, err := c.InvalidatePrefix(ctx, "table:tools:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, ok, _ := c.Get(ctx, "table:tooling:c")
	assert.True(t, ok)

	require.NoError(t, c.Invalidate(ctx, "table:epi_items:a"))
	_, ok, _ = c.Get(ctx, "table:epi_items:a")
	assert.False(t, ok)

	require.NoError(t, c.Invalidate(ctx, "absent"))
}

func TestCache_SweepExpired(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("1"), time.Second, nil))
	require.NoError(t, c.Set(ctx, "long", []byte("2"), time.Hour, nil))
	require.NoError(t, c.Set(ctx, "forever", []byte("3"), 0, nil))
	clock.advance(time.Minute)

	n, err := c.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok, _ := c.GetStale(ctx, "short")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "long")
	assert.True(t, ok)
	_, ok, _ = c.Get(ctx, "forever")
	assert.True(t, ok)
}
