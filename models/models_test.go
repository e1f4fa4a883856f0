package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordIDOf(t *testing.T) {
	tests := []struct {
		name   string
		data   map[string]any
		want   string
		wantOK bool
	}{
		{"string", map[string]any{"id": "t-1"}, "t-1", true},
		{"float", map[string]any{"id": float64(42)}, "42", true},
		{"json number", map[string]any{"id": json.Number("9007199254740993")}, "9007199254740993", true},
		{"int", map[string]any{"id": 7}, "7", true},
		{"int64", map[string]any{"id": int64(9)}, "9", true},
		{"missing", map[string]any{"name": "drill"}, "", false},
		{"nil", map[string]any{"id": nil}, "", false},
		{"empty", map[string]any{"id": ""}, "", false},
		{"unsupported", map[string]any{"id": []string{"x"}}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RecordIDOf(tt.data)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestIsKnownTable(t *testing.T) {
	for _, table := range KnownTables {
		assert.True(t, IsKnownTable(table), table)
	}
	assert.False(t, IsKnownTable("users"))
	assert.False(t, IsKnownTable(""))
}

func TestSelectRequest_CacheKey(t *testing.T) {
	since := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("BRT", -3*3600))
	req := SelectRequest{Table: TableTools, ID: "t-1", Since: &since, Limit: 10, Offset: 20}

	key := req.CacheKey()

	assert.Equal(t, "table:tools:id=t-1&since=2026-01-02T06:04:05Z&limit=10&offset=20", key)
	assert.Contains(t, key, TableCachePrefix(TableTools))
	assert.NotEqual(t, key, SelectRequest{Table: TableTools}.CacheKey())
}

func TestAction(t *testing.T) {
	assert.True(t, ActionCreate.Valid())
	assert.False(t, Action("upsert").Valid())
	assert.False(t, ActionCreate.RequiresID())
	assert.True(t, ActionUpdate.RequiresID())
	assert.True(t, ActionDelete.RequiresID())
}

func TestPriority(t *testing.T) {
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())

	p, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)

	p, err = ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestCacheEntry_Expired(t *testing.T) {
	now := time.Now()
	past, future := now.Add(-time.Second), now.Add(time.Second)

	assert.False(t, CacheEntry{}.Expired(now), "entries without expiry never expire")
	assert.True(t, CacheEntry{ExpiresAt: &past}.Expired(now))
	assert.True(t, CacheEntry{ExpiresAt: &now}.Expired(now))
	assert.False(t, CacheEntry{ExpiresAt: &future}.Expired(now))
}

func TestSubscriptionStatusFor(t *testing.T) {
	assert.Equal(t, SubscriptionActive, SubscriptionStatusFor(PaymentApproved))
	assert.Equal(t, SubscriptionCancelled, SubscriptionStatusFor(PaymentRejected))
	assert.Equal(t, SubscriptionCancelled, SubscriptionStatusFor(PaymentCancelled))
	assert.Equal(t, SubscriptionPending, SubscriptionStatusFor("in_process"))
}

func TestAppBuildInfo(t *testing.T) {
	info := NewAppBuildInfo("1.0.0", "", "abc")

	assert.Equal(t, "version 1.0.0 (N/A, commit abc)", info.String())
	assert.Equal(t, "N/A", AppBuildInfo{}.BuildVersion())

	raw, err := json.Marshal(info)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.0","date":"N/A","commit":"abc"}`, string(raw))
}
