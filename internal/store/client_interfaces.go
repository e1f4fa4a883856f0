// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-tool-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// QueueRepository is the durable queue of pending mutations.
type QueueRepository interface {
	// AddToQueue stores a new item and returns its generated id.
	AddToQueue(ctx context.Context, action models.Action, table string, data map[string]any, priority models.Priority) (string, error)
	// GetQueue returns all items in insertion order, optionally filtered by priority.
	GetQueue(ctx context.Context, priority *models.Priority) ([]models.QueueItem, error)
	// RemoveFromQueue deletes an item. Removing a missing id is a no-op.
	RemoveFromQueue(ctx context.Context, id string) error
	// IncrementRetries bumps the retry counter and reports whether the item
	// is still below the retry ceiling.
	IncrementRetries(ctx context.Context, id string, lastErr string) (retries int, retry bool, err error)
	Count(ctx context.Context) (int, error)
}

// DeadLetterRepository holds items removed from the queue after exhausting
// retries or being malformed.
type DeadLetterRepository interface {
	MoveToDeadLetter(ctx context.Context, id string, reason string) error
	ListDeadLetters(ctx context.Context) ([]models.DeadLetter, error)
	RequeueDeadLetter(ctx context.Context, id string) error
	PurgeDeadLetters(ctx context.Context) (int, error)
}

// CacheRepository is the expiring key/value cache.
type CacheRepository interface {
	// Get returns a live entry; expired entries are reported as misses.
	Get(ctx context.Context, key string) (models.CacheEntry, bool, error)
	// GetStale returns the entry even when it has expired.
	GetStale(ctx context.Context, key string) (models.CacheEntry, bool, error)
	// Set stores value; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, metadata map[string]string) error
	Invalidate(ctx context.Context, key string) error
	InvalidatePrefix(ctx context.Context, prefix string) (int, error)
	SweepExpired(ctx context.Context) (int, error)
}

// PreferenceRepository stores JSON encoded user preferences.
type PreferenceRepository interface {
	SetPreference(ctx context.Context, key string, value any) error
	GetPreference(ctx context.Context, key string, dst any) (bool, error)
}

// MetaRepository stores sync bookkeeping.
type MetaRepository interface {
	SetLastSync(ctx context.Context, at time.Time) error
	GetLastSync(ctx context.Context) (time.Time, bool, error)
}
