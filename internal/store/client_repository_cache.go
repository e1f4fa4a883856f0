// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/golang/snappy"
	"go.etcd.io/bbolt"
)

// cacheRecord is the on-disk form of a cache entry; Value is snappy encoded.
type cacheRecord struct {
	Value     []byte            `json:"v"`
	ExpiresAt *time.Time        `json:"exp,omitempty"`
	Metadata  map[string]string `json:"meta,omitempty"`
	UpdatedAt time.Time         `json:"upd"`
}

type cacheRepository struct {
	db     *BoltDB
	now    func() time.Time
	logger *logger.Logger
}

// NewCacheRepository returns the bbolt backed cache.
func NewCacheRepository(db *BoltDB, logger *logger.Logger) CacheRepository {
	return &cacheRepository{db: db, now: time.Now, logger: logger}
}

func (r *cacheRepository) Get(ctx context.Context, key string) (models.CacheEntry, bool, error) {
	entry, ok, err := r.GetStale(ctx, key)
	if err != nil || !ok {
		return entry, ok, err
	}
	if entry.Expired(r.now()) {
		return models.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

func (r *cacheRepository) GetStale(ctx context.Context, key string) (models.CacheEntry, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.CacheEntry{}, false, err
	}

	var (
		rec   cacheRecord
		found bool
	)
	err := r.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketCache).Get([]byte(key))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &rec)
	})
	if err != nil {
		return models.CacheEntry{}, false, fmt.Errorf("%w: %w", ErrLocalStoreRead, err)
	}
	if !found {
		return models.CacheEntry{}, false, nil
	}

	value, err := snappy.Decode(nil, rec.Value)
	if err != nil {
		r.logger.Err(err).Str("func", "cacheRepository.GetStale").Str("key", key).Msg("corrupt cache value")
		return models.CacheEntry{}, false, fmt.Errorf("%w: %w", ErrCorruptCacheEntry, err)
	}

	return models.CacheEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: rec.ExpiresAt,
		Metadata:  rec.Metadata,
		UpdatedAt: rec.UpdatedAt,
	}, true, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration, metadata map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := r.now().UTC()
	rec := cacheRecord{
		Value:     snappy.Encode(nil, value),
		Metadata:  metadata,
		UpdatedAt: now,
	}
	if ttl > 0 {
		exp := now.Add(ttl)
		rec.ExpiresAt = &exp
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	err = r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCache).Put([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStoreWrite, err)
	}
	return nil
}

func (r *cacheRepository) Invalidate(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCache).Delete([]byte(key))
	})
}

func (r *cacheRepository) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var keys [][]byte
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketCache)
		c := b.Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLocalStoreWrite, err)
	}
	return len(keys), nil
}

func (r *cacheRepository) SweepExpired(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := r.now()
	var expired [][]byte
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketCache)
		err := b.ForEach(func(k, v []byte) error {
			var rec cacheRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				// unreadable entries are swept too
				expired = append(expired, append([]byte(nil), k...))
				return nil
			}
			if rec.ExpiresAt != nil && !now.Before(*rec.ExpiresAt) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Err(err).Str("func", "cacheRepository.SweepExpired").Msg("cache sweep failed")
		return 0, fmt.Errorf("%w: %w", ErrLocalStoreWrite, err)
	}

	return len(expired), nil
}
