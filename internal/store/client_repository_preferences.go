// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const metaLastSyncKey = "last_sync_timestamp"

type preferenceRepository struct {
	db *BoltDB
}

// NewPreferenceRepository returns the bbolt backed preference and sync
// metadata store.
func NewPreferenceRepository(db *BoltDB) interface {
	PreferenceRepository
	MetaRepository
} {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) SetPreference(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode preference %s: %w", key, err)
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPreferences).Put([]byte(key), raw)
	})
}

func (r *preferenceRepository) GetPreference(ctx context.Context, key string, dst any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var raw []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketPreferences).Get([]byte(key)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode preference %s: %w", key, err)
	}
	return true, nil
}

func (r *preferenceRepository) SetLastSync(ctx context.Context, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := at.UTC().MarshalText()
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put([]byte(metaLastSyncKey), raw)
	})
}

func (r *preferenceRepository) GetLastSync(ctx context.Context) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}

	var at time.Time
	var found bool
	err := r.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketMeta).Get([]byte(metaLastSyncKey))
		if v == nil {
			return nil
		}
		found = true
		return at.UnmarshalText(v)
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %w", ErrLocalStoreRead, err)
	}
	return at, found, nil
}
