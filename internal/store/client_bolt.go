// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"go.etcd.io/bbolt"
)

// Bucket names of the client local store. Each bucket is one record group.
var (
	bucketCache       = []byte("cache")
	bucketQueue       = []byte("queue")
	bucketQueueIndex  = []byte("queue_index")
	bucketPreferences = []byte("preferences")
	bucketDeadLetter  = []byte("dead_letter")
	bucketMeta        = []byte("meta")
)

var clientBuckets = [][]byte{
	bucketCache,
	bucketQueue,
	bucketQueueIndex,
	bucketPreferences,
	bucketDeadLetter,
	bucketMeta,
}

// BoltDB is the client local store: a single bbolt file holding the cache,
// the pending mutation queue, preferences, dead letters and sync metadata.
type BoltDB struct {
	*bbolt.DB
	logger *logger.Logger
}

// NewBoltDB opens (creating if needed) the bbolt file at path and ensures all
// buckets exist.
func NewBoltDB(path string, logger *logger.Logger) (*BoltDB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create local store dir: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		logger.Err(err).Str("func", "store.NewBoltDB").Str("path", path).Msg("failed to open local store")
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range clientBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("local store opened")
	return &BoltDB{DB: db, logger: logger}, nil
}

// Close closes the underlying bbolt file.
func (b *BoltDB) Close() error {
	if b == nil || b.DB == nil {
		return nil
	}
	return b.DB.Close()
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func countKeys(b *bbolt.Bucket) int {
	n := 0
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}
