// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
)

// ClientStorages groups all client-side repositories. They share one bbolt
// file which Close releases.
type ClientStorages struct {
	Queue       QueueRepository
	DeadLetters DeadLetterRepository
	Cache       CacheRepository
	Preferences PreferenceRepository
	Meta        MetaRepository

	db *BoltDB
}

// NewClientStorages opens the local store at cfg.LocalPath and wires every
// repository to it. maxRetries is the queue retry ceiling.
func NewClientStorages(cfg config.ClientStorage, maxRetries int, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating local storages...")

	db, err := NewBoltDB(cfg.LocalPath, logger)
	if err != nil {
		return nil, fmt.Errorf("local store error: %w", err)
	}

	queue := NewQueueRepository(db, utils.NewUUIDGenerator(), maxRetries, logger)
	prefs := NewPreferenceRepository(db)

	return &ClientStorages{
		Queue:       queue,
		DeadLetters: queue,
		Cache:       NewCacheRepository(db, logger),
		Preferences: prefs,
		Meta:        prefs,
		db:          db,
	}, nil
}

// Close releases the local store file.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}
