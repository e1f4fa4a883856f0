// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
)

// Repositories groups the server SQL repositories sharing one [DB].
type Repositories struct {
	Users         UserRepository
	Tables        TableRepository
	Subscriptions SubscriptionRepository

	db *DB
}

// NewRepositories connects to the configured database, applies migrations
// and wires all repositories.
func NewRepositories(ctx context.Context, cfg config.DB, log *logger.Logger) (*Repositories, error) {
	log.Info().Str("driver", cfg.Driver).Msg("creating repositories...")

	db, err := NewDB(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewRepositoriesFromDB(db, log), nil
}

// NewRepositoriesFromDB wires repositories over an already migrated db.
func NewRepositoriesFromDB(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db, log),
		Tables:        NewTableRepository(db, log),
		Subscriptions: NewSubscriptionRepository(db, log),
		db:            db,
	}
}

// Ping checks database connectivity.
func (r *Repositories) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database pool.
func (r *Repositories) Close() error {
	return r.db.Close()
}
