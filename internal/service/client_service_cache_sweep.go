// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/internal/workers"
	"github.com/MKhiriev/go-tool-keeper/models"
)

// CacheSweepJob periodically deletes expired cache entries.
type CacheSweepJob struct {
	cache    store.CacheRepository
	bus      EventBus
	interval time.Duration
	logger   *logger.Logger
}

func NewCacheSweepJob(cache store.CacheRepository, bus EventBus, interval time.Duration, logger *logger.Logger) *CacheSweepJob {
	if interval <= 0 {
		interval = config.DefaultCacheSweepInterval
	}
	return &CacheSweepJob{cache: cache, bus: bus, interval: interval, logger: logger}
}

func (j *CacheSweepJob) Name() string { return "cache-sweep" }

func (j *CacheSweepJob) Run(ctx context.Context) {
	workers.Every(ctx, j.interval, j.Sweep)
}

// Sweep runs one pass and emits cache:swept with the number of removed
// entries when there were any.
func (j *CacheSweepJob) Sweep(ctx context.Context) {
	n, err := j.cache.SweepExpired(ctx)
	if err != nil {
		j.logger.Err(err).Str("func", "CacheSweepJob.Sweep").Msg("cache sweep failed")
		return
	}
	if n == 0 {
		return
	}

	j.logger.Debug().Int("entries", n).Msg("expired cache entries removed")
	j.bus.Emit(models.EventCacheSwept, n)
}
