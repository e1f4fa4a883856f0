// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/models"
)

// PrefSyncPaused is the preference key holding the auto-sync pause flag.
const PrefSyncPaused = "sync.paused"

// SyncJob schedules automatic sync passes. It runs a pass every interval
// while auto-sync is active and as soon as the device comes back online.
type SyncJob struct {
	engine   SyncEngine
	prefs    store.PreferenceRepository
	bus      EventBus
	interval time.Duration

	paused  atomic.Bool
	trigger chan struct{}

	logger *logger.Logger
}

// NewSyncJob creates a SyncJob. The job is idle until Run is called.
// If interval is zero or negative it defaults to [config.DefaultSyncInterval].
func NewSyncJob(engine SyncEngine, prefs store.PreferenceRepository, bus EventBus, interval time.Duration, logger *logger.Logger) *SyncJob {
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}
	return &SyncJob{
		engine:   engine,
		prefs:    prefs,
		bus:      bus,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		logger:   logger,
	}
}

// Restore loads the persisted pause flag.
func (j *SyncJob) Restore(ctx context.Context) error {
	var paused bool
	found, err := j.prefs.GetPreference(ctx, PrefSyncPaused, &paused)
	if err != nil {
		return fmt.Errorf("restore auto-sync flag: %w", err)
	}
	if found {
		j.paused.Store(paused)
	}
	return nil
}

func (j *SyncJob) Name() string { return "sync" }

// Run blocks until ctx is cancelled. A pass that is already running when
// ctx is cancelled is allowed to finish.
func (j *SyncJob) Run(ctx context.Context) {
	unsubscribe := j.bus.On(models.EventNetworkOnline, func(models.Event) {
		j.Trigger()
	})
	defer unsubscribe()

	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		case <-j.trigger:
		}
		if j.paused.Load() {
			continue
		}
		j.engine.Sync(context.WithoutCancel(ctx))
	}
}

// Trigger requests a pass without blocking. Requests made while one is
// already pending are coalesced.
func (j *SyncJob) Trigger() {
	select {
	case j.trigger <- struct{}{}:
	default:
	}
}

func (j *SyncJob) Pause(ctx context.Context) error {
	j.paused.Store(true)
	j.logger.Info().Msg("auto-sync paused")
	return j.persist(ctx, true)
}

func (j *SyncJob) Resume(ctx context.Context) error {
	j.paused.Store(false)
	j.logger.Info().Msg("auto-sync resumed")
	if err := j.persist(ctx, false); err != nil {
		return err
	}
	j.Trigger()
	return nil
}

func (j *SyncJob) Paused() bool {
	return j.paused.Load()
}

func (j *SyncJob) persist(ctx context.Context, paused bool) error {
	if err := j.prefs.SetPreference(ctx, PrefSyncPaused, paused); err != nil {
		j.logger.Err(err).Str("func", "SyncJob.persist").Msg("failed to store auto-sync flag")
		return fmt.Errorf("store auto-sync flag: %w", err)
	}
	return nil
}
