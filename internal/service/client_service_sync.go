// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/adapter"
	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/internal/validators"
	"github.com/MKhiriev/go-tool-keeper/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const msgSyncInProgress = "Sync already in progress"

type syncEngine struct {
	localStore *store.ClientStorages
	adapter    adapter.ServerAdapter
	monitor    ConnectivityMonitor
	bus        EventBus
	validator  validators.Validator

	batchSize int
	limiter   *rate.Limiter

	running atomic.Bool
	status  atomic.Value // models.SyncStatus

	now    func() time.Time
	logger *logger.Logger
}

// NewSyncEngine wires the sync engine. cfg.SyncBatchSize defaults to 10;
// cfg.DrainRate (calls per second) of zero disables pacing.
func NewSyncEngine(
	localStore *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	monitor ConnectivityMonitor,
	bus EventBus,
	validator validators.Validator,
	cfg config.ClientWorkers,
	logger *logger.Logger,
) SyncEngine {
	batchSize := cfg.SyncBatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultSyncBatchSize
	}

	limit := rate.Inf
	burst := 1
	if cfg.DrainRate > 0 {
		limit = rate.Limit(cfg.DrainRate)
		burst = int(math.Max(1, math.Ceil(cfg.DrainRate)))
	}

	e := &syncEngine{
		localStore: localStore,
		adapter:    serverAdapter,
		monitor:    monitor,
		bus:        bus,
		validator:  validator,
		batchSize:  batchSize,
		limiter:    rate.NewLimiter(limit, burst),
		now:        time.Now,
		logger:     logger,
	}
	e.status.Store(models.SyncStatusIdle)
	return e
}

func (e *syncEngine) Status() models.SyncStatus {
	return e.status.Load().(models.SyncStatus)
}

func (e *syncEngine) LastSync(ctx context.Context) (time.Time, bool) {
	at, ok, err := e.localStore.Meta.GetLastSync(ctx)
	if err != nil {
		e.logger.Err(err).Str("func", "syncEngine.LastSync").Msg("failed to read last sync")
		return time.Time{}, false
	}
	return at, ok
}

func (e *syncEngine) ForceSync(ctx context.Context) models.SyncResult {
	e.logger.Info().Msg("forced sync requested")
	return e.Sync(ctx)
}

func (e *syncEngine) Sync(ctx context.Context) models.SyncResult {
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Debug().Msg("sync skipped: pass in flight")
		return models.SyncResult{
			Success: false,
			Message: msgSyncInProgress,
			Skipped: true,
			Status:  e.Status(),
			At:      e.now().UTC(),
		}
	}
	defer e.running.Store(false)

	result := e.pass(ctx)
	result.At = e.now().UTC()

	e.setStatus(result.Status)
	e.bus.Emit(models.EventSyncComplete, result)

	e.logger.Info().
		Str("status", string(result.Status)).
		Int("synced", result.Synced).
		Int("failed", result.Failed).
		Int("dead_lettered", result.DeadLettered).
		Msg("sync pass finished")

	return result
}

func (e *syncEngine) pass(ctx context.Context) models.SyncResult {
	if !e.monitor.IsOnline() {
		return models.SyncResult{Message: models.MsgDeviceOffline, Status: models.SyncStatusOffline}
	}

	e.setStatus(models.SyncStatusSyncing)

	items, err := e.localStore.Queue.GetQueue(ctx, nil)
	if err != nil {
		e.logger.Err(err).Str("func", "syncEngine.pass").Msg("failed to read queue")
		return models.SyncResult{Message: fmt.Sprintf("failed to read queue: %v", err), Status: models.SyncStatusError}
	}

	var counters passCounters
	for _, batch := range planBatches(items, e.batchSize) {
		if err = e.runBatch(ctx, batch, &counters); err != nil {
			e.logger.Err(err).Str("func", "syncEngine.pass").Msg("sync pass aborted")
			result := counters.result()
			result.Success = false
			result.Status = models.SyncStatusError
			result.Message = fmt.Sprintf("sync aborted: %v", err)
			return result
		}
	}

	if err = e.localStore.Meta.SetLastSync(ctx, e.now()); err != nil {
		e.logger.Err(err).Str("func", "syncEngine.pass").Msg("failed to store last sync")
	}

	return counters.result()
}

// runBatch applies the batch items concurrently. Remote failures are
// counted per item; only local store failures abort the pass.
func (e *syncEngine) runBatch(ctx context.Context, batch []models.QueueItem, counters *passCounters) error {
	var g errgroup.Group
	for _, item := range batch {
		g.Go(func() error {
			return e.processItem(ctx, item, counters)
		})
	}
	return g.Wait()
}

func (e *syncEngine) processItem(ctx context.Context, item models.QueueItem, counters *passCounters) error {
	log := e.logger.With().Str("item", item.ID).Str("table", item.Table).Str("action", string(item.Action)).Logger()

	if err := e.validator.Validate(ctx, item, validators.FieldAction, validators.FieldTable, validators.FieldID); err != nil {
		log.Warn().Err(err).Msg("malformed queue item")
		counters.fail()
		return e.deadLetter(ctx, item, err.Error(), counters)
	}

	err := e.limiter.Wait(ctx)
	if err == nil {
		err = e.apply(ctx, item)
	}
	if err == nil {
		if err = e.localStore.Queue.RemoveFromQueue(ctx, item.ID); err != nil {
			return fmt.Errorf("remove synced item %s: %w", item.ID, err)
		}
		counters.succeed()
		return nil
	}

	counters.fail()
	log.Warn().Err(err).Msg("queue item failed")

	retries, retry, incErr := e.localStore.Queue.IncrementRetries(ctx, item.ID, err.Error())
	if errors.Is(incErr, store.ErrQueueItemNotFound) {
		return nil
	}
	if incErr != nil {
		return fmt.Errorf("increment retries of %s: %w", item.ID, incErr)
	}
	if !retry {
		return e.deadLetter(ctx, item, fmt.Sprintf("max retries reached (%d): %v", retries, err), counters)
	}
	return nil
}

func (e *syncEngine) apply(ctx context.Context, item models.QueueItem) error {
	switch item.Action {
	case models.ActionCreate:
		_, err := e.adapter.Insert(ctx, item.Table, item.Data)
		return err
	case models.ActionUpdate:
		id, _ := item.RecordID()
		_, err := e.adapter.Update(ctx, item.Table, id, item.Data)
		return err
	case models.ActionDelete:
		id, _ := item.RecordID()
		err := e.adapter.Delete(ctx, item.Table, id)
		if errors.Is(err, adapter.ErrNotFound) {
			// already gone remotely
			return nil
		}
		return err
	}
	return fmt.Errorf("%w: %q", validators.ErrInvalidAction, item.Action)
}

func (e *syncEngine) deadLetter(ctx context.Context, item models.QueueItem, reason string, counters *passCounters) error {
	if err := e.localStore.DeadLetters.MoveToDeadLetter(ctx, item.ID, reason); err != nil {
		if errors.Is(err, store.ErrQueueItemNotFound) {
			return nil
		}
		return fmt.Errorf("dead-letter %s: %w", item.ID, err)
	}
	counters.addDeadLettered()
	e.bus.Emit(models.EventDeadLetter, models.DeadLetter{QueueItem: item, Reason: reason, FailedAt: e.now().UTC()})
	return nil
}

func (e *syncEngine) setStatus(status models.SyncStatus) {
	if old := e.status.Swap(status); old == status {
		return
	}
	e.bus.Emit(models.EventSyncStatus, status)
}

type passCounters struct {
	mu           sync.Mutex
	synced       int
	failed       int
	deadLettered int
}

func (c *passCounters) succeed() {
	c.mu.Lock()
	c.synced++
	c.mu.Unlock()
}

func (c *passCounters) fail() {
	c.mu.Lock()
	c.failed++
	c.mu.Unlock()
}

func (c *passCounters) addDeadLettered() {
	c.mu.Lock()
	c.deadLettered++
	c.mu.Unlock()
}

// result folds the counters into the aggregate status: success without
// failures, partial with at least one success, error otherwise.
func (c *passCounters) result() models.SyncResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := models.SyncResult{Synced: c.synced, Failed: c.failed, DeadLettered: c.deadLettered}
	switch {
	case c.failed == 0:
		res.Success = true
		res.Status = models.SyncStatusSuccess
		res.Message = fmt.Sprintf("Synced %d items", c.synced)
	case c.synced > 0:
		res.Status = models.SyncStatusPartial
		res.Message = fmt.Sprintf("Synced %d items, %d failed", c.synced, c.failed)
	default:
		res.Status = models.SyncStatusError
		res.Message = fmt.Sprintf("All %d items failed", c.failed)
	}
	return res
}
