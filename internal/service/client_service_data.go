// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/adapter"
	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/internal/validators"
	"github.com/MKhiriev/go-tool-keeper/models"
)

// Cache entry metadata keys.
const (
	cacheMetaTable = "table"
	cacheMetaCount = "count"
)

type dataService struct {
	localStore *store.ClientStorages
	adapter    adapter.ServerAdapter
	monitor    ConnectivityMonitor
	bus        EventBus
	validator  validators.Validator
	cacheTTL   time.Duration
	logger     *logger.Logger
}

// NewDataService creates the offline-first table access. cacheTTL of zero
// or less defaults to [config.DefaultCacheTTL].
func NewDataService(
	localStore *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	monitor ConnectivityMonitor,
	bus EventBus,
	validator validators.Validator,
	cacheTTL time.Duration,
	logger *logger.Logger,
) DataService {
	if cacheTTL <= 0 {
		cacheTTL = config.DefaultCacheTTL
	}
	return &dataService{
		localStore: localStore,
		adapter:    serverAdapter,
		monitor:    monitor,
		bus:        bus,
		validator:  validator,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

func (d *dataService) Create(ctx context.Context, table string, data models.Record, priority models.Priority) (models.MutationResult, error) {
	return d.mutate(ctx, models.ActionCreate, table, data, priority, func(ctx context.Context) (models.Record, error) {
		return d.adapter.Insert(ctx, table, data)
	})
}

func (d *dataService) Update(ctx context.Context, table string, data models.Record, priority models.Priority) (models.MutationResult, error) {
	return d.mutate(ctx, models.ActionUpdate, table, data, priority, func(ctx context.Context) (models.Record, error) {
		return d.adapter.Update(ctx, table, data.ID(), data)
	})
}

func (d *dataService) Delete(ctx context.Context, table, id string, priority models.Priority) (models.MutationResult, error) {
	data := models.Record{models.RecordIDKey: id}
	return d.mutate(ctx, models.ActionDelete, table, data, priority, func(ctx context.Context) (models.Record, error) {
		return data, d.adapter.Delete(ctx, table, id)
	})
}

func (d *dataService) Defer(ctx context.Context, action models.Action, table string, data models.Record, priority models.Priority) (string, error) {
	if err := d.validateMutation(ctx, action, table, data, priority); err != nil {
		return "", err
	}
	return d.enqueue(ctx, action, table, data, priority)
}

// mutate applies the mutation remotely when online and queues it when the
// device is offline or the server could not take it right now. Errors the
// server rejected for good are returned to the caller.
func (d *dataService) mutate(
	ctx context.Context,
	action models.Action,
	table string,
	data models.Record,
	priority models.Priority,
	remote func(ctx context.Context) (models.Record, error),
) (models.MutationResult, error) {
	if err := d.validateMutation(ctx, action, table, data, priority); err != nil {
		return models.MutationResult{}, err
	}

	if d.monitor.IsOnline() {
		record, err := remote(ctx)
		if err == nil {
			d.invalidate(ctx, table)
			return models.MutationResult{Record: record}, nil
		}
		if !adapter.IsRetryable(err) {
			return models.MutationResult{}, mapAdapterError(err)
		}
		if errors.Is(err, adapter.ErrUnavailable) {
			d.monitor.SetOnline(false)
		}
		d.logger.Warn().Err(err).Str("table", table).Str("action", string(action)).Msg("remote call failed, queueing mutation")
	}

	id, err := d.enqueue(ctx, action, table, data, priority)
	if err != nil {
		return models.MutationResult{}, err
	}
	return models.MutationResult{Queued: true, QueueID: id}, nil
}

func (d *dataService) validateMutation(ctx context.Context, action models.Action, table string, data models.Record, priority models.Priority) error {
	item := models.QueueItem{Action: action, Table: table, Data: data, Priority: priority}
	err := d.validator.Validate(ctx, item,
		validators.FieldAction, validators.FieldTable, validators.FieldID, validators.FieldData, validators.FieldPriority)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return nil
}

func (d *dataService) enqueue(ctx context.Context, action models.Action, table string, data models.Record, priority models.Priority) (string, error) {
	id, err := d.localStore.Queue.AddToQueue(ctx, action, table, data, priority)
	if err != nil {
		return "", fmt.Errorf("queue %s on %s: %w", action, table, err)
	}

	d.bus.Emit(models.EventQueueAdded, models.QueueItem{
		ID:       id,
		Action:   action,
		Table:    table,
		Data:     data,
		Priority: priority,
	})
	return id, nil
}

func (d *dataService) Select(ctx context.Context, req models.SelectRequest) (models.SelectResult, error) {
	if err := d.validator.Validate(ctx, req); err != nil {
		return models.SelectResult{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	key := req.CacheKey()
	if records, ok := d.cached(ctx, key, false); ok {
		return models.SelectResult{Records: records, FromCache: true}, nil
	}

	if !d.monitor.IsOnline() {
		return d.staleFallback(ctx, key, ErrNoCachedData)
	}

	records, err := d.adapter.Select(ctx, req)
	if err != nil {
		if !adapter.IsRetryable(err) {
			return models.SelectResult{}, mapAdapterError(err)
		}
		if errors.Is(err, adapter.ErrUnavailable) {
			d.monitor.SetOnline(false)
		}
		return d.staleFallback(ctx, key, fmt.Errorf("%w: %w", ErrNoCachedData, err))
	}

	d.store(ctx, key, req.Table, records)
	return models.SelectResult{Records: records}, nil
}

func (d *dataService) InvalidateTable(ctx context.Context, table string) error {
	n, err := d.localStore.Cache.InvalidatePrefix(ctx, models.TableCachePrefix(table))
	if err != nil {
		return fmt.Errorf("invalidate %s cache: %w", table, err)
	}
	d.logger.Debug().Str("table", table).Int("entries", n).Msg("table cache invalidated")
	return nil
}

// WatchChanges invalidates a table's cached reads whenever a realtime
// change for that table arrives on the bus.
func (d *dataService) WatchChanges(ctx context.Context) (unsubscribe func()) {
	return d.bus.On(models.EventRealtimeChange, func(e models.Event) {
		change, ok := e.Payload.(models.ChangeEvent)
		if !ok {
			return
		}
		d.invalidate(ctx, change.Table)
	})
}

func (d *dataService) staleFallback(ctx context.Context, key string, missErr error) (models.SelectResult, error) {
	records, ok := d.cached(ctx, key, true)
	if !ok {
		return models.SelectResult{}, missErr
	}
	return models.SelectResult{Records: records, FromCache: true, Stale: true}, nil
}

func (d *dataService) cached(ctx context.Context, key string, stale bool) ([]models.Record, bool) {
	get := d.localStore.Cache.Get
	if stale {
		get = d.localStore.Cache.GetStale
	}

	entry, ok, err := get(ctx, key)
	if err != nil {
		d.logger.Err(err).Str("func", "dataService.cached").Str("key", key).Msg("cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var records []models.Record
	dec := json.NewDecoder(bytes.NewReader(entry.Value))
	dec.UseNumber()
	if err = dec.Decode(&records); err != nil {
		d.logger.Err(err).Str("func", "dataService.cached").Str("key", key).Msg("corrupt cached records")
		return nil, false
	}
	return records, true
}

func (d *dataService) store(ctx context.Context, key, table string, records []models.Record) {
	raw, err := json.Marshal(records)
	if err != nil {
		d.logger.Err(err).Str("func", "dataService.store").Msg("failed to encode records")
		return
	}

	meta := map[string]string{cacheMetaTable: table, cacheMetaCount: fmt.Sprint(len(records))}
	if err = d.localStore.Cache.Set(ctx, key, raw, d.cacheTTL, meta); err != nil {
		d.logger.Err(err).Str("func", "dataService.store").Str("key", key).Msg("failed to cache records")
	}
}

func (d *dataService) invalidate(ctx context.Context, table string) {
	if err := d.InvalidateTable(ctx, table); err != nil {
		d.logger.Err(err).Str("func", "dataService.invalidate").Msg("cache invalidation failed")
	}
}
