// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/events"
	"github.com/MKhiriev/go-tool-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// EventBus is the subset of [events.Bus] used by the client services.
type EventBus interface {
	On(eventType string, handler events.Handler) (unsubscribe func())
	OnAny(handler events.Handler) (unsubscribe func())
	Emit(eventType string, payload any)
	History() []models.Event
}

// ConnectivityMonitor reports and tracks whether the server is reachable.
type ConnectivityMonitor interface {
	// IsOnline reports the last known reachability.
	IsOnline() bool

	// SetOnline overrides the flag. Transitions emit network:online or
	// network:offline.
	SetOnline(online bool)

	// Check pings the server once and updates the flag.
	Check(ctx context.Context) bool
}

// SyncEngine drains the local queue against the remote table API.
type SyncEngine interface {
	// Sync runs one pass. A pass already in flight makes Sync return
	// immediately with Skipped set.
	Sync(ctx context.Context) models.SyncResult

	// ForceSync runs a pass regardless of the auto-sync pause.
	ForceSync(ctx context.Context) models.SyncResult

	// Status returns the current engine status.
	Status() models.SyncStatus

	// LastSync returns the time of the last completed pass.
	LastSync(ctx context.Context) (time.Time, bool)
}

// SyncScheduler controls automatic sync passes.
type SyncScheduler interface {
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Paused() bool
	// Trigger requests an immediate pass without blocking.
	Trigger()
}

// DataService is the offline-first access to the domain tables.
type DataService interface {
	// Create inserts data remotely when online and queues it otherwise.
	Create(ctx context.Context, table string, data models.Record, priority models.Priority) (models.MutationResult, error)

	// Update merges data into the row data["id"].
	Update(ctx context.Context, table string, data models.Record, priority models.Priority) (models.MutationResult, error)

	// Delete removes the row id.
	Delete(ctx context.Context, table, id string, priority models.Priority) (models.MutationResult, error)

	// Defer queues a mutation without trying the server.
	Defer(ctx context.Context, action models.Action, table string, data models.Record, priority models.Priority) (string, error)

	// Select reads through the local cache.
	Select(ctx context.Context, req models.SelectRequest) (models.SelectResult, error)

	// InvalidateTable drops every cached read of table.
	InvalidateTable(ctx context.Context, table string) error

	// WatchChanges invalidates cached reads on realtime change events.
	WatchChanges(ctx context.Context) (unsubscribe func())
}

// ClientAuthService authenticates the client against the server.
type ClientAuthService interface {
	Register(ctx context.Context, user models.User) error
	Login(ctx context.Context, user models.User) error
	// RestoreSession loads a previously stored token. It reports whether one
	// was found.
	RestoreSession(ctx context.Context) (bool, error)
}

// QueueInspector exposes the queue and dead letters to the dashboard.
type QueueInspector interface {
	Pending(ctx context.Context) (int, error)
	DeadLetters(ctx context.Context) ([]models.DeadLetter, error)
	RequeueAll(ctx context.Context) (int, error)
	Purge(ctx context.Context) (int, error)
}
