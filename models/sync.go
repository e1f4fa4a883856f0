// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncStatus is the state of the sync engine broadcast to subscribers.
type SyncStatus string

const (
	SyncStatusIdle    SyncStatus = "idle"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusPartial SyncStatus = "partial"
	SyncStatusError   SyncStatus = "error"
	SyncStatusOffline SyncStatus = "offline"
)

// MsgDeviceOffline is the result message of a pass refused while offline.
const MsgDeviceOffline = "Device is offline"

// SyncResult is the aggregate outcome of one sync pass.
type SyncResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Synced       int    `json:"synced"`
	Failed       int    `json:"failed"`
	DeadLettered int    `json:"dead_lettered"`
	// Skipped is set when another pass was already in flight.
	Skipped bool       `json:"skipped,omitempty"`
	Status  SyncStatus `json:"status"`
	At      time.Time  `json:"at"`
}
