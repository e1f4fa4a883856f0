// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Event types published on the client event bus.
const (
	EventSyncStatus     = "sync:status"
	EventSyncComplete   = "sync:complete"
	EventQueueAdded     = "queue:added"
	EventDeadLetter     = "queue:dead_letter"
	EventNetworkOnline  = "network:online"
	EventNetworkOffline = "network:offline"
	EventCacheSwept     = "cache:swept"
	EventRealtimeChange = "realtime:change"
)

// Event is one emitted bus message kept in the bus history.
type Event struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// ToastLevel is the severity of a user-facing notification.
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastWarning ToastLevel = "warning"
	ToastError   ToastLevel = "error"
)

// Toast is a short user-facing notification derived from bus events.
type Toast struct {
	Level ToastLevel `json:"level"`
	Text  string     `json:"text"`
	At    time.Time  `json:"at"`
}
