// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// Action is the kind of mutation a queued item applies to the remote table.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Valid reports whether a is one of the known mutation kinds.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// RequiresID reports whether the remote call needs the "id" field of the payload.
func (a Action) RequiresID() bool {
	return a == ActionUpdate || a == ActionDelete
}

// Priority orders queued mutations inside a sync pass.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank returns a sort key where a smaller value is processed first.
// Unknown priorities sort after low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() < 3
}

// ParsePriority converts a user supplied string into a Priority.
// An empty string maps to PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// QueueItem is a pending local mutation awaiting confirmation by the remote
// table API. Data is an opaque payload; for update and delete it must carry
// the row id under the "id" key.
type QueueItem struct {
	ID        string         `json:"id"`
	Action    Action         `json:"action"`
	Table     string         `json:"table"`
	Data      map[string]any `json:"data"`
	Priority  Priority       `json:"priority"`
	CreatedAt time.Time      `json:"created_at"`
	// Seq is the store insertion sequence. It breaks ties between items
	// created within the same clock tick.
	Seq       uint64 `json:"seq"`
	Retries   int    `json:"retries"`
	LastError string `json:"last_error,omitempty"`
}

// RecordID extracts the row id from the payload. The boolean is false when
// the payload has no usable id.
func (q QueueItem) RecordID() (string, bool) {
	return RecordIDOf(q.Data)
}

// DeadLetter is a queue item that was removed from the queue after
// exhausting its retries or being malformed.
type DeadLetter struct {
	QueueItem
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}
