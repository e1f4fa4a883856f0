// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Record is one row of a domain table. The "id" key holds the primary key;
// the remaining keys are stored as the row document.
type Record map[string]any

// RecordIDKey is the payload key holding the row primary key.
const RecordIDKey = "id"

// RecordIDOf returns the id stored under RecordIDKey as a string.
// Numeric ids are formatted in base 10. Empty ids are reported as missing.
func RecordIDOf(data map[string]any) (string, bool) {
	raw, ok := data[RecordIDKey]
	if !ok || raw == nil {
		return "", false
	}

	var id string
	switch v := raw.(type) {
	case string:
		id = v
	case json.Number:
		id = v.String()
	case float64:
		id = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		id = strconv.Itoa(v)
	case int64:
		id = strconv.FormatInt(v, 10)
	case fmt.Stringer:
		id = v.String()
	default:
		return "", false
	}

	return id, id != ""
}

// ID returns the row id, or an empty string.
func (r Record) ID() string {
	id, _ := RecordIDOf(r)
	return id
}

// Domain table names accepted by the table API.
const (
	TableTools         = "tools"
	TableEPIItems      = "epi_items"
	TableReservations  = "reservations"
	TableCheckouts     = "checkouts"
	TableNotifications = "notifications"
)

// KnownTables lists every table reachable through the table API.
var KnownTables = []string{
	TableTools,
	TableEPIItems,
	TableReservations,
	TableCheckouts,
	TableNotifications,
}

// IsKnownTable reports whether name is one of [KnownTables].
func IsKnownTable(name string) bool {
	for _, t := range KnownTables {
		if t == name {
			return true
		}
	}
	return false
}

// SelectRequest describes a table read.
type SelectRequest struct {
	Table string `json:"table"`
	// ID restricts the result to a single row when non-empty.
	ID string `json:"id,omitempty"`
	// Since returns rows updated strictly after the given time.
	Since  *time.Time `json:"since,omitempty"`
	Limit  uint64     `json:"limit,omitempty"`
	Offset uint64     `json:"offset,omitempty"`
}

// CacheKey returns a stable cache key for the request. Every key of a table
// shares the "table:<name>:" prefix.
func (r SelectRequest) CacheKey() string {
	key := TableCachePrefix(r.Table) + "id=" + r.ID
	if r.Since != nil {
		key += "&since=" + r.Since.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("%s&limit=%d&offset=%d", key, r.Limit, r.Offset)
}

// TableCachePrefix is the cache key prefix of every cached read of table.
func TableCachePrefix(table string) string {
	return "table:" + table + ":"
}

// ChangeEvent describes a mutation applied by the server.
type ChangeEvent struct {
	Table  string    `json:"table"`
	Action Action    `json:"action"`
	ID     string    `json:"id"`
	Record Record    `json:"record,omitempty"`
	At     time.Time `json:"at"`
}

// MutationResult is the outcome of an offline-first mutation. Exactly one
// of Record (applied remotely) or QueueID (queued for sync) is set.
type MutationResult struct {
	Record  Record `json:"record,omitempty"`
	Queued  bool   `json:"queued"`
	QueueID string `json:"queue_id,omitempty"`
}

// SelectResult is the outcome of an offline-first read.
type SelectResult struct {
	Records []Record `json:"records"`
	// FromCache is set when the records were served from the local cache.
	FromCache bool `json:"from_cache"`
	// Stale is set when the cached entry had already expired.
	Stale bool `json:"stale,omitempty"`
}
