// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when registering a login that is taken.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a login lookup matches no user.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrRecordNotFound is returned when an update, delete or lookup targets
	// a row id that does not exist.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrRecordAlreadyExists is returned when an insert collides with an
	// existing primary key.
	ErrRecordAlreadyExists = errors.New("record already exists")

	// ErrUnknownTable is returned for table names outside the whitelist.
	ErrUnknownTable = errors.New("unknown table")

	// ErrUnsupportedDriver is returned by NewDB for an unknown driver name.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrDecodingDocument     = errors.New("failed to decode row document")
)

// Client local store errors.
var (
	ErrLocalStoreRead     = errors.New("local store read failed")
	ErrLocalStoreWrite    = errors.New("local store write failed")
	ErrQueueItemNotFound  = errors.New("queue item not found")
	ErrDeadLetterNotFound = errors.New("dead letter not found")
	ErrInvalidQueueItem   = errors.New("invalid queue item")
	ErrCorruptCacheEntry  = errors.New("corrupt cache entry")
)
