// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client transport to the ToolKeeper server.
//
// The primary abstraction is [ServerAdapter], which decouples the service
// layer from the protocol. The package ships an HTTP/REST implementation
// ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrNotFound] for 404, [ErrUnauthorized] for 401).
// Failures to reach the server at all wrap [ErrUnavailable].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-tool-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter is the remote side of the offline-first client: the hosted
// table API plus authentication and health.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently stored, or "".
	Token() string

	// BaseURL returns the normalised server URL, used to derive the
	// realtime endpoint.
	BaseURL() string

	// Register creates an account and stores the returned bearer token.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates and stores the returned bearer token.
	Login(ctx context.Context, user models.User) (models.User, error)

	// Insert creates a row in table and returns it as stored remotely.
	Insert(ctx context.Context, table string, record models.Record) (models.Record, error)

	// Update merges record into the row id of table.
	Update(ctx context.Context, table, id string, record models.Record) (models.Record, error)

	// Delete removes the row id of table.
	Delete(ctx context.Context, table, id string) error

	// Select reads rows of req.Table filtered by req.
	Select(ctx context.Context, req models.SelectRequest) ([]models.Record, error)

	// Ping reports whether the server health endpoint answers.
	Ping(ctx context.Context) error
}
