// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// ToolKeeper server handlers and the client error mapping.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place lets the client match server replies by text.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the supplied login/password
	// combination does not match any existing user record.
	MsgInvalidLoginPassword = "invalid login/password"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpired is returned when a JWT bearer token is syntactically
	// valid but its expiry time has passed.
	MsgTokenIsExpired = "token is expired"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgUnknownTable is returned when the {table} path segment is not one
	// of the whitelisted domain tables.
	MsgUnknownTable = "unknown table"

	// MsgNoRecordProvided is returned when an insert or update body is empty.
	MsgNoRecordProvided = "no record provided"

	// MsgInvalidQuery is returned when select parameters cannot be parsed.
	MsgInvalidQuery = "invalid query parameters"

	// MsgRegistrationFailed is returned when the registration handler
	// encounters an unexpected error that prevents account creation.
	MsgRegistrationFailed = "registration failed"

	// MsgLoginFailed is returned when the login handler encounters an
	// unexpected error that prevents issuing a session token.
	MsgLoginFailed = "login failed"

	// MsgLoginAlreadyExists is returned when a registration attempt is
	// rejected because the requested login is already in use.
	MsgLoginAlreadyExists = "login already exists"

	// MsgRecordNotFound is returned when an update or delete targets a row
	// that does not exist.
	MsgRecordNotFound = "record not found"

	// MsgRecordAlreadyExists is returned when an insert reuses an id.
	MsgRecordAlreadyExists = "record already exists"

	// MsgInvalidSignature is returned when a payment webhook carries a
	// missing or wrong HMAC signature.
	MsgInvalidSignature = "invalid signature"

	// MsgPaymentGatewayFailed is returned when the payment gateway rejects
	// or cannot be reached for a payment creation.
	MsgPaymentGatewayFailed = "payment gateway failed"
)
