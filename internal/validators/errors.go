// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidAction   = errors.New("invalid action")
	ErrUnknownTable    = errors.New("unknown table")
	ErrMissingID       = errors.New("id is required for update and delete")
	ErrEmptyData       = errors.New("data is required")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrLimitTooLarge   = errors.New("limit is too large")

	ErrEmptyLogin    = errors.New("login is required")
	ErrShortPassword = errors.New("password is too short")

	ErrInvalidPlan     = errors.New("invalid plan")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidEmail    = errors.New("invalid email")
)
