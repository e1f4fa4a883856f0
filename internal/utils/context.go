// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
)

type contextKey string

func (c contextKey) String() string {
	return string(c)
}

var (
	// LoginCtxKey stores the authenticated user login.
	LoginCtxKey = contextKey("login")
	// TraceIDCtxKey stores the request trace id.
	TraceIDCtxKey = contextKey("traceID")
)

// GetLoginFromContext returns the authenticated login set by the auth middleware.
func GetLoginFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(LoginCtxKey).(string)
	return login, ok && login != ""
}

// WithLogin returns a copy of ctx carrying login.
func WithLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, LoginCtxKey, login)
}
