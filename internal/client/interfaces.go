// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run(ctx context.Context) error
}

// UI is the interactive front end of the client.
type UI interface {
	// AuthFlow asks for credentials. An empty login means the user chose to
	// continue without a session.
	AuthFlow(ctx context.Context) (login string, err error)

	// Dashboard blocks until the user quits.
	Dashboard(ctx context.Context) error
}
