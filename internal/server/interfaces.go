package server

import "context"

// Server defines the common lifecycle contract for transport servers managed
// by this package.
//
// Implementations are expected to block in [RunServer] until shutdown is
// requested and to release resources in [Shutdown].
type Server interface {
	// RunServer starts serving requests and blocks until the process
	// receives SIGTERM, SIGINT or SIGQUIT.
	RunServer()

	// Serve is RunServer with an explicit lifetime: it blocks until ctx is
	// done and everything is shut down.
	Serve(ctx context.Context) error

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
