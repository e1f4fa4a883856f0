// Package server wires and runs the application's transport servers.
//
// It provides orchestration for HTTP and gRPC server lifecycles, including
// startup, signal handling, and graceful shutdown of all enabled transports.
// Background workers (the realtime relay, the gRPC health watcher) share the
// server lifetime, and the broker and database are closed last.
package server
