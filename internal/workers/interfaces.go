// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the background jobs of the client: the sync job, the
// connectivity monitor and the cache sweep.
//
// A [Worker] blocks in Run until its context is cancelled. [Workers] starts
// a set of workers on their own goroutines and stops them together.
package workers

import "context"

// Worker is a long-running background job.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Name() string { return "my-worker" }
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    workers.Every(ctx, time.Minute, w.tick)
//	}
type Worker interface {
	// Name identifies the worker in logs.
	Name() string

	// Run blocks until ctx is cancelled.
	Run(ctx context.Context)
}
