// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
)

// Workers is a group of workers started and stopped together.
type Workers struct {
	workers []Worker

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewWorkers returns an idle group of ws.
func NewWorkers(logger *logger.Logger, ws ...Worker) *Workers {
	return &Workers{workers: ws, logger: logger}
}

// Add appends ws to the group. They run from the next Start.
func (w *Workers) Add(ws ...Worker) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.workers = append(w.workers, ws...)
}

// Start launches every worker on its own goroutine. A running group is
// stopped first. Workers exit when ctx is cancelled or Stop is called.
func (w *Workers) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	for _, worker := range w.workers {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.run(runCtx, worker)
		}()
	}
}

func (w *Workers) run(ctx context.Context, worker Worker) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Str("func", "Workers.run").Str("worker", worker.Name()).
				Str("panic", fmt.Sprint(r)).Msg("worker panicked")
		}
	}()

	w.logger.Debug().Str("worker", worker.Name()).Msg("worker started")
	worker.Run(ctx)
	w.logger.Debug().Str("worker", worker.Name()).Msg("worker stopped")
}

// Stop cancels the workers and blocks until all of them returned. Safe to
// call when the group is not running.
func (w *Workers) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// Every calls fn on each tick of interval until ctx is cancelled. A
// non-positive interval disables the loop; Every then just waits for ctx.
func Every(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) {
	if interval <= 0 {
		<-ctx.Done()
		return
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn(ctx)
		}
	}
}
