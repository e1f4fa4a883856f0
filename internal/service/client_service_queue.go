// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/models"
)

type queueInspector struct {
	queue       store.QueueRepository
	deadLetters store.DeadLetterRepository
	logger      *logger.Logger
}

func NewQueueInspector(queue store.QueueRepository, deadLetters store.DeadLetterRepository, logger *logger.Logger) QueueInspector {
	return &queueInspector{queue: queue, deadLetters: deadLetters, logger: logger}
}

func (q *queueInspector) Pending(ctx context.Context) (int, error) {
	return q.queue.Count(ctx)
}

func (q *queueInspector) DeadLetters(ctx context.Context) ([]models.DeadLetter, error) {
	return q.deadLetters.ListDeadLetters(ctx)
}

// RequeueAll moves every dead letter back to the queue with its retry
// counter reset. It stops at the first failure and reports how many items
// were requeued before it.
func (q *queueInspector) RequeueAll(ctx context.Context) (int, error) {
	dead, err := q.deadLetters.ListDeadLetters(ctx)
	if err != nil {
		return 0, err
	}

	requeued := 0
	for _, dl := range dead {
		if err = q.deadLetters.RequeueDeadLetter(ctx, dl.ID); err != nil {
			return requeued, fmt.Errorf("requeue %s: %w", dl.ID, err)
		}
		requeued++
	}

	q.logger.Info().Int("items", requeued).Msg("dead letters requeued")
	return requeued, nil
}

func (q *queueInspector) Purge(ctx context.Context) (int, error) {
	n, err := q.deadLetters.PurgeDeadLetters(ctx)
	if err != nil {
		return 0, err
	}
	q.logger.Info().Int("items", n).Msg("dead letters purged")
	return n, nil
}
