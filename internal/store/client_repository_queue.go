// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
	"github.com/MKhiriev/go-tool-keeper/models"
	"go.etcd.io/bbolt"
)

// queueRepository keeps queue items in the "queue" bucket keyed by an
// 8-byte big-endian insertion sequence, so a cursor walk yields insertion
// order. "queue_index" maps item id to that key.
type queueRepository struct {
	db         *BoltDB
	ids        utils.IDGenerator
	maxRetries int
	now        func() time.Time
	logger     *logger.Logger
}

// QueueStore implements both [QueueRepository] and [DeadLetterRepository]
// over the same file so an item moves between buckets in one transaction.
type QueueStore interface {
	QueueRepository
	DeadLetterRepository
}

// NewQueueRepository returns the bbolt queue. maxRetries is the retry
// ceiling reported by IncrementRetries.
func NewQueueRepository(db *BoltDB, ids utils.IDGenerator, maxRetries int, logger *logger.Logger) QueueStore {
	return &queueRepository{
		db:         db,
		ids:        ids,
		maxRetries: maxRetries,
		now:        time.Now,
		logger:     logger,
	}
}

func (r *queueRepository) AddToQueue(ctx context.Context, action models.Action, table string, data map[string]any, priority models.Priority) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !action.Valid() || table == "" {
		return "", fmt.Errorf("%w: action %q table %q", ErrInvalidQueueItem, action, table)
	}
	if priority == "" {
		priority = models.PriorityMedium
	}

	item := models.QueueItem{
		ID:        r.ids.Generate(),
		Action:    action,
		Table:     table,
		Data:      data,
		Priority:  priority,
		CreatedAt: r.now().UTC(),
	}

	err := r.db.Update(func(tx *bbolt.Tx) error {
		queue := tx.Bucket(bucketQueue)
		seq, err := queue.NextSequence()
		if err != nil {
			return err
		}
		item.Seq = seq
		return putQueueItem(tx, item)
	})
	if err != nil {
		r.logger.Err(err).Str("func", "queueRepository.AddToQueue").Str("table", table).Msg("failed to enqueue item")
		return "", fmt.Errorf("%w: %w", ErrLocalStoreWrite, err)
	}

	r.logger.Debug().Str("id", item.ID).Str("action", string(action)).Str("table", table).
		Str("priority", string(priority)).Msg("item queued")
	return item.ID, nil
}

func (r *queueRepository) GetQueue(ctx context.Context, priority *models.Priority) ([]models.QueueItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]models.QueueItem, 0)
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).ForEach(func(_, v []byte) error {
			var item models.QueueItem
			if err := decodeJSON(v, &item); err != nil {
				return fmt.Errorf("decode queue item: %w", err)
			}
			if priority != nil && item.Priority != *priority {
				return nil
			}
			items = append(items, item)
			return nil
		})
	})
	if err != nil {
		r.logger.Err(err).Str("func", "queueRepository.GetQueue").Msg("failed to read queue")
		return nil, fmt.Errorf("%w: %w", ErrLocalStoreRead, err)
	}

	return items, nil
}

func (r *queueRepository) RemoveFromQueue(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.db.Update(func(tx *bbolt.Tx) error {
		_, _, err := deleteQueueItem(tx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStoreWrite, err)
	}
	return nil
}

func (r *queueRepository) IncrementRetries(ctx context.Context, id string, lastErr string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	var retries int
	err := r.db.Update(func(tx *bbolt.Tx) error {
		item, ok, err := getQueueItem(tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrQueueItemNotFound
		}

		item.Retries++
		item.LastError = lastErr
		retries = item.Retries
		return putQueueItem(tx, item)
	})
	if err != nil {
		return 0, false, fmt.Errorf("increment retries of %s: %w", id, err)
	}

	return retries, r.maxRetries <= 0 || retries < r.maxRetries, nil
}

func (r *queueRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int
	err := r.db.View(func(tx *bbolt.Tx) error {
		n = countKeys(tx.Bucket(bucketQueue))
		return nil
	})
	return n, err
}

func (r *queueRepository) MoveToDeadLetter(ctx context.Context, id string, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.db.Update(func(tx *bbolt.Tx) error {
		item, ok, err := deleteQueueItem(tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrQueueItemNotFound
		}

		raw, err := json.Marshal(models.DeadLetter{QueueItem: item, Reason: reason, FailedAt: r.now().UTC()})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketDeadLetter).Put([]byte(id), raw)
	})
	if err != nil {
		r.logger.Err(err).Str("func", "queueRepository.MoveToDeadLetter").Str("id", id).Msg("failed to dead-letter item")
		return fmt.Errorf("dead-letter %s: %w", id, err)
	}

	r.logger.Warn().Str("id", id).Str("reason", reason).Msg("item moved to dead letter")
	return nil
}

func (r *queueRepository) ListDeadLetters(ctx context.Context) ([]models.DeadLetter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	letters := make([]models.DeadLetter, 0)
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDeadLetter).ForEach(func(_, v []byte) error {
			var dl models.DeadLetter
			if err := decodeJSON(v, &dl); err != nil {
				return fmt.Errorf("decode dead letter: %w", err)
			}
			letters = append(letters, dl)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLocalStoreRead, err)
	}

	return letters, nil
}

func (r *queueRepository) RequeueDeadLetter(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		letters := tx.Bucket(bucketDeadLetter)
		raw := letters.Get([]byte(id))
		if raw == nil {
			return ErrDeadLetterNotFound
		}

		var dl models.DeadLetter
		if err := decodeJSON(raw, &dl); err != nil {
			return fmt.Errorf("decode dead letter: %w", err)
		}

		seq, err := tx.Bucket(bucketQueue).NextSequence()
		if err != nil {
			return err
		}

		item := dl.QueueItem
		item.Seq = seq
		item.Retries = 0
		item.LastError = ""
		if err := putQueueItem(tx, item); err != nil {
			return err
		}
		return letters.Delete([]byte(id))
	})
}

func (r *queueRepository) PurgeDeadLetters(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int
	err := r.db.Update(func(tx *bbolt.Tx) error {
		n = countKeys(tx.Bucket(bucketDeadLetter))
		if err := tx.DeleteBucket(bucketDeadLetter); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketDeadLetter)
		return err
	})
	return n, err
}

func putQueueItem(tx *bbolt.Tx, item models.QueueItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode queue item: %w", err)
	}

	key := seqKey(item.Seq)
	if err := tx.Bucket(bucketQueue).Put(key, raw); err != nil {
		return err
	}
	return tx.Bucket(bucketQueueIndex).Put([]byte(item.ID), key)
}

func getQueueItem(tx *bbolt.Tx, id string) (models.QueueItem, bool, error) {
	key := tx.Bucket(bucketQueueIndex).Get([]byte(id))
	if key == nil {
		return models.QueueItem{}, false, nil
	}

	raw := tx.Bucket(bucketQueue).Get(key)
	if raw == nil {
		return models.QueueItem{}, false, nil
	}

	var item models.QueueItem
	if err := decodeJSON(raw, &item); err != nil {
		return models.QueueItem{}, false, fmt.Errorf("decode queue item: %w", err)
	}
	return item, true, nil
}

func deleteQueueItem(tx *bbolt.Tx, id string) (models.QueueItem, bool, error) {
	item, ok, err := getQueueItem(tx, id)
	if err != nil || !ok {
		// drop a dangling index entry if any
		if delErr := tx.Bucket(bucketQueueIndex).Delete([]byte(id)); delErr != nil && err == nil {
			err = delErr
		}
		return item, false, err
	}

	if err := tx.Bucket(bucketQueue).Delete(seqKey(item.Seq)); err != nil {
		return item, false, err
	}
	if err := tx.Bucket(bucketQueueIndex).Delete([]byte(id)); err != nil {
		return item, false, err
	}
	return item, true, nil
}
