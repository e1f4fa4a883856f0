// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

var subscriptionColumns = []string{
	"id", "user_login", "plan", "status", "payment_id",
	"amount_cents", "currency", "created_at", "updated_at",
}

type subscriptionRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSubscriptionRepository constructs a [SubscriptionRepository] over db.
func NewSubscriptionRepository(db *DB, logger *logger.Logger) SubscriptionRepository {
	logger.Debug().Msg("creating subscription repository")
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Insert(sub.TableName()).
		Columns(subscriptionColumns...).
		Values(sub.ID, sub.UserLogin, sub.Plan, sub.Status, sub.PaymentID,
			sub.AmountCents, sub.Currency, sub.CreatedAt.UTC(), sub.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*subscriptionRepository.CreateSubscription").Msg("insert failed")
		if r.db.errorClassificator.IsUniqueViolation(err) {
			return ErrRecordAlreadyExists
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func (r *subscriptionRepository) UpdateSubscriptionStatus(ctx context.Context, paymentID, status string) (models.Subscription, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Update(models.Subscription{}.TableName()).
		Set("status", status).
		Set("updated_at", time.Now().UTC().Truncate(time.Second)).
		Where(sq.Eq{"payment_id": paymentID}).
		ToSql()
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*subscriptionRepository.UpdateSubscriptionStatus").Msg("update failed")
		return models.Subscription{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Subscription{}, ErrRecordNotFound
	}

	return r.GetSubscriptionByPaymentID(ctx, paymentID)
}

func (r *subscriptionRepository) GetSubscriptionByPaymentID(ctx context.Context, paymentID string) (models.Subscription, error) {
	query, args, err := r.db.builder.Select(subscriptionColumns...).
		From(models.Subscription{}.TableName()).
		Where(sq.Eq{"payment_id": paymentID}).
		ToSql()
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var s models.Subscription
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.UserLogin, &s.Plan, &s.Status, &s.PaymentID,
		&s.AmountCents, &s.Currency, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subscription{}, ErrRecordNotFound
	}
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return s, nil
}
