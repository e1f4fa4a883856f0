// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-tool-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists API users.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// TableRepository applies row mutations to the whitelisted domain tables.
type TableRepository interface {
	Insert(ctx context.Context, table string, record models.Record) (models.Record, error)
	// Update merges record into the stored row document.
	Update(ctx context.Context, table, id string, record models.Record) (models.Record, error)
	Delete(ctx context.Context, table, id string) error
	Select(ctx context.Context, req models.SelectRequest) ([]models.Record, error)
}

// SubscriptionRepository persists plan purchases.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) error
	UpdateSubscriptionStatus(ctx context.Context, paymentID, status string) (models.Subscription, error)
	GetSubscriptionByPaymentID(ctx context.Context, paymentID string) (models.Subscription, error)
}
