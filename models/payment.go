// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// PaymentRequest is the body of a payment creation call.
type PaymentRequest struct {
	Plan        string `json:"plan"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
}

// PaymentResponse is returned by the payment gateway for a created payment.
type PaymentResponse struct {
	PaymentID   string `json:"payment_id"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// WebhookEvent is a payment gateway notification.
type WebhookEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	PaymentID string    `json:"payment_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Payment statuses reported by the gateway.
const (
	PaymentApproved  = "approved"
	PaymentRejected  = "rejected"
	PaymentCancelled = "cancelled"
	PaymentPending   = "pending"
)

// Subscription statuses.
const (
	SubscriptionPending   = "pending"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

// SubscriptionStatusFor maps a gateway payment status to a subscription status.
func SubscriptionStatusFor(paymentStatus string) string {
	switch paymentStatus {
	case PaymentApproved:
		return SubscriptionActive
	case PaymentRejected, PaymentCancelled:
		return SubscriptionCancelled
	}
	return SubscriptionPending
}

// Subscription is a persisted plan purchase.
type Subscription struct {
	ID          string    `json:"id"`
	UserLogin   string    `json:"user_login"`
	Plan        string    `json:"plan"`
	Status      string    `json:"status"`
	PaymentID   string    `json:"payment_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the name of the database table for subscriptions.
func (s Subscription) TableName() string {
	return "subscriptions"
}
