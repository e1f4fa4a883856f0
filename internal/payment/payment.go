// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package payment talks to the external payment gateway and archives raw
// webhook notifications in S3 compatible object storage.
package payment

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-tool-keeper/models"
)

var (
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayNotConfig   = errors.New("payment gateway is not configured")
)

// Gateway creates payments at the external provider.
type Gateway interface {
	CreatePayment(ctx context.Context, req models.PaymentRequest) (models.PaymentResponse, error)
}

// Archiver stores raw webhook payloads.
type Archiver interface {
	Archive(ctx context.Context, event models.WebhookEvent, raw []byte) error
}
