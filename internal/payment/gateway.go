// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
	"github.com/MKhiriev/go-tool-keeper/models"
)

const createPaymentPath = "/v1/payments"

type httpGateway struct {
	client      *utils.HTTPClient
	accessToken string
	logger      *logger.Logger
}

// NewGateway returns a resty based gateway client. Without a GatewayURL it
// returns a gateway that refuses every payment.
func NewGateway(cfg config.Payments, logger *logger.Logger) Gateway {
	if cfg.GatewayURL == "" {
		logger.Warn().Msg("payment gateway url is empty, payments are disabled")
		return disabledGateway{}
	}
	return &httpGateway{
		client:      utils.NewHTTPClient(cfg.GatewayURL, cfg.Timeout),
		accessToken: cfg.AccessToken,
		logger:      logger,
	}
}

func (g *httpGateway) CreatePayment(ctx context.Context, req models.PaymentRequest) (models.PaymentResponse, error) {
	var created models.PaymentResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(g.accessToken).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&created).
		Post(createPaymentPath)
	if err != nil {
		return models.PaymentResponse{}, fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}

	switch status := resp.StatusCode(); {
	case status >= http.StatusInternalServerError:
		return models.PaymentResponse{}, fmt.Errorf("%w: http %d", ErrGatewayUnavailable, status)
	case status >= http.StatusBadRequest:
		return models.PaymentResponse{}, fmt.Errorf("%w: http %d: %s", ErrGatewayRejected, status, gatewayMessage(resp.Body()))
	}

	if created.PaymentID == "" {
		return models.PaymentResponse{}, fmt.Errorf("%w: response without payment id", ErrGatewayRejected)
	}
	if created.Status == "" {
		created.Status = models.PaymentPending
	}

	g.logger.Info().Str("payment_id", created.PaymentID).Str("plan", req.Plan).Msg("payment created")
	return created, nil
}

func gatewayMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}

type disabledGateway struct{}

func (disabledGateway) CreatePayment(context.Context, models.PaymentRequest) (models.PaymentResponse, error) {
	return models.PaymentResponse{}, ErrGatewayNotConfig
}
