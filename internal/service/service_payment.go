package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/payment"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
	"github.com/MKhiriev/go-tool-keeper/internal/validators"
	"github.com/MKhiriev/go-tool-keeper/models"
)

// paymentService sells plan subscriptions through the external gateway and
// tracks their status from signed gateway webhooks.
type paymentService struct {
	subscriptions store.SubscriptionRepository
	gateway       payment.Gateway
	archiver      payment.Archiver
	validator     validators.Validator
	webhookSecret string
	ids           utils.IDGenerator
	logger        *logger.Logger
}

func NewPaymentService(
	subscriptions store.SubscriptionRepository,
	gateway payment.Gateway,
	archiver payment.Archiver,
	cfg config.Payments,
	logger *logger.Logger,
) PaymentService {
	return &paymentService{
		subscriptions: subscriptions,
		gateway:       gateway,
		archiver:      archiver,
		validator:     validators.NewDomainValidator(),
		webhookSecret: cfg.WebhookSecret,
		ids:           utils.NewUUIDGenerator(),
		logger:        logger,
	}
}

// CreatePayment opens a payment at the gateway and records a pending
// subscription for login.
func (p *paymentService) CreatePayment(ctx context.Context, login string, req models.PaymentRequest) (models.PaymentResponse, error) {
	log := logger.FromContext(ctx)

	if err := p.validator.Validate(ctx, req); err != nil {
		log.Error().Err(err).Str("login", login).Msg("invalid payment request")
		return models.PaymentResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	created, err := p.gateway.CreatePayment(ctx, req)
	if err != nil {
		log.Err(err).Str("login", login).Str("plan", req.Plan).Msg("gateway refused payment")
		return models.PaymentResponse{}, fmt.Errorf("%w: %w", ErrPaymentGatewayFailed, err)
	}

	sub := models.Subscription{
		ID:          p.ids.Generate(),
		UserLogin:   login,
		Plan:        req.Plan,
		Status:      models.SubscriptionStatusFor(created.Status),
		PaymentID:   created.PaymentID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
	}
	if err = p.subscriptions.CreateSubscription(ctx, sub); err != nil {
		log.Err(err).Str("payment_id", created.PaymentID).Msg("failed to record subscription")
		return models.PaymentResponse{}, fmt.Errorf("record subscription: %w", err)
	}

	return created, nil
}

// HandleWebhook verifies and applies a gateway notification. The raw body
// is archived before the subscription changes. Notifications for unknown
// payments are acknowledged and ignored.
func (p *paymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	log := logger.FromContext(ctx)

	if !utils.VerifyHMAC(body, signature, p.webhookSecret) {
		log.Warn().Msg("webhook signature mismatch")
		return ErrInvalidSignature
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedWebhookEvent, err)
	}
	if event.PaymentID == "" {
		return fmt.Errorf("%w: missing payment id", ErrMalformedWebhookEvent)
	}

	if err := p.archiver.Archive(ctx, event, body); err != nil {
		log.Err(err).Str("event_id", event.ID).Msg("webhook archive failed")
	}

	status := models.SubscriptionStatusFor(event.Status)
	sub, err := p.subscriptions.UpdateSubscriptionStatus(ctx, event.PaymentID, status)
	if errors.Is(err, store.ErrRecordNotFound) {
		log.Info().Str("payment_id", event.PaymentID).Msg("webhook for unknown payment ignored")
		return nil
	}
	if err != nil {
		return fmt.Errorf("update subscription of %s: %w", event.PaymentID, err)
	}

	log.Info().
		Str("payment_id", sub.PaymentID).
		Str("login", sub.UserLogin).
		Str("status", sub.Status).
		Msg("subscription status updated")
	return nil
}
