package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	ErrRegisterOnServer = errors.New("registration on server failed")
	ErrLoginOnServer    = errors.New("login on server failed")
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoCachedData is returned by an offline read with nothing cached.
	ErrNoCachedData = errors.New("no cached data available offline")

	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrPaymentGatewayFailed  = errors.New("payment gateway failed")
	ErrMalformedWebhookEvent = errors.New("malformed webhook event")
)
