// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-tool-keeper/internal/adapter"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/internal/validators"
	"github.com/MKhiriev/go-tool-keeper/models"
)

// Preference keys of the stored session.
const (
	PrefAuthToken = "auth.token"
	PrefAuthLogin = "auth.login"
)

type clientAuthService struct {
	prefs     store.PreferenceRepository
	adapter   adapter.ServerAdapter
	validator validators.Validator
	logger    *logger.Logger
}

func NewClientAuthService(prefs store.PreferenceRepository, serverAdapter adapter.ServerAdapter, validator validators.Validator, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{prefs: prefs, adapter: serverAdapter, validator: validator, logger: logger}
}

func (a *clientAuthService) Register(ctx context.Context, user models.User) error {
	if err := a.validator.Validate(ctx, user); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	registered, err := a.adapter.Register(ctx, user)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegisterOnServer, mapAdapterError(err))
	}

	return a.saveSession(ctx, registered.Login)
}

func (a *clientAuthService) Login(ctx context.Context, user models.User) error {
	if err := a.validator.Validate(ctx, user, validators.FieldLogin); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	found, err := a.adapter.Login(ctx, user)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoginOnServer, mapAdapterError(err))
	}

	return a.saveSession(ctx, found.Login)
}

func (a *clientAuthService) RestoreSession(ctx context.Context) (bool, error) {
	var token string
	found, err := a.prefs.GetPreference(ctx, PrefAuthToken, &token)
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	if !found || token == "" {
		return false, nil
	}

	a.adapter.SetToken(token)
	a.logger.Debug().Msg("session restored")
	return true, nil
}

func (a *clientAuthService) saveSession(ctx context.Context, login string) error {
	token := a.adapter.Token()
	if token == "" {
		return ErrNotAuthenticated
	}
	if err := a.prefs.SetPreference(ctx, PrefAuthToken, token); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if err := a.prefs.SetPreference(ctx, PrefAuthLogin, login); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	a.logger.Info().Str("login", login).Msg("authenticated")
	return nil
}
