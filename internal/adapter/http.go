// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/go-resty/resty/v2"
)

const (
	tablesPath = "/api/tables/"
	healthPath = "/api/health"
)

type httpServerAdapter struct {
	client  *utils.HTTPClient
	baseURL string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter] for adapterCfg.HTTPAddress.
//
// Returns an error if the address is empty or cannot be parsed as a URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout)
	return &httpServerAdapter{client: client, baseURL: baseURL, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = utils.NormalizeBaseURL(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) BaseURL() string {
	return h.baseURL
}

// Register POSTs the credentials to /api/auth/register and keeps the bearer
// token from the Authorization response header.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.User, error) {
	return h.authenticate(ctx, "/api/auth/register", user)
}

// Login POSTs the credentials to /api/auth/login and keeps the bearer token
// from the Authorization response header.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.User, error) {
	return h.authenticate(ctx, "/api/auth/login", user)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, user models.User) (models.User, error) {
	var found models.User

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		SetResult(&found).
		Post(path)
	if err != nil {
		return models.User{}, transportError(path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil || token == "" {
		return models.User{}, fmt.Errorf("%s: %w", path, ErrEmptyToken)
	}
	h.SetToken(token)

	if found.Login == "" {
		found.Login = user.Login
	}
	found.Password = ""
	return found, nil
}

// Insert POSTs record to /api/tables/{table}.
func (h *httpServerAdapter) Insert(ctx context.Context, table string, record models.Record) (models.Record, error) {
	var created models.Record

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(record).
		SetResult(&created).
		Post(tablesPath + url.PathEscape(table))
	if err != nil {
		return nil, transportError("insert", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return created, nil
}

// Update PUTs record to /api/tables/{table}/{id}.
func (h *httpServerAdapter) Update(ctx context.Context, table, id string, record models.Record) (models.Record, error) {
	var updated models.Record

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(record).
		SetResult(&updated).
		Put(tablesPath + url.PathEscape(table) + "/" + url.PathEscape(id))
	if err != nil {
		return nil, transportError("update", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete sends DELETE /api/tables/{table}/{id}.
func (h *httpServerAdapter) Delete(ctx context.Context, table, id string) error {
	resp, err := h.authedRequest(ctx).
		Delete(tablesPath + url.PathEscape(table) + "/" + url.PathEscape(id))
	if err != nil {
		return transportError("delete", err)
	}

	return mapHTTPError(resp)
}

// Select GETs /api/tables/{table} with the filters of req as query
// parameters.
func (h *httpServerAdapter) Select(ctx context.Context, req models.SelectRequest) ([]models.Record, error) {
	records := make([]models.Record, 0)

	r := h.authedRequest(ctx).SetResult(&records)
	if req.ID != "" {
		r.SetQueryParam("id", req.ID)
	}
	if req.Since != nil {
		r.SetQueryParam("since", req.Since.UTC().Format(time.RFC3339Nano))
	}
	if req.Limit > 0 {
		r.SetQueryParam("limit", strconv.FormatUint(req.Limit, 10))
	}
	if req.Offset > 0 {
		r.SetQueryParam("offset", strconv.FormatUint(req.Offset, 10))
	}

	resp, err := r.Get(tablesPath + url.PathEscape(req.Table))
	if err != nil {
		return nil, transportError("select", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return records, nil
}

// Ping GETs /api/health.
func (h *httpServerAdapter) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get(healthPath)
	if err != nil {
		return transportError("ping", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// transportError wraps a request failure with [ErrUnavailable] unless the
// caller's context ended it.
func transportError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s request: %w", op, err)
	}
	return fmt.Errorf("%s request: %w: %w", op, ErrUnavailable, err)
}
