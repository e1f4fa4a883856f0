// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/service"
	"github.com/MKhiriev/go-tool-keeper/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	// TablesServiceName is the health service name reported for the table
	// API. The empty name reports the overall server status.
	TablesServiceName = "toolkeeper.Tables"

	healthProbeInterval = 10 * time.Second
)

// Handler is the root gRPC transport handler.
//
// It exposes the standard gRPC health protocol. The serving status follows
// [service.AppInfoService.Health]: a degraded database flips every service
// to NOT_SERVING until the next successful probe.
type Handler struct {
	services *service.Services
	health   *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container and
// logger. Every service starts as NOT_SERVING until the first probe.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	h := &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register attaches the health service to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

func (h *Handler) Name() string { return "grpc-health" }

// Run probes application health until ctx is done.
func (h *Handler) Run(ctx context.Context) {
	h.Watch(ctx, healthProbeInterval)
}

// Watch probes application health every interval until ctx is done.
func (h *Handler) Watch(ctx context.Context, interval time.Duration) {
	h.Probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

// Probe runs one health check and publishes the resulting status.
func (h *Handler) Probe(ctx context.Context) {
	report := h.services.AppInfoService.Health(ctx)

	status := healthpb.HealthCheckResponse_SERVING
	if report.Status != models.HealthOK {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		h.logger.Warn().Str("database", report.Database).Msg("gRPC health degraded")
	}
	h.setStatus(status)
}

// Shutdown sets every service to NOT_SERVING and ignores later updates.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

func (h *Handler) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(TablesServiceName, status)
}
