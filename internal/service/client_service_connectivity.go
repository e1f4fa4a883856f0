// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/adapter"
	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/workers"
	"github.com/MKhiriev/go-tool-keeper/models"
)

// ConnectivityJob tracks server reachability by pinging the health
// endpoint. It starts offline until the first successful check.
type ConnectivityJob struct {
	adapter  adapter.ServerAdapter
	bus      EventBus
	interval time.Duration
	online   atomic.Bool
	logger   *logger.Logger
}

// NewConnectivityJob creates the monitor. If interval is zero or negative it
// defaults to [config.DefaultConnectivityInterval].
func NewConnectivityJob(serverAdapter adapter.ServerAdapter, bus EventBus, interval time.Duration, logger *logger.Logger) *ConnectivityJob {
	if interval <= 0 {
		interval = config.DefaultConnectivityInterval
	}
	return &ConnectivityJob{adapter: serverAdapter, bus: bus, interval: interval, logger: logger}
}

func (c *ConnectivityJob) Name() string { return "connectivity" }

// Run checks reachability immediately and then every interval until ctx is
// cancelled.
func (c *ConnectivityJob) Run(ctx context.Context) {
	c.Check(ctx)
	workers.Every(ctx, c.interval, func(ctx context.Context) {
		c.Check(ctx)
	})
}

func (c *ConnectivityJob) IsOnline() bool {
	return c.online.Load()
}

func (c *ConnectivityJob) SetOnline(online bool) {
	if c.online.Swap(online) == online {
		return
	}

	if online {
		c.logger.Info().Msg("server is reachable")
		c.bus.Emit(models.EventNetworkOnline, nil)
		return
	}
	c.logger.Warn().Msg("server is unreachable")
	c.bus.Emit(models.EventNetworkOffline, nil)
}

func (c *ConnectivityJob) Check(ctx context.Context) bool {
	err := c.adapter.Ping(ctx)
	if err != nil && ctx.Err() != nil {
		// shutting down; keep the last known state
		return c.IsOnline()
	}
	if err != nil {
		c.logger.Debug().Err(err).Msg("health check failed")
	}
	c.SetOnline(err == nil)
	return err == nil
}
