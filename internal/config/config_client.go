// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	HTTPAddress     string
	RequestTimeout  time.Duration
	Login           string
	Password        string
	DisableRealtime bool
}

// ClientStorage holds the local store settings.
type ClientStorage struct {
	// LocalPath is the bbolt file of the client.
	LocalPath string
}

// ClientWorkers contains the sync engine and background job settings.
type ClientWorkers struct {
	SyncInterval         time.Duration
	SyncBatchSize        int
	MaxRetries           int
	DrainRate            float64
	ConnectivityInterval time.Duration
	CacheSweepInterval   time.Duration
	CacheTTL             time.Duration
}

// ClientConfig is the client view of [StructuredConfig].
type ClientConfig struct {
	Version string
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.ClientView()
	return clientCfg, clientCfg.validate()
}

// ClientView maps the fields relevant to the client runtime.
func (cfg *StructuredConfig) ClientView() *ClientConfig {
	return &ClientConfig{
		Version: cfg.App.Version,
		Adapter: ClientAdapter{
			HTTPAddress:     cfg.Adapter.HTTPAddress,
			RequestTimeout:  cfg.Adapter.RequestTimeout,
			Login:           cfg.Adapter.Login,
			Password:        cfg.Adapter.Password,
			DisableRealtime: cfg.Adapter.DisableRealtime,
		},
		Storage: ClientStorage{LocalPath: cfg.Storage.Local.Path},
		Workers: ClientWorkers{
			SyncInterval:         cfg.Workers.SyncInterval,
			SyncBatchSize:        cfg.Workers.SyncBatchSize,
			MaxRetries:           cfg.Workers.MaxRetries,
			DrainRate:            cfg.Workers.DrainRate,
			ConnectivityInterval: cfg.Workers.ConnectivityInterval,
			CacheSweepInterval:   cfg.Workers.CacheSweepInterval,
			CacheTTL:             cfg.Workers.CacheTTL,
		},
	}
}
