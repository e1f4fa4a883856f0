// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

var knownDrivers = map[string]struct{}{
	"postgres": {},
	"pgx":      {},
	"mysql":    {},
	"sqlite3":  {},
}

// validateServer checks the merged config before the server starts.
func (cfg *StructuredConfig) validateServer() error {
	if _, ok := knownDrivers[cfg.Storage.DB.Driver]; !ok || cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return ErrInvalidServerConfigs
	}

	switch cfg.Broker.Type {
	case BrokerMemory:
	case BrokerRedis:
		if cfg.Broker.RedisAddress == "" || cfg.Broker.RedisChannel == "" {
			return fmt.Errorf("%w: redis address and channel are required", ErrInvalidBrokerConfigs)
		}
	case BrokerKafka:
		if len(cfg.Broker.KafkaBrokers) == 0 || cfg.Broker.KafkaTopic == "" {
			return fmt.Errorf("%w: kafka brokers and topic are required", ErrInvalidBrokerConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidBrokerConfigs, cfg.Broker.Type)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.LocalPath == "" || strings.Contains(cfg.Storage.LocalPath, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	w := cfg.Workers
	if w.SyncInterval <= 0 || w.SyncBatchSize <= 0 || w.MaxRetries <= 0 ||
		w.ConnectivityInterval <= 0 || w.CacheSweepInterval <= 0 || w.DrainRate < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
