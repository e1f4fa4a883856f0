// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Default values applied after every other source.
const (
	DefaultSyncInterval         = 30 * time.Second
	DefaultSyncBatchSize        = 10
	DefaultMaxRetries           = 5
	DefaultConnectivityInterval = 5 * time.Second
	DefaultCacheSweepInterval   = time.Minute
	DefaultCacheTTL             = 5 * time.Minute
	DefaultRequestTimeout       = 10 * time.Second
	DefaultTokenDuration        = 24 * time.Hour
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "toolkeeper",
			TokenDuration: DefaultTokenDuration,
		},
		Storage: Storage{
			DB: DB{
				Driver: "sqlite3",
				DSN:    "file:toolkeeper.db?_foreign_keys=on",
			},
			Local: Local{Path: "toolkeeper-client.db"},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: DefaultRequestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: DefaultRequestTimeout,
		},
		Workers: Workers{
			SyncInterval:         DefaultSyncInterval,
			SyncBatchSize:        DefaultSyncBatchSize,
			MaxRetries:           DefaultMaxRetries,
			ConnectivityInterval: DefaultConnectivityInterval,
			CacheSweepInterval:   DefaultCacheSweepInterval,
			CacheTTL:             DefaultCacheTTL,
		},
		Broker: Broker{
			Type:         BrokerMemory,
			RedisChannel: "toolkeeper:changes",
			KafkaTopic:   "toolkeeper.changes",
			KafkaGroupID: "toolkeeper-server",
		},
		Payments: Payments{
			Timeout: DefaultRequestTimeout,
			Archive: Archive{Region: "us-east-1"},
		},
	}
}
