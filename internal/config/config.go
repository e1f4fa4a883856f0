// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TOOLKEEPER_"

// StructuredConfig is the top-level configuration container shared by the
// server and the client. It is populated by merging values from environment
// variables, command-line flags, an optional JSON or YAML file and built-in
// defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds the server database and the client local store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listen addresses and the inbound request timeout.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's view of the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background job settings of the client.
	Workers Workers `envPrefix:"WORKERS_"`

	// Broker selects the change-event broker of the server.
	Broker Broker `envPrefix:"BROKER_"`

	// Payments holds the payment gateway and webhook archive settings.
	Payments Payments `envPrefix:"PAYMENTS_"`

	// ConfigFilePath is the optional path to a JSON or YAML config file.
	// Env: TOOLKEEPER_CONFIG, flags: -c / -config.
	ConfigFilePath string `env:"CONFIG"`
}

// App holds application-level settings.
type App struct {
	// TokenSignKey signs and verifies JWT access tokens.
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of issued tokens.
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of an access token.
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is exposed via /api/version.
	Version string `env:"VERSION"`
}

// Storage groups persistence settings.
type Storage struct {
	DB    DB    `envPrefix:"DB_"`
	Local Local `envPrefix:"LOCAL_"`
}

// DB holds the server database connection settings.
type DB struct {
	// Driver is one of "postgres", "mysql" or "sqlite3".
	Driver string `env:"DRIVER"`

	// DSN is the driver specific connection string.
	DSN string `env:"DSN"`
}

// Local holds the client local store settings.
type Local struct {
	// Path is the bbolt file holding the queue, cache and preferences.
	Path string `env:"PATH"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	HTTPAddress    string        `env:"ADDRESS"`
	GRPCAddress    string        `env:"GRPC_ADDRESS"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the client transport settings.
type Adapter struct {
	// HTTPAddress is the base URL (or host:port) of the server.
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound call.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	Login    string `env:"LOGIN"`
	Password string `env:"PASSWORD"`

	// DisableRealtime keeps the client off the websocket change feed.
	DisableRealtime bool `env:"DISABLE_REALTIME"`
}

// Workers holds client background job settings.
type Workers struct {
	SyncInterval  time.Duration `env:"SYNC_INTERVAL"`
	SyncBatchSize int           `env:"SYNC_BATCH_SIZE"`
	MaxRetries    int           `env:"MAX_RETRIES"`

	// DrainRate caps remote mutations per second during a pass; 0 is unlimited.
	DrainRate float64 `env:"DRAIN_RATE"`

	ConnectivityInterval time.Duration `env:"CONNECTIVITY_INTERVAL"`
	CacheSweepInterval   time.Duration `env:"CACHE_SWEEP_INTERVAL"`
	CacheTTL             time.Duration `env:"CACHE_TTL"`
}

// Broker types.
const (
	BrokerMemory = "memory"
	BrokerRedis  = "redis"
	BrokerKafka  = "kafka"
)

// Broker selects and configures the server change-event broker.
type Broker struct {
	Type string `env:"TYPE"`

	RedisAddress  string `env:"REDIS_ADDRESS"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisChannel  string `env:"REDIS_CHANNEL"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC"`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID"`
}

// Payments holds the gateway client and webhook settings.
type Payments struct {
	GatewayURL    string        `env:"GATEWAY_URL"`
	AccessToken   string        `env:"ACCESS_TOKEN"`
	WebhookSecret string        `env:"WEBHOOK_SECRET"`
	Timeout       time.Duration `env:"TIMEOUT"`

	Archive Archive `envPrefix:"ARCHIVE_"`
}

// Archive configures the S3 compatible bucket receiving raw webhook bodies.
// An empty Bucket disables archiving.
type Archive struct {
	Bucket          string `env:"BUCKET" json:"bucket" yaml:"bucket"`
	Region          string `env:"REGION" json:"region" yaml:"region"`
	Endpoint        string `env:"ENDPOINT" json:"endpoint" yaml:"endpoint"`
	AccessKeyID     string `env:"ACCESS_KEY_ID" json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY" json:"secret_access_key" yaml:"secret_access_key"`
}

// GetStructuredConfig loads and merges the configuration from all sources.
// For every field the first non-zero value wins, in this order:
//  1. Environment variables
//  2. Command-line flags
//  3. Config file (path resolved from sources 1 and 2)
//  4. Defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withFile().
		withDefaults().
		build()
}

// GetServerConfig returns the merged configuration validated for the server.
func GetServerConfig() (*StructuredConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, err
	}

	return cfg, cfg.validateServer()
}
