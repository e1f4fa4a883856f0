// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors [StructuredConfig] for JSON and YAML files, using
// [Duration] so durations can be written as "30s".
type fileConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration Duration `json:"token_duration" yaml:"token_duration"`
		Version       string   `json:"version" yaml:"version"`
	} `json:"app" yaml:"app"`

	Storage struct {
		DB struct {
			Driver string `json:"driver" yaml:"driver"`
			DSN    string `json:"dsn" yaml:"dsn"`
		} `json:"db" yaml:"db"`
		Local struct {
			Path string `json:"path" yaml:"path"`
		} `json:"local" yaml:"local"`
	} `json:"storage" yaml:"storage"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		GRPCAddress    string   `json:"grpc_address" yaml:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"server" yaml:"server"`

	Adapter struct {
		HTTPAddress     string   `json:"http_address" yaml:"http_address"`
		RequestTimeout  Duration `json:"request_timeout" yaml:"request_timeout"`
		Login           string   `json:"login" yaml:"login"`
		Password        string   `json:"password" yaml:"password"`
		DisableRealtime bool     `json:"disable_realtime" yaml:"disable_realtime"`
	} `json:"adapter" yaml:"adapter"`

	Workers struct {
		SyncInterval         Duration `json:"sync_interval" yaml:"sync_interval"`
		SyncBatchSize        int      `json:"sync_batch_size" yaml:"sync_batch_size"`
		MaxRetries           int      `json:"max_retries" yaml:"max_retries"`
		DrainRate            float64  `json:"drain_rate" yaml:"drain_rate"`
		ConnectivityInterval Duration `json:"connectivity_interval" yaml:"connectivity_interval"`
		CacheSweepInterval   Duration `json:"cache_sweep_interval" yaml:"cache_sweep_interval"`
		CacheTTL             Duration `json:"cache_ttl" yaml:"cache_ttl"`
	} `json:"workers" yaml:"workers"`

	Broker struct {
		Type          string   `json:"type" yaml:"type"`
		RedisAddress  string   `json:"redis_address" yaml:"redis_address"`
		RedisPassword string   `json:"redis_password" yaml:"redis_password"`
		RedisChannel  string   `json:"redis_channel" yaml:"redis_channel"`
		KafkaBrokers  []string `json:"kafka_brokers" yaml:"kafka_brokers"`
		KafkaTopic    string   `json:"kafka_topic" yaml:"kafka_topic"`
		KafkaGroupID  string   `json:"kafka_group_id" yaml:"kafka_group_id"`
	} `json:"broker" yaml:"broker"`

	Payments struct {
		GatewayURL    string   `json:"gateway_url" yaml:"gateway_url"`
		AccessToken   string   `json:"access_token" yaml:"access_token"`
		WebhookSecret string   `json:"webhook_secret" yaml:"webhook_secret"`
		Timeout       Duration `json:"timeout" yaml:"timeout"`
		Archive       Archive  `json:"archive" yaml:"archive"`
	} `json:"payments" yaml:"payments"`
}

// parseFile reads a config file. Files ending in .yaml or .yml are decoded
// as YAML, anything else as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return fc.toStructured(), nil
}

func (fc *fileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenSignKey:  fc.App.TokenSignKey,
			TokenIssuer:   fc.App.TokenIssuer,
			TokenDuration: time.Duration(fc.App.TokenDuration),
			Version:       fc.App.Version,
		},
		Storage: Storage{
			DB:    DB{Driver: fc.Storage.DB.Driver, DSN: fc.Storage.DB.DSN},
			Local: Local{Path: fc.Storage.Local.Path},
		},
		Server: Server{
			HTTPAddress:    fc.Server.HTTPAddress,
			GRPCAddress:    fc.Server.GRPCAddress,
			RequestTimeout: time.Duration(fc.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:     fc.Adapter.HTTPAddress,
			RequestTimeout:  time.Duration(fc.Adapter.RequestTimeout),
			Login:           fc.Adapter.Login,
			Password:        fc.Adapter.Password,
			DisableRealtime: fc.Adapter.DisableRealtime,
		},
		Workers: Workers{
			SyncInterval:         time.Duration(fc.Workers.SyncInterval),
			SyncBatchSize:        fc.Workers.SyncBatchSize,
			MaxRetries:           fc.Workers.MaxRetries,
			DrainRate:            fc.Workers.DrainRate,
			ConnectivityInterval: time.Duration(fc.Workers.ConnectivityInterval),
			CacheSweepInterval:   time.Duration(fc.Workers.CacheSweepInterval),
			CacheTTL:             time.Duration(fc.Workers.CacheTTL),
		},
		Broker: Broker{
			Type:          fc.Broker.Type,
			RedisAddress:  fc.Broker.RedisAddress,
			RedisPassword: fc.Broker.RedisPassword,
			RedisChannel:  fc.Broker.RedisChannel,
			KafkaBrokers:  fc.Broker.KafkaBrokers,
			KafkaTopic:    fc.Broker.KafkaTopic,
			KafkaGroupID:  fc.Broker.KafkaGroupID,
		},
		Payments: Payments{
			GatewayURL:    fc.Payments.GatewayURL,
			AccessToken:   fc.Payments.AccessToken,
			WebhookSecret: fc.Payments.WebhookSecret,
			Timeout:       time.Duration(fc.Payments.Timeout),
			Archive:       fc.Payments.Archive,
		},
	}
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s" in both JSON and YAML. Bare JSON numbers are nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		return d.set(value)
	case nil:
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

func (d *Duration) set(s string) error {
	tmp, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
