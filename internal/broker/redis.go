// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel is used when no channel is configured.
const DefaultRedisChannel = "toolkeeper:changes"

const redisPingTimeout = 5 * time.Second

// redisClient is the part of *redis.Client used by the broker.
type redisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
	Close() error
}

// RedisBroker fans events out over a Redis pub/sub channel.
type RedisBroker struct {
	client  redisClient
	channel string
	logger  *logger.Logger
}

// NewRedisBroker connects to cfg.RedisAddress and verifies the connection.
func NewRedisBroker(cfg config.Broker, logger *logger.Logger) (*RedisBroker, error) {
	if cfg.RedisAddress == "" {
		return nil, errors.New("redis broker: address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis broker: failed to connect: %w", err)
	}

	logger.Info().Str("address", cfg.RedisAddress).Msg("redis broker connected")
	return newRedisBroker(client, cfg.RedisChannel, logger), nil
}

func newRedisBroker(client redisClient, channel string, logger *logger.Logger) *RedisBroker {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisBroker{client: client, channel: channel, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, event models.ChangeEvent) error {
	raw, err := encodeEvent(event)
	if err != nil {
		return err
	}
	if err = b.client.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, handler func(models.ChangeEvent)) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ErrBrokerClosed
			}
			event, err := decodeEvent([]byte(msg.Payload))
			if err != nil {
				b.logger.Warn().Err(err).Str("channel", b.channel).Msg("skipping malformed message")
				continue
			}
			handler(event)
		}
	}
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
