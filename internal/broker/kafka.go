// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/segmentio/kafka-go"
)

// Kafka defaults.
const (
	DefaultKafkaTopic   = "toolkeeper.changes"
	DefaultKafkaGroupID = "toolkeeper-realtime"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaBroker publishes events to a Kafka topic keyed by table name, so
// changes of one table keep their order within a partition.
type KafkaBroker struct {
	writer    messageWriter
	newReader func() messageReader

	mu      sync.Mutex
	readers []messageReader
	closed  bool

	logger *logger.Logger
}

func NewKafkaBroker(cfg config.Broker, logger *logger.Logger) (*KafkaBroker, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("kafka broker: at least one broker address is required")
	}

	topic := cfg.KafkaTopic
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	groupID := cfg.KafkaGroupID
	if groupID == "" {
		groupID = DefaultKafkaGroupID
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
	}

	newReader := func() messageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.KafkaBrokers,
			Topic:       topic,
			GroupID:     groupID,
			StartOffset: kafka.LastOffset,
		})
	}

	logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", topic).Str("group", groupID).Msg("kafka broker configured")
	return &KafkaBroker{writer: writer, newReader: newReader, logger: logger}, nil
}

func (b *KafkaBroker) Publish(ctx context.Context, event models.ChangeEvent) error {
	raw, err := encodeEvent(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.Table),
		Value: raw,
		Time:  event.At,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(event.Action)},
			{Key: "table", Value: []byte(event.Table)},
		},
	}
	if err = b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (b *KafkaBroker) Subscribe(ctx context.Context, handler func(models.ChangeEvent)) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBrokerClosed
	}
	reader := b.newReader()
	b.readers = append(b.readers, reader)
	b.mu.Unlock()

	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("kafka read: %w", err)
		}

		event, err := decodeEvent(msg.Value)
		if err != nil {
			b.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("skipping malformed message")
			continue
		}
		handler(event)
	}
}

func (b *KafkaBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	errs := []error{b.writer.Close()}
	for _, r := range b.readers {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
