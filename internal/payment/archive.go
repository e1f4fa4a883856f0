// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package payment

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"
)

const (
	defaultArchiveRegion = "us-east-1"
	archivePrefix        = "webhooks"
	archiveMaxRetries    = 3
	archiveBaseBackoff   = 100 * time.Millisecond
)

// putObjectAPI is the part of *s3.Client used by the archiver.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes each webhook body to webhooks/<date>/<event id>.json.
type S3Archiver struct {
	client  putObjectAPI
	bucket  string
	backoff func() retry.Backoff
	logger  *logger.Logger
}

// NewArchiver returns an S3 archiver for cfg, or a no-op archiver when no
// bucket is configured.
func NewArchiver(ctx context.Context, cfg config.Archive, logger *logger.Logger) (Archiver, error) {
	if cfg.Bucket == "" {
		logger.Info().Msg("webhook archive disabled")
		return NopArchiver{}, nil
	}

	region := cfg.Region
	if region == "" {
		region = defaultArchiveRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	logger.Info().Str("bucket", cfg.Bucket).Str("region", region).Msg("webhook archive enabled")
	return newS3Archiver(s3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket, logger), nil
}

func newS3Archiver(client putObjectAPI, bucket string, logger *logger.Logger) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(archiveMaxRetries, retry.NewExponential(archiveBaseBackoff))
		},
		logger: logger,
	}
}

func (a *S3Archiver) Archive(ctx context.Context, event models.WebhookEvent, raw []byte) error {
	key := ArchiveKey(event)

	err := retry.Do(ctx, a.backoff(), func(ctx context.Context) error {
		_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(raw),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			a.logger.Warn().Err(err).Str("key", key).Msg("webhook archive attempt failed")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("archive webhook %s: %w", event.ID, err)
	}

	a.logger.Debug().Str("key", key).Msg("webhook archived")
	return nil
}

// ArchiveKey returns the object key of a webhook event. Events without a
// creation time are filed under the current UTC date.
func ArchiveKey(event models.WebhookEvent) string {
	at := event.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	id := event.ID
	if id == "" {
		id = "payment-" + event.PaymentID
	}
	return path.Join(archivePrefix, at.UTC().Format(time.DateOnly), id+".json")
}

// NopArchiver drops payloads.
type NopArchiver struct{}

func (NopArchiver) Archive(context.Context, models.WebhookEvent, []byte) error { return nil }
