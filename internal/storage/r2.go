package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/transcriptai/transcript-service/internal/config"
	"github.com/transcriptai/transcript-service/internal/observability"
	"github.com/transcriptai/transcript-service/internal/resilience"
)

// R2Store implements Store against a Cloudflare R2 bucket
type R2Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	presignExpiry time.Duration
	retryConfig   *resilience.RetryConfig
}

// NewR2Store creates a Store backed by the configured R2 bucket
func NewR2Store(ctx context.Context, cfg *config.Config) (*R2Store, error) {
	if !cfg.StorageConfigured() {
		return nil, fmt.Errorf("R2 credentials are not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &R2Store{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.R2BucketName,
		presignExpiry: time.Duration(cfg.PresignExpiry) * time.Second,
		retryConfig: &resilience.RetryConfig{
			MaxAttempts:       cfg.StorageRetryMaxAttempts,
			InitialBackoff:    time.Duration(cfg.StorageRetryInitialBackoff) * time.Millisecond,
			MaxBackoff:        5 * time.Second,
			BackoffMultiplier: 2.0,
		},
	}, nil
}

// objectKey generates a unique storage key, keeping the original
// file extension so the object's type stays recognizable.
func objectKey(filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("videos/%d-%s.%s", time.Now().UnixMilli(), uuid.New().String()[:13], ext)
}

// PresignUpload returns a time-bounded PUT URL plus the generated key
func (s *R2Store) PresignUpload(ctx context.Context, filename, contentType string) (string, string, error) {
	key := objectKey(filename)

	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.presignExpiry))

	observability.RecordStorageOperation("presign", err)
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload for %s: %w", filename, err)
	}

	return req.URL, key, nil
}

// Download fetches the object's bytes, retrying transient failures
func (s *R2Store) Download(ctx context.Context, key string) ([]byte, error) {
	var data []byte

	err := resilience.Retry(ctx, func(ctx context.Context) error {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return err
		}
		defer out.Body.Close()

		data, err = io.ReadAll(out.Body)
		return err
	}, s.retryConfig, resilience.IsTransientNetworkError)

	observability.RecordStorageOperation("download", err)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}

	observability.RecordStorageDownload(int64(len(data)))
	return data, nil
}

// Delete removes the object
func (s *R2Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	observability.RecordStorageOperation("delete", err)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}
