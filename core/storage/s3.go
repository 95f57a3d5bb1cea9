package storage

import (
	"bytes"
	"context"
	"fmt"

	cfg "recruitsync/core/config"
	"recruitsync/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PayloadArchive stores raw provider payloads for replay and debugging.
// A nil *PayloadArchive is a valid disabled archive.
type PayloadArchive struct {
	client *s3.Client
	bucket string
}

// NewArchive returns nil (disabled) when no bucket is configured.
func NewArchive(ctx context.Context, archiveCfg cfg.ArchiveConfig) (*PayloadArchive, error) {
	if archiveCfg.S3Bucket == "" {
		logger.Info("Storage:NewArchive:Disabled", "reason", "no archive bucket configured")
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(archiveCfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("Storage:NewArchive:Enabled", "bucket", archiveCfg.S3Bucket, "region", archiveCfg.S3Region)
	return &PayloadArchive{
		client: s3.NewFromConfig(awsCfg),
		bucket: archiveCfg.S3Bucket,
	}, nil
}

// Store writes one raw payload. Archive failures are logged, never propagated:
// losing an archive copy must not affect an import.
func (a *PayloadArchive) Store(ctx context.Context, key string, body []byte) {
	if a == nil {
		return
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		logger.Error("Storage:PayloadArchive:Store:Error", "error", err, "key", key)
	}
}
