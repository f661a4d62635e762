package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"clicktrack/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfgLib "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the slice of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores debug log archives (gzip JSONL) in a bucket.
// Each upload is a single attempt bounded by ArchiveTimeout.
type S3Uploader struct {
	cfg    config.Config
	client PutObjectAPI
	now    func() time.Time
}

// NewS3Uploader loads the default AWS config for cfg.ArchiveRegion.
func NewS3Uploader(ctx context.Context, cfg config.Config) (*S3Uploader, error) {
	var opts []func(*awsCfgLib.LoadOptions) error
	if cfg.ArchiveRegion != "" {
		opts = append(opts, awsCfgLib.WithRegion(cfg.ArchiveRegion))
	}
	awsCfg, err := awsCfgLib.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.RetryMaxAttempts = 1
	})
	return NewS3UploaderWithClient(cfg, client), nil
}

func NewS3UploaderWithClient(cfg config.Config, client PutObjectAPI) *S3Uploader {
	return &S3Uploader{cfg: cfg, client: client, now: time.Now}
}

// Upload stores data under a fresh partitioned key and returns the key.
func (u *S3Uploader) Upload(ctx context.Context, data []byte) (string, error) {
	now := u.now()
	key := BuildKey(now, u.cfg.ArchivePrefix, NewFilename(now, u.cfg.InstanceID))

	if u.cfg.ArchiveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.cfg.ArchiveTimeout)
		defer cancel()
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(u.cfg.ArchiveBucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(data),
		ContentLength:   aws.Int64(int64(len(data))),
		ContentType:     aws.String("application/x-ndjson"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", u.cfg.ArchiveBucket, key, err)
	}
	return key, nil
}
