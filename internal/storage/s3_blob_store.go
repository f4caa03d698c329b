package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"go.uber.org/zap"
)

// S3Options configures an S3BlobStore
type S3Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	URLTTL       time.Duration
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3BlobStore stores documents in an S3 compatible bucket and hands out
// presigned GET URLs
type S3BlobStore struct {
	bucket    string
	urlTTL    time.Duration
	client    objectPutter
	presigner objectPresigner
	logger    *logging.SafeLogger
}

// NewS3BlobStore builds the S3 client. A base endpoint switches to path-style
// addressing so MinIO and other S3 compatible servers work.
func NewS3BlobStore(ctx context.Context, opts S3Options, logger *logging.SafeLogger) (*S3BlobStore, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3BlobStore(opts.Bucket, opts.URLTTL, client, s3.NewPresignClient(client), logger), nil
}

func newS3BlobStore(bucket string, urlTTL time.Duration, client objectPutter, presigner objectPresigner, logger *logging.SafeLogger) *S3BlobStore {
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}
	return &S3BlobStore{
		bucket:    bucket,
		urlTTL:    urlTTL,
		client:    client,
		presigner: presigner,
		logger:    logger.Named("s3_blob_store"),
	}
}

func (s *S3BlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (BlobRef, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("failed to upload object",
			zap.String("bucket", s.bucket),
			zap.String("path", path),
			zap.Error(err))
		return BlobRef{}, fmt.Errorf("failed to upload %s: %w", path, err)
	}

	return BlobRef{Path: path, ContentType: contentType, Size: int64(len(data))}, nil
}

func (s *S3BlobStore) URL(ctx context.Context, ref BlobRef) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref.Path),
	}, s3.WithPresignExpires(s.urlTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", ref.Path, err)
	}
	return req.URL, nil
}
