// internal/app/system/storage/s3.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 implements Signer against AWS S3 (or any S3-compatible endpoint).
type S3 struct {
	client  *s3.Client
	presign *s3.PresignClient
}

// NewS3 builds an S3 signer for the given region and static credentials.
// Returns ErrNotConfigured when any of the three values is empty.
func NewS3(ctx context.Context, region, accessKeyID, secretAccessKey string) (*S3, error) {
	if region == "" || accessKeyID == "" || secretAccessKey == "" {
		return nil, ErrNotConfigured
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3{
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

// PresignPut signs a write-scoped URL for bucket/key.
func (s *S3) PresignPut(ctx context.Context, bucket, key, contentType string, expiry time.Duration) (string, error) {
	if bucket == "" {
		return "", ErrNotConfigured
	}

	out, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("%w: presign put %s/%s: %v", ErrUpstream, bucket, key, err)
	}
	return out.URL, nil
}

// PresignGet signs a read-scoped URL for bucket/key.
func (s *S3) PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if bucket == "" {
		return "", ErrNotConfigured
	}

	out, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("%w: presign get %s/%s: %v", ErrUpstream, bucket, key, err)
	}
	return out.URL, nil
}

// Object fetches bucket/key synchronously for proxied delivery.
func (s *S3) Object(ctx context.Context, bucket, key string) (io.ReadCloser, string, error) {
	if bucket == "" {
		return nil, "", ErrNotConfigured
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: get %s/%s: %v", ErrUpstream, bucket, key, err)
	}
	if out.Body == nil {
		return nil, "", ErrNotFound
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return out.Body, contentType, nil
}
