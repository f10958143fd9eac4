// Package storage wraps the object-storage provider behind a small
// signer interface. The concrete S3 implementation is injected at
// startup; handlers and the media broker only ever see the interface,
// which keeps tests free of AWS machinery.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotConfigured is returned when the target bucket or the
	// provider credentials are missing from configuration.
	ErrNotConfigured = errors.New("storage: bucket or credentials not configured")

	// ErrNotFound is returned when a requested object has no body.
	// Only the synchronous Object path can observe this; signing never
	// validates existence.
	ErrNotFound = errors.New("storage: object not found")

	// ErrUpstream is returned when the provider rejects a request for
	// any other reason. It is never retried here.
	ErrUpstream = errors.New("storage: provider request failed")
)

// Unconfigured is the Signer used when no provider credentials are
// present. Every call fails with ErrNotConfigured, so media endpoints
// stay mounted and answer deterministically instead of panicking.
type Unconfigured struct{}

func (Unconfigured) PresignPut(context.Context, string, string, string, time.Duration) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) PresignGet(context.Context, string, string, time.Duration) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) Object(context.Context, string, string) (io.ReadCloser, string, error) {
	return nil, "", ErrNotConfigured
}

// Signer issues time-boxed, single-verb capabilities against one
// storage provider, and fetches objects synchronously for proxied
// delivery.
type Signer interface {
	// PresignPut returns a URL that allows exactly one verb (PUT) on
	// bucket/key with the given content type, valid for expiry.
	PresignPut(ctx context.Context, bucket, key, contentType string, expiry time.Duration) (string, error)

	// PresignGet returns a URL that allows exactly one verb (GET) on
	// bucket/key, valid for expiry. The key is not checked for
	// existence; a URL for an absent object signs fine and fails only
	// when fetched.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)

	// Object fetches bucket/key and returns the body stream and the
	// stored content type ("" when the provider recorded none). The
	// caller owns closing the body.
	Object(ctx context.Context, bucket, key string) (io.ReadCloser, string, error)
}
