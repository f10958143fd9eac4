// Package media brokers time-limited, scope-restricted access to the
// four media classes the platform stores: lecture videos, lecture
// resources, user avatars, and batch cover images. Each class has its
// own bucket, key rule, expiry, and permitted verb; a descriptor signed
// for an upload can never read, and one signed for a view can never
// write, because each is signed for exactly one storage verb.
package media

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/lecternhq/lectern/internal/app/system/keygen"
	"github.com/lecternhq/lectern/internal/app/system/storage"
	"go.uber.org/zap"
)

// Class identifies one of the media classes.
type Class string

const (
	ClassLecture    Class = "lecture"
	ClassResource   Class = "resource"
	ClassAvatar     Class = "avatar"
	ClassBatchCover Class = "batchcover"
)

// Expiry policy per class. Lecture uploads get a longer window because
// video files are large; everything else signs for ten minutes.
const (
	LectureUploadExpiry = 3600 * time.Second
	DefaultUploadExpiry = 600 * time.Second
	ViewExpiry          = 600 * time.Second
)

// Buckets names the storage buckets per media class. Batch covers share
// the avatar bucket.
type Buckets struct {
	Lecture  string
	Resource string
	Avatar   string
}

// Descriptor is an ephemeral, single-verb storage capability. It is
// never persisted; it expires on its own at ExpiresAt and there is no
// revocation. Callers that need the object again later must persist Key
// themselves (e.g. on the lecture or profile record).
type Descriptor struct {
	URL       string    `json:"url"`
	Key       string    `json:"key,omitempty"`
	Method    string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Broker maps (class, request) to (bucket, key, verb, expiry) and has
// the signer issue the capability.
type Broker struct {
	signer  storage.Signer
	buckets Buckets
	log     *zap.Logger
}

// NewBroker constructs a Broker over the given signer and bucket map.
func NewBroker(signer storage.Signer, buckets Buckets, logger *zap.Logger) *Broker {
	return &Broker{signer: signer, buckets: buckets, log: logger}
}

func (b *Broker) bucket(class Class) string {
	switch class {
	case ClassLecture:
		return b.buckets.Lecture
	case ClassResource:
		return b.buckets.Resource
	case ClassAvatar, ClassBatchCover:
		return b.buckets.Avatar
	}
	return ""
}

func uploadExpiry(class Class) time.Duration {
	if class == ClassLecture {
		return LectureUploadExpiry
	}
	return DefaultUploadExpiry
}

// IssueUpload mints a fresh storage key for filename and signs a
// write-scoped capability for it. The key is returned alongside the URL
// so the caller can attach it to the owning record.
func (b *Broker) IssueUpload(ctx context.Context, class Class, filename, contentType string) (Descriptor, error) {
	bucket := b.bucket(class)
	if bucket == "" {
		return Descriptor{}, storage.ErrNotConfigured
	}

	key := keygen.Key(filename)
	expiry := uploadExpiry(class)

	url, err := b.signer.PresignPut(ctx, bucket, key, contentType, expiry)
	if err != nil {
		return Descriptor{}, err
	}

	return Descriptor{
		URL:       url,
		Key:       key,
		Method:    http.MethodPut,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// IssueView signs a read-scoped capability for a caller-supplied key.
// Existence is not checked at signing time; a URL for an absent key
// signs fine and the client's fetch reports the miss.
func (b *Broker) IssueView(ctx context.Context, class Class, key string) (Descriptor, error) {
	bucket := b.bucket(class)
	if bucket == "" {
		return Descriptor{}, storage.ErrNotConfigured
	}

	url, err := b.signer.PresignGet(ctx, bucket, key, ViewExpiry)
	if err != nil {
		return Descriptor{}, err
	}

	return Descriptor{
		URL:       url,
		Method:    http.MethodGet,
		ExpiresAt: time.Now().Add(ViewExpiry),
	}, nil
}

// Stream fetches the object synchronously for proxied delivery (used
// for avatars and batch covers, which are served through this service
// rather than via redirect URLs). Returns storage.ErrNotFound when the
// object body is absent. The caller owns closing the stream.
func (b *Broker) Stream(ctx context.Context, class Class, key string) (io.ReadCloser, string, error) {
	bucket := b.bucket(class)
	if bucket == "" {
		return nil, "", storage.ErrNotConfigured
	}
	return b.signer.Object(ctx, bucket, key)
}
