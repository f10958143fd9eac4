// Package mediafeature exposes the media access broker over HTTP:
// upload/view descriptor issuance for lecture videos and resources, and
// proxied streaming for avatars and batch cover images.
package mediafeature

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/lecternhq/lectern/internal/app/media"
	"github.com/lecternhq/lectern/internal/app/system/storage"
	"github.com/lecternhq/lectern/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Avatars and batch covers are immutable once uploaded (a new upload
// gets a new key), so proxied responses can be cached hard.
const cacheForever = "public, max-age=31536000, immutable"

// Handler owns all media handlers.
type Handler struct {
	Broker *media.Broker
	Log    *zap.Logger
}

// NewHandler constructs a media Handler.
func NewHandler(broker *media.Broker, logger *zap.Logger) *Handler {
	return &Handler{Broker: broker, Log: logger}
}

type uploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

type viewRequest struct {
	S3Key string `json:"s3Key"`
}

// uploadURL issues a write-scoped descriptor for the given class.
func (h *Handler) uploadURL(class media.Class) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req uploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" || req.ContentType == "" {
			http.Error(w, "filename and contentType are required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
		defer cancel()

		desc, err := h.Broker.IssueUpload(ctx, class, req.Filename, req.ContentType)
		if err != nil {
			h.Log.Error("upload descriptor issuance failed",
				zap.String("class", string(class)),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"url": desc.URL,
			"key": desc.Key,
		})
	}
}

// viewURL issues a read-scoped descriptor for a caller-supplied key.
// The key is not checked for existence; an absent object fails at the
// client's fetch, not here.
func (h *Handler) viewURL(class media.Class) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req viewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.S3Key == "" {
			http.Error(w, "s3Key is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
		defer cancel()

		desc, err := h.Broker.IssueView(ctx, class, req.S3Key)
		if err != nil {
			h.Log.Error("view descriptor issuance failed",
				zap.String("class", string(class)),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"url": desc.URL})
	}
}

// stream proxies the object through this service instead of handing out
// a URL. Used for avatars and batch covers, which browsers load from
// <img> tags where a redirect URL per view would defeat caching.
func (h *Handler) stream(class media.Class) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("s3Key")
		if key == "" {
			http.Error(w, "s3Key query parameter is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
		defer cancel()

		body, contentType, err := h.Broker.Stream(ctx, class, key)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			h.Log.Error("object stream failed",
				zap.String("class", string(class)),
				zap.String("key", key),
				zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer body.Close()

		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", cacheForever)

		if _, err := io.Copy(w, body); err != nil {
			// Headers are gone; all we can do is log.
			h.Log.Warn("object stream interrupted",
				zap.String("key", key),
				zap.Error(err))
		}
	}
}
