// internal/app/features/media/routes.go
package mediafeature

import (
	"github.com/go-chi/chi/v5"
	"github.com/lecternhq/lectern/internal/app/media"
)

// MountRoutes mounts the media routes on the given router. Role checks
// on issuance are deferred to the callers that persist the keys; the
// descriptors themselves are the capability.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/lectures/upload-url", h.uploadURL(media.ClassLecture))
	r.Post("/lectures/view-url", h.viewURL(media.ClassLecture))

	r.Post("/resources/view-url", h.viewURL(media.ClassResource))

	r.Post("/avatars/upload-url", h.uploadURL(media.ClassAvatar))
	r.Get("/avatars/view", h.stream(media.ClassAvatar))

	r.Post("/batch-covers/upload-url", h.uploadURL(media.ClassBatchCover))
	r.Get("/batch-covers/view", h.stream(media.ClassBatchCover))
}
