// internal/app/features/session/routes.go
package sessionfeature

import (
	"github.com/go-chi/chi/v5"
	"github.com/lecternhq/lectern/internal/app/system/auth"
)

// MountRoutes mounts the session routes on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireIdentity)
		r.Post("/", h.establish)
		r.Post("/refresh", h.refresh)
	})
	r.Get("/", h.current)
	r.Delete("/", h.clear)
}
