// internal/app/features/notifications/routes.go
package notificationsfeature

import (
	"github.com/go-chi/chi/v5"
	"github.com/lecternhq/lectern/internal/app/system/auth"
)

// MountRoutes mounts the notification routes on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(auth.RequireIdentity)
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/{id}/read", h.markRead)
}
