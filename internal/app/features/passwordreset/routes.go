// internal/app/features/passwordreset/routes.go
package passwordreset

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the password-reset routes on the given router.
// Both endpoints are pre-auth by nature; no identity middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.request)
	r.Post("/confirm", h.confirm)
}
