// Package sessionfeature exposes session establishment and refresh.
// Establishment runs the full identity resolution against the profile
// stores; the cookie only caches the outcome for cheap reads.
package sessionfeature

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lecternhq/lectern/internal/app/system/auth"
	"github.com/lecternhq/lectern/internal/app/system/identity"
	"github.com/lecternhq/lectern/internal/app/system/timeouts"
	"github.com/lecternhq/lectern/internal/domain/models"
	"go.uber.org/zap"
)

// Handler owns the session handlers.
type Handler struct {
	Controller *identity.Controller
	Sessions   *auth.SessionManager
	Log        *zap.Logger
}

// NewHandler constructs a session Handler.
func NewHandler(controller *identity.Controller, sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Controller: controller, Sessions: sessions, Log: logger}
}

type sessionResponse struct {
	State    identity.State  `json:"state"`
	Role     models.Role     `json:"role,omitempty"`
	Profile  *models.Profile `json:"profile,omitempty"`
	Redirect string          `json:"redirect"`
}

// establish resolves the caller's identity against all profile stores
// and persists the outcome in the session cookie.
func (h *Handler) establish(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	sess := h.Controller.Establish(ctx, id)
	if err := h.Sessions.Save(w, r, sess); err != nil {
		h.Log.Error("session save failed",
			zap.String("identity_id", id),
			zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeSession(w, sess)
}

// current reads the cached session from the cookie. The profile is not
// cached, so the response carries state/role/redirect only; clients
// needing fresh profile fields call refresh.
func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Load(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeSession(w, sess)
}

// refresh re-runs the full resolution. A profile created or approved
// since the last establish is visible immediately; there is no cached
// negative to expire.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	sess := h.Controller.Establish(ctx, id)
	if err := h.Sessions.Save(w, r, sess); err != nil {
		h.Log.Error("session save failed",
			zap.String("identity_id", id),
			zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeSession(w, sess)
}

// clear drops the session cookie.
func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func writeSession(w http.ResponseWriter, sess identity.Session) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sessionResponse{
		State:    sess.State,
		Role:     sess.Role,
		Profile:  sess.Profile,
		Redirect: sess.Redirect,
	})
}
