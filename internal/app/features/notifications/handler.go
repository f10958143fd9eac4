// Package notificationsfeature exposes per-identity notifications.
// Listing and marking-read are self-service; creation is a super-admin
// capability used to broadcast platform messages.
package notificationsfeature

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lecternhq/lectern/internal/app/store/notifications"
	"github.com/lecternhq/lectern/internal/app/system/auth"
	"github.com/lecternhq/lectern/internal/app/system/htmlsanitize"
	"github.com/lecternhq/lectern/internal/app/system/identity"
	"github.com/lecternhq/lectern/internal/app/system/timeouts"
	"github.com/lecternhq/lectern/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler owns the notification handlers.
type Handler struct {
	Store      *notificationstore.Store
	Controller *identity.Controller
	Log        *zap.Logger
}

// NewHandler constructs a notifications Handler.
func NewHandler(store *notificationstore.Store, controller *identity.Controller, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Controller: controller, Log: logger}
}

// list returns the caller's notifications, newest first.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	items, err := h.Store.ListForIdentity(ctx, id)
	if err != nil {
		h.Log.Error("notification list failed",
			zap.String("identity_id", id),
			zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(items)
}

type createRequest struct {
	IdentityID string `json:"identity_id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// create inserts a notification for a target identity. Super-admins
// only; body HTML is sanitized before it is stored.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	sess := h.Controller.Establish(ctx, id)
	if sess.State != identity.StateAuthorized || sess.Role != models.RoleSuperAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IdentityID == "" || req.Title == "" {
		http.Error(w, "identity_id and title are required", http.StatusBadRequest)
		return
	}

	n, err := h.Store.Create(ctx, notificationstore.CreateInput{
		IdentityID: req.IdentityID,
		Title:      req.Title,
		Body:       htmlsanitize.Sanitize(req.Body),
	})
	if err != nil {
		h.Log.Error("notification create failed",
			zap.String("target_identity_id", req.IdentityID),
			zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(n)
}

// markRead flags one of the caller's notifications as read.
func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if err := h.Store.MarkRead(ctx, oid, id); err != nil {
		if errors.Is(err, notificationstore.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.Log.Error("notification mark-read failed",
			zap.String("identity_id", id),
			zap.String("notification_id", oid.Hex()),
			zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
