// Package passwordreset implements the email-based reset flow. The
// request endpoint is enumeration-safe: it answers identically whether
// or not the address belongs to a profile, and only the email itself
// reveals the outcome.
package passwordreset

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lecternhq/lectern/internal/app/store/profiles"
	"github.com/lecternhq/lectern/internal/app/system/mailer"
	"github.com/lecternhq/lectern/internal/app/system/timeouts"
	"github.com/lecternhq/lectern/internal/domain/models"
	"go.uber.org/zap"
)

// ProfileFinder locates a profile by email within one role's collection.
type ProfileFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
}

// TokenStore mints and redeems reset tokens.
type TokenStore interface {
	Issue(ctx context.Context, identityID, email string) (string, error)
	Consume(ctx context.Context, identityID, token string) error
}

// Sender delivers outbound email.
type Sender interface {
	Send(e mailer.Email) error
}

// Handler owns the password-reset handlers.
type Handler struct {
	Finders  []ProfileFinder
	Tokens   TokenStore
	Mail     Sender
	SiteName string
	BaseURL  string
	Log      *zap.Logger
}

// NewHandler constructs a password-reset Handler. Finders are probed in
// order; the first email match wins.
func NewHandler(finders []ProfileFinder, tokens TokenStore, mail Sender, siteName, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Finders:  finders,
		Tokens:   tokens,
		Mail:     mail,
		SiteName: siteName,
		BaseURL:  baseURL,
		Log:      logger,
	}
}

type requestBody struct {
	Email string `json:"email"`
}

type confirmBody struct {
	IdentityID string `json:"identity_id"`
	Token      string `json:"token"`
}

// request accepts an email address and, when it belongs to a profile,
// mails a reset link. The response never varies with the lookup
// outcome.
func (h *Handler) request(w http.ResponseWriter, r *http.Request) {
	var req requestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if p := h.findByEmail(ctx, email); p != nil {
		h.issueAndSend(ctx, p, email)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": "If that address belongs to an account, a reset link is on its way.",
	})
}

// confirm redeems a reset token. The token is single-use; redeeming it
// again, or after expiry, fails with the same generic message.
func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IdentityID == "" || req.Token == "" {
		http.Error(w, "identity_id and token are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if err := h.Tokens.Consume(ctx, req.IdentityID, req.Token); err != nil {
		// Expired, unknown, and mismatched tokens all read the same.
		http.Error(w, "invalid or expired reset link", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) findByEmail(ctx context.Context, email string) *models.Profile {
	for _, f := range h.Finders {
		p, err := f.FindByEmail(ctx, email)
		if err == nil {
			return p
		}
		if err != profilestore.ErrNotFound {
			h.Log.Error("profile email lookup failed", zap.Error(err))
		}
	}
	return nil
}

func (h *Handler) issueAndSend(ctx context.Context, p *models.Profile, email string) {
	token, err := h.Tokens.Issue(ctx, p.IdentityID, email)
	if err != nil {
		h.Log.Error("reset token issue failed",
			zap.String("identity_id", p.IdentityID),
			zap.Error(err))
		return
	}

	msg := mailer.BuildResetEmail(mailer.ResetEmailData{
		SiteName:  h.SiteName,
		ResetLink: h.BaseURL + "/password-reset/confirm?identity=" + p.IdentityID + "&token=" + token,
		ExpiresIn: "15 minutes",
	})
	msg.To = email

	if err := h.Mail.Send(msg); err != nil {
		h.Log.Error("reset email send failed",
			zap.String("identity_id", p.IdentityID),
			zap.Error(err))
	}
}
