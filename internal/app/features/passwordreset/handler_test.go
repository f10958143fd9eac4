package passwordreset_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lecternhq/lectern/internal/app/features/passwordreset"
	"github.com/lecternhq/lectern/internal/app/store/profiles"
	"github.com/lecternhq/lectern/internal/app/system/mailer"
	"github.com/lecternhq/lectern/internal/domain/models"
	"go.uber.org/zap"
)

type emailStore struct {
	byEmail map[string]*models.Profile
}

func (s *emailStore) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	if p, ok := s.byEmail[email]; ok {
		return p, nil
	}
	return nil, profilestore.ErrNotFound
}

type fakeTokens struct {
	issued     []string // identity ids tokens were issued for
	consumeErr error
	consumed   []string
}

func (f *fakeTokens) Issue(_ context.Context, identityID, _ string) (string, error) {
	f.issued = append(f.issued, identityID)
	return "tok-" + identityID, nil
}

func (f *fakeTokens) Consume(_ context.Context, identityID, _ string) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	f.consumed = append(f.consumed, identityID)
	return nil
}

type fakeMailer struct {
	sent []mailer.Email
}

func (f *fakeMailer) Send(e mailer.Email) error {
	f.sent = append(f.sent, e)
	return nil
}

func newServer(tokens *fakeTokens, mail *fakeMailer, profiles ...*models.Profile) http.Handler {
	store := &emailStore{byEmail: map[string]*models.Profile{}}
	for _, p := range profiles {
		store.byEmail[p.Email] = p
	}

	h := passwordreset.NewHandler(
		[]passwordreset.ProfileFinder{store},
		tokens, mail,
		"Lectern", "https://lectern.example.com",
		zap.NewNop())

	r := chi.NewRouter()
	r.Route("/password-reset", func(r chi.Router) {
		h.MountRoutes(r)
	})
	return r
}

func TestRequest_KnownAndUnknownEmailsAnswerIdentically(t *testing.T) {
	tokens := &fakeTokens{}
	mail := &fakeMailer{}
	srv := newServer(tokens, mail, &models.Profile{
		IdentityID: "id-amina",
		Email:      "amina@example.com",
	})

	post := func(email string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/password-reset/",
			strings.NewReader(`{"email":"`+email+`"}`))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	known := post("amina@example.com")
	unknown := post("nobody@example.com")

	if known.Code != http.StatusAccepted || unknown.Code != http.StatusAccepted {
		t.Fatalf("status: known=%d unknown=%d, want both 202", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Errorf("response bodies differ:\nknown:   %q\nunknown: %q",
			known.Body.String(), unknown.Body.String())
	}

	if len(tokens.issued) != 1 || tokens.issued[0] != "id-amina" {
		t.Errorf("issued tokens: got %v, want exactly [id-amina]", tokens.issued)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("sent emails: got %d, want 1", len(mail.sent))
	}
	if mail.sent[0].To != "amina@example.com" {
		t.Errorf("email recipient: got %q", mail.sent[0].To)
	}
	if !strings.Contains(mail.sent[0].TextBody, "tok-id-amina") {
		t.Error("reset email does not carry the issued token")
	}
}

func TestRequest_EmailIsNormalized(t *testing.T) {
	tokens := &fakeTokens{}
	mail := &fakeMailer{}
	srv := newServer(tokens, mail, &models.Profile{
		IdentityID: "id-amina",
		Email:      "amina@example.com",
	})

	req := httptest.NewRequest("POST", "/password-reset/",
		strings.NewReader(`{"email":"  Amina@Example.COM "}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if len(tokens.issued) != 1 {
		t.Errorf("issued tokens: got %v, want one for the folded address", tokens.issued)
	}
}

func TestRequest_MissingEmailIs400(t *testing.T) {
	srv := newServer(&fakeTokens{}, &fakeMailer{})

	req := httptest.NewRequest("POST", "/password-reset/", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestConfirm_ValidToken(t *testing.T) {
	tokens := &fakeTokens{}
	srv := newServer(tokens, &fakeMailer{})

	req := httptest.NewRequest("POST", "/password-reset/confirm",
		strings.NewReader(`{"identity_id":"id-amina","token":"tok-id-amina"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rec.Code)
	}
	if len(tokens.consumed) != 1 {
		t.Errorf("consumed: got %v", tokens.consumed)
	}
}

func TestConfirm_BadTokenIsGeneric400(t *testing.T) {
	tokens := &fakeTokens{consumeErr: errors.New("bcrypt mismatch: stored hash abc123")}
	srv := newServer(tokens, &fakeMailer{})

	req := httptest.NewRequest("POST", "/password-reset/confirm",
		strings.NewReader(`{"identity_id":"id-amina","token":"wrong"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "bcrypt") {
		t.Errorf("error detail leaked: %q", rec.Body.String())
	}
}

func TestConfirm_MissingFieldsIs400(t *testing.T) {
	srv := newServer(&fakeTokens{}, &fakeMailer{})

	req := httptest.NewRequest("POST", "/password-reset/confirm",
		strings.NewReader(`{"token":"t"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}
