package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lecternhq/lectern/internal/app/system/auth"
)

func TestRequireIdentity_MissingHeader(t *testing.T) {
	called := false
	handler := auth.RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/notifications", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("next handler must not run without an identity header")
	}
}

func TestRequireIdentity_InjectsIdentity(t *testing.T) {
	var gotID string
	handler := auth.RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = auth.CurrentIdentity(r)
	}))

	req := httptest.NewRequest("GET", "/notifications", nil)
	req.Header.Set(auth.IdentityHeader, "subject-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if gotID != "subject-123" {
		t.Errorf("identity: got %q, want subject-123", gotID)
	}
}

func TestCurrentIdentity_AbsentByDefault(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.CurrentIdentity(req); ok {
		t.Error("expected no identity on a bare request")
	}
}

func TestWithTestIdentity(t *testing.T) {
	req := auth.WithTestIdentity(httptest.NewRequest("GET", "/", nil), "subject-9")
	id, ok := auth.CurrentIdentity(req)
	if !ok || id != "subject-9" {
		t.Errorf("got (%q, %v), want (subject-9, true)", id, ok)
	}
}
