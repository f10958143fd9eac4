package notificationsfeature_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	notificationsfeature "github.com/lecternhq/lectern/internal/app/features/notifications"
	"github.com/lecternhq/lectern/internal/app/store/profiles"
	"github.com/lecternhq/lectern/internal/app/system/auth"
	"github.com/lecternhq/lectern/internal/app/system/identity"
	"github.com/lecternhq/lectern/internal/domain/models"
	"go.uber.org/zap"
)

// These tests cover the auth and validation paths that short-circuit
// before the store; store behavior is covered by the Mongo-backed store
// tests.

type memStore struct {
	role     models.Role
	profiles map[string]*models.Profile
}

func (s *memStore) Role() models.Role { return s.role }

func (s *memStore) FindByIdentity(_ context.Context, identityID string) (*models.Profile, error) {
	if p, ok := s.profiles[identityID]; ok {
		return p, nil
	}
	return nil, profilestore.ErrNotFound
}

func newServer(t *testing.T, profiles ...*models.Profile) http.Handler {
	t.Helper()

	admins := &memStore{role: models.RoleSuperAdmin, profiles: map[string]*models.Profile{}}
	teachers := &memStore{role: models.RoleTeacher, profiles: map[string]*models.Profile{}}
	students := &memStore{role: models.RoleStudent, profiles: map[string]*models.Profile{}}
	for _, p := range profiles {
		switch p.Role {
		case models.RoleSuperAdmin:
			admins.profiles[p.IdentityID] = p
		case models.RoleTeacher:
			teachers.profiles[p.IdentityID] = p
		default:
			students.profiles[p.IdentityID] = p
		}
	}

	resolver := identity.NewResolver(admins, teachers, students, zap.NewNop())
	controller := identity.NewController(resolver)

	h := notificationsfeature.NewHandler(nil, controller, zap.NewNop())
	r := chi.NewRouter()
	r.Route("/notifications", func(r chi.Router) {
		h.MountRoutes(r)
	})
	return r
}

func TestList_MissingHeaderIs401(t *testing.T) {
	srv := newServer(t)

	req := httptest.NewRequest("GET", "/notifications/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestCreate_StudentIsForbidden(t *testing.T) {
	srv := newServer(t, &models.Profile{
		IdentityID: "id-student",
		Role:       models.RoleStudent,
	})

	body := strings.NewReader(`{"identity_id":"id-x","title":"hi"}`)
	req := httptest.NewRequest("POST", "/notifications/", body)
	req.Header.Set(auth.IdentityHeader, "id-student")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}

func TestCreate_UnregisteredIsForbidden(t *testing.T) {
	srv := newServer(t)

	body := strings.NewReader(`{"identity_id":"id-x","title":"hi"}`)
	req := httptest.NewRequest("POST", "/notifications/", body)
	req.Header.Set(auth.IdentityHeader, "id-nobody")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}

func TestCreate_AdminWithBadBodyIs400(t *testing.T) {
	srv := newServer(t, &models.Profile{
		IdentityID: "id-admin",
		Role:       models.RoleSuperAdmin,
	})

	req := httptest.NewRequest("POST", "/notifications/", strings.NewReader(`{}`))
	req.Header.Set(auth.IdentityHeader, "id-admin")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestMarkRead_InvalidIDIs400(t *testing.T) {
	srv := newServer(t)

	req := httptest.NewRequest("POST", "/notifications/not-an-oid/read", nil)
	req.Header.Set(auth.IdentityHeader, "id-anyone")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}
