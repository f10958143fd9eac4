package sessionfeature_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	sessionfeature "github.com/lecternhq/lectern/internal/app/features/session"
	"github.com/lecternhq/lectern/internal/app/store/profiles"
	"github.com/lecternhq/lectern/internal/app/system/auth"
	"github.com/lecternhq/lectern/internal/app/system/identity"
	"github.com/lecternhq/lectern/internal/domain/models"
	"go.uber.org/zap"
)

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

func emptyStore(role models.Role) *memStore {
	return &memStore{role: role, profiles: map[string]*models.Profile{}}
}

func newServer(t *testing.T, superAdmins, teachers, students identity.ProfileStore) http.Handler {
	t.Helper()

	resolver := identity.NewResolver(superAdmins, teachers, students, zap.NewNop())
	controller := identity.NewController(resolver)

	sessions, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "lectern_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	h := sessionfeature.NewHandler(controller, sessions, zap.NewNop())
	r := chi.NewRouter()
	r.Route("/session", func(r chi.Router) {
		h.MountRoutes(r)
	})
	return r
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestEstablish_MissingHeaderIs401(t *testing.T) {
	srv := newServer(t,
		emptyStore(models.RoleSuperAdmin),
		emptyStore(models.RoleTeacher),
		emptyStore(models.RoleStudent))

	req := httptest.NewRequest("POST", "/session/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestEstablish_Unregistered(t *testing.T) {
	srv := newServer(t,
		emptyStore(models.RoleSuperAdmin),
		emptyStore(models.RoleTeacher),
		emptyStore(models.RoleStudent))

	req := httptest.NewRequest("POST", "/session/", nil)
	req.Header.Set(auth.IdentityHeader, "id-nobody")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	resp := decodeSession(t, rec)
	if resp["state"] != "unregistered" {
		t.Errorf("state: got %v, want unregistered", resp["state"])
	}
	if resp["redirect"] != identity.RedirectOnboarding {
		t.Errorf("redirect: got %v, want %s", resp["redirect"], identity.RedirectOnboarding)
	}
}

func TestEstablish_StudentAuthorized(t *testing.T) {
	students := emptyStore(models.RoleStudent)
	students.profiles["id-amina"] = &models.Profile{
		IdentityID: "id-amina",
		Role:       models.RoleStudent,
		FullName:   "Amina Diallo",
	}
	srv := newServer(t,
		emptyStore(models.RoleSuperAdmin),
		emptyStore(models.RoleTeacher),
		students)

	req := httptest.NewRequest("POST", "/session/", nil)
	req.Header.Set(auth.IdentityHeader, "id-amina")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	resp := decodeSession(t, rec)
	if resp["state"] != "authorized" {
		t.Errorf("state: got %v, want authorized", resp["state"])
	}
	if resp["role"] != "student" {
		t.Errorf("role: got %v, want student", resp["role"])
	}
	if resp["redirect"] != identity.RedirectStudentHome {
		t.Errorf("redirect: got %v, want %s", resp["redirect"], identity.RedirectStudentHome)
	}
	profile, ok := resp["profile"].(map[string]any)
	if !ok || profile["full_name"] != "Amina Diallo" {
		t.Errorf("profile: got %v", resp["profile"])
	}
}

func TestEstablish_UnapprovedTeacherPends(t *testing.T) {
	teachers := emptyStore(models.RoleTeacher)
	teachers.profiles["id-marco"] = &models.Profile{
		IdentityID: "id-marco",
		Role:       models.RoleTeacher,
		Approved:   false,
	}
	srv := newServer(t,
		emptyStore(models.RoleSuperAdmin),
		teachers,
		emptyStore(models.RoleStudent))

	req := httptest.NewRequest("POST", "/session/", nil)
	req.Header.Set(auth.IdentityHeader, "id-marco")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	resp := decodeSession(t, rec)
	if resp["state"] != "pending_approval" {
		t.Errorf("state: got %v, want pending_approval", resp["state"])
	}
	if resp["redirect"] != identity.RedirectPendingApproval {
		t.Errorf("redirect: got %v, want %s", resp["redirect"], identity.RedirectPendingApproval)
	}
}

func TestCurrent_RoundTripsCookie(t *testing.T) {
	students := emptyStore(models.RoleStudent)
	students.profiles["id-amina"] = &models.Profile{
		IdentityID: "id-amina",
		Role:       models.RoleStudent,
	}
	srv := newServer(t,
		emptyStore(models.RoleSuperAdmin),
		emptyStore(models.RoleTeacher),
		students)

	establish := httptest.NewRequest("POST", "/session/", nil)
	establish.Header.Set(auth.IdentityHeader, "id-amina")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, establish)
	if rec.Code != http.StatusOK {
		t.Fatalf("establish status: got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("establish set no cookie")
	}

	read := httptest.NewRequest("GET", "/session/", nil)
	for _, c := range cookies {
		read.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, read)

	if rec.Code != http.StatusOK {
		t.Fatalf("read status: got %d", rec.Code)
	}
	resp := decodeSession(t, rec)
	if resp["state"] != "authorized" || resp["role"] != "student" {
		t.Errorf("cookie round trip: got state=%v role=%v", resp["state"], resp["role"])
	}
}

func TestCurrent_NoCookieIs401(t *testing.T) {
	srv := newServer(t,
		emptyStore(models.RoleSuperAdmin),
		emptyStore(models.RoleTeacher),
		emptyStore(models.RoleStudent))

	req := httptest.NewRequest("GET", "/session/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestRefresh_SeesNewProfile(t *testing.T) {
	students := emptyStore(models.RoleStudent)
	srv := newServer(t,
		emptyStore(models.RoleSuperAdmin),
		emptyStore(models.RoleTeacher),
		students)

	req := httptest.NewRequest("POST", "/session/", nil)
	req.Header.Set(auth.IdentityHeader, "id-new")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if resp := decodeSession(t, rec); resp["state"] != "unregistered" {
		t.Fatalf("pre-registration state: got %v", resp["state"])
	}

	// Registration happens out of band; refresh must see it at once.
	students.profiles["id-new"] = &models.Profile{
		IdentityID: "id-new",
		Role:       models.RoleStudent,
	}

	req = httptest.NewRequest("POST", "/session/refresh", nil)
	req.Header.Set(auth.IdentityHeader, "id-new")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if resp := decodeSession(t, rec); resp["state"] != "authorized" {
		t.Errorf("post-registration state: got %v, want authorized", resp["state"])
	}
}

func TestClear_DropsCookie(t *testing.T) {
	srv := newServer(t,
		emptyStore(models.RoleSuperAdmin),
		emptyStore(models.RoleTeacher),
		emptyStore(models.RoleStudent))

	req := httptest.NewRequest("DELETE", "/session/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rec.Code)
	}
}
