// internal/app/system/auth/sessionmanager.go
package auth

import (
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/lecternhq/lectern/internal/app/system/identity"
	"github.com/lecternhq/lectern/internal/domain/models"
	"go.uber.org/zap"
)

const (
	identityIDKey = "identity_id"
	stateKey      = "session_state"
	roleKey       = "session_role"
	redirectKey   = "session_redirect"
)

// SessionManager persists the resolved session state in a signed
// cookie. The cookie is a convenience copy only: establish and refresh
// always re-run the full resolver probe, so the authoritative state is
// whatever the profile stores say at the moment of the call.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager initializes the cookie store with the given signing
// key and domain. The secure flag controls Secure/SameSite handling: in
// production cookies are Secure + SameSite=None, in local dev Lax.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Save writes the resolved session state into the cookie.
func (m *SessionManager) Save(w http.ResponseWriter, r *http.Request, sess identity.Session) error {
	s, err := m.get(r)
	if err != nil {
		return err
	}

	s.Values[identityIDKey] = sess.IdentityID
	s.Values[stateKey] = string(sess.State)
	s.Values[roleKey] = string(sess.Role)
	s.Values[redirectKey] = sess.Redirect
	return s.Save(r, w)
}

// Load reads the cached session state from the cookie. The profile is
// not cached; callers needing profile fields re-resolve.
func (m *SessionManager) Load(r *http.Request) (identity.Session, bool) {
	s, err := m.get(r)
	if err != nil {
		return identity.Session{}, false
	}

	id, _ := s.Values[identityIDKey].(string)
	if id == "" {
		return identity.Session{}, false
	}
	state, _ := s.Values[stateKey].(string)
	role, _ := s.Values[roleKey].(string)
	redirect, _ := s.Values[redirectKey].(string)

	return identity.Session{
		IdentityID: id,
		State:      identity.State(state),
		Role:       models.Role(role),
		Redirect:   redirect,
	}, true
}

// Clear drops the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) {
	s, err := m.get(r)
	if err != nil {
		return
	}
	s.Options.MaxAge = -1
	_ = s.Save(r, w)
}

// get fetches the named session, recovering from undecodable cookies
// (e.g. after a session-key rotation) by starting a fresh one.
func (m *SessionManager) get(r *http.Request) (*sessions.Session, error) {
	s, err := m.store.Get(r, m.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Debug("session cookie undecodable, starting fresh", zap.Error(err))
			return m.store.New(r, m.name)
		}
		return nil, err
	}
	return s, nil
}
