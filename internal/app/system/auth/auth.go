// Package auth carries the request identity contract. An upstream
// gateway authenticates the caller against the hosted auth provider and
// injects the subject id in the X-User-Id header; this service trusts
// that header and never sees credentials.
package auth

import (
	"context"
	"net/http"
)

// IdentityHeader is the header the gateway injects with the
// authenticated identity's unique id.
const IdentityHeader = "X-User-Id"

type ctxKey string

const identityKey ctxKey = "identityID"

// CurrentIdentity returns the identity id injected for this request and
// a found flag.
func CurrentIdentity(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(identityKey).(string)
	return id, ok && id != ""
}

// RequireIdentity rejects requests missing the identity header with a
// plain 401 and injects the id into the request context otherwise.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(IdentityHeader)
		if id == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	})
}

// WithTestIdentity injects an identity id into the request context.
// Test helper for exercising handlers without the middleware chain.
func WithTestIdentity(r *http.Request, identityID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, identityID))
}
