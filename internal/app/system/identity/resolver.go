// Package identity resolves an authenticated identity into its
// role-tagged profile and drives the session state machine built on top
// of that resolution.
package identity

import (
	"context"
	"errors"

	"github.com/lecternhq/lectern/internal/app/store/profiles"
	"github.com/lecternhq/lectern/internal/domain/models"
	"go.uber.org/zap"
)

// ErrUnregistered is returned when no profile store holds a record for
// the identity. The caller routes toward onboarding.
var ErrUnregistered = errors.New("identity has no registered profile")

// ProfileStore is the capability the resolver probes. Each role's
// collection provides one variant; profilestore.Store satisfies it.
type ProfileStore interface {
	Role() models.Role
	FindByIdentity(ctx context.Context, identityID string) (*models.Profile, error)
}

// Resolver probes profile stores in a declared priority order and
// returns the first match.
//
// The order is a deliberate tie-break: if an identity were erroneously
// present in more than one store, the highest-privilege role wins, so a
// bad write can never silently demote anyone. The probe is sequential;
// each store is a single indexed point read.
type Resolver struct {
	stores []ProfileStore
	log    *zap.Logger
}

// NewResolver builds a Resolver with the fixed precedence
// super-admin → teacher → student.
func NewResolver(superAdmins, teachers, students ProfileStore, logger *zap.Logger) *Resolver {
	return &Resolver{
		stores: []ProfileStore{superAdmins, teachers, students},
		log:    logger,
	}
}

// Resolve returns the profile registered under identityID, or
// ErrUnregistered when no store holds one.
//
// A store that fails to answer is logged and treated as a miss rather
// than surfaced: degrading to the onboarding path keeps login available
// when a single collection is unhealthy. Resolution is read-only and
// idempotent; it is safe to repeat at any time.
func (r *Resolver) Resolve(ctx context.Context, identityID string) (*models.Profile, error) {
	for _, store := range r.stores {
		p, err := store.FindByIdentity(ctx, identityID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, profilestore.ErrNotFound) {
			r.log.Error("profile store probe failed",
				zap.String("role", string(store.Role())),
				zap.String("identity_id", identityID),
				zap.Error(err))
		}
	}
	return nil, ErrUnregistered
}
