// internal/app/system/identity/session.go
package identity

import (
	"context"

	"github.com/lecternhq/lectern/internal/domain/models"
)

// State is the session/role state reached after resolution.
type State string

const (
	// StateUnregistered means no profile store holds the identity; the
	// client should be routed to onboarding. The state is terminal until
	// an external registration flow creates a profile.
	StateUnregistered State = "unregistered"

	// StatePendingApproval is reached only by teachers whose approval
	// flag is still false. Teacher features stay gated until a
	// super-admin flips the flag.
	StatePendingApproval State = "pending_approval"

	// StateAuthorized means the identity resolved to a usable profile.
	StateAuthorized State = "authorized"
)

// Redirect targets per post-resolution state.
const (
	RedirectOnboarding      = "/onboarding"
	RedirectPendingApproval = "/pending-approval"
	RedirectStudentHome     = "/student/dashboard"
	RedirectTeacherHome     = "/teacher/dashboard"
	RedirectAdminHome       = "/admin/dashboard"
)

// Session is the resolved state handed to the rest of the system. It is
// an explicit value computed by a full resolver pass, never patched
// incrementally, so it is exactly as fresh as the backing stores were
// at the moment of the call.
type Session struct {
	IdentityID string
	State      State
	Role       models.Role
	Profile    *models.Profile
	Redirect   string
}

// Controller turns resolver output into session state and the
// post-resolution redirect decision.
type Controller struct {
	resolver *Resolver
}

// NewController builds a Controller over the given resolver.
func NewController(resolver *Resolver) *Controller {
	return &Controller{resolver: resolver}
}

// Establish runs the full profile probe for identityID and classifies
// the outcome. Re-resolution after profile creation or approval calls
// this same function again; there is no incremental path.
func (c *Controller) Establish(ctx context.Context, identityID string) Session {
	p, err := c.resolver.Resolve(ctx, identityID)
	if err != nil {
		// Includes probe failures: resolution degrades to onboarding
		// rather than blocking the session (see Resolver.Resolve).
		return Session{
			IdentityID: identityID,
			State:      StateUnregistered,
			Redirect:   RedirectOnboarding,
		}
	}

	if p.Role == models.RoleTeacher && !p.Approved {
		return Session{
			IdentityID: identityID,
			State:      StatePendingApproval,
			Role:       p.Role,
			Profile:    p,
			Redirect:   RedirectPendingApproval,
		}
	}

	return Session{
		IdentityID: identityID,
		State:      StateAuthorized,
		Role:       p.Role,
		Profile:    p,
		Redirect:   homeFor(p.Role),
	}
}

func homeFor(role models.Role) string {
	switch role {
	case models.RoleSuperAdmin:
		return RedirectAdminHome
	case models.RoleTeacher:
		return RedirectTeacherHome
	default:
		return RedirectStudentHome
	}
}
