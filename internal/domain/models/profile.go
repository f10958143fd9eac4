// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role tags a profile with the capability tier it was registered under.
type Role string

const (
	RoleStudent    Role = "student"
	RoleTeacher    Role = "teacher"
	RoleSuperAdmin Role = "superadmin"
)

// IsValid reports whether r is one of the three known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleSuperAdmin:
		return true
	}
	return false
}

// Profile is the application record linked 1:1 to an authenticated
// identity. Exactly one of the three profile collections (students,
// teachers, superadmins) holds a given identity's profile; an identity
// with no profile in any of them is unregistered.
//
// The auth provider owns the identity itself; IdentityID is the stable
// subject identifier it issues, and the only join key this service uses.
type Profile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IdentityID string             `bson:"identity_id" json:"identity_id"`
	Role       Role               `bson:"role" json:"role"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`

	// Approved is meaningful only for teachers; a teacher profile with
	// Approved=false is held in the pending-approval state until a
	// super-admin flips it.
	Approved bool `bson:"approved" json:"approved"`

	// AvatarKey is the storage object key of the profile picture, if one
	// has been uploaded.
	AvatarKey string `bson:"avatar_key,omitempty" json:"avatar_key,omitempty"`

	// Role-specific fields.
	Bio            string `bson:"bio,omitempty" json:"bio,omitempty"`                       // teacher
	Qualifications string `bson:"qualifications,omitempty" json:"qualifications,omitempty"` // teacher
	AcademicLevel  string `bson:"academic_level,omitempty" json:"academic_level,omitempty"` // student

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
