// Package profilestore persists role-tagged profiles. Each role lives
// in its own disjoint collection (students, teachers, superadmins),
// keyed by the auth provider's identity id; a Store is bound to exactly
// one of them. The three variants all satisfy identity.ProfileStore, so
// the resolver can probe them through one capability.
package profilestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/lecternhq/lectern/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Default collection names; overridable through configuration.
const (
	DefaultStudentCollection    = "student_profiles"
	DefaultTeacherCollection    = "teacher_profiles"
	DefaultSuperAdminCollection = "superadmin_profiles"
)

var (
	// ErrNotFound is returned when no profile matches the query.
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicateIdentity is returned when the identity already has a
	// profile in this collection.
	ErrDuplicateIdentity = errors.New("a profile for this identity already exists")
	errRoleMismatch      = errors.New("profile role does not match this store")
)

// Store manages one role's profile collection.
type Store struct {
	c    *mongo.Collection
	role models.Role
}

// NewStudents binds a Store to the student profile collection.
func NewStudents(db *mongo.Database, collection string) *Store {
	return newStore(db, collection, DefaultStudentCollection, models.RoleStudent)
}

// NewTeachers binds a Store to the teacher profile collection.
func NewTeachers(db *mongo.Database, collection string) *Store {
	return newStore(db, collection, DefaultTeacherCollection, models.RoleTeacher)
}

// NewSuperAdmins binds a Store to the super-admin profile collection.
func NewSuperAdmins(db *mongo.Database, collection string) *Store {
	return newStore(db, collection, DefaultSuperAdminCollection, models.RoleSuperAdmin)
}

func newStore(db *mongo.Database, collection, fallback string, role models.Role) *Store {
	if collection == "" {
		collection = fallback
	}
	return &Store{c: db.Collection(collection), role: role}
}

// Role reports which role this store holds.
func (s *Store) Role() models.Role {
	return s.role
}

// FindByIdentity loads the profile registered under the given identity
// id. Returns ErrNotFound when no document matches.
func (s *Store) FindByIdentity(ctx context.Context, identityID string) (*models.Profile, error) {
	var p models.Profile
	err := s.c.FindOne(ctx, bson.M{"identity_id": identityID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByEmail loads a profile by exact email. Returns ErrNotFound when
// no document matches.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new profile after normalizing fields. The profile's
// role must match the store's role; the registration flow constructs
// the profile against the collection the user signed up under.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	if p.Role == "" {
		p.Role = s.role
	}
	if p.Role != s.role {
		return models.Profile{}, errRoleMismatch
	}

	p.ID = primitive.NewObjectID()
	p.FullNameCI = text.Fold(p.FullName)

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrDuplicateIdentity
		}
		return models.Profile{}, err
	}
	return p, nil
}

// SetApproved flips the approval flag. Only meaningful for the teacher
// store; a super-admin action drives it.
func (s *Store) SetApproved(ctx context.Context, id primitive.ObjectID, approved bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"approved": approved, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAvatarKey records the storage key of an uploaded avatar on the
// profile so the object stays retrievable after the upload descriptor
// expires.
func (s *Store) SetAvatarKey(ctx context.Context, id primitive.ObjectID, key string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"avatar_key": key, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
