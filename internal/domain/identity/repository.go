package identity

import (
	"context"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository persists users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByEmail finds a user by login email across churches
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SignalLookup answers the per-signal questions of the redirect resolver.
// Each method is backed by a different table owned by another context.
type SignalLookup interface {
	IsSalesperson(ctx context.Context, email string) (bool, error)
	IsResellerClient(ctx context.Context, churchID uuid.UUID) (bool, error)
	IsSuperintendent(ctx context.Context, churchID, userID uuid.UUID) (bool, error)
	IsReactivationLead(ctx context.Context, email string) (bool, error)
	IsTeacher(ctx context.Context, churchID, userID uuid.UUID, email string) (bool, error)
	IsStudent(ctx context.Context, churchID uuid.UUID, email string) (bool, error)
	EnabledModules(ctx context.Context, churchID uuid.UUID) ([]Module, error)
}

// LookupSource adapts a SignalLookup to a SignalSource for one subject
type LookupSource struct {
	Subject Subject
	Lookup  SignalLookup
}

func (s LookupSource) Role() Role { return s.Subject.Role }

func (s LookupSource) Salesperson(ctx context.Context) (bool, error) {
	return s.Lookup.IsSalesperson(ctx, s.Subject.Email)
}

func (s LookupSource) ResellerClient(ctx context.Context) (bool, error) {
	return s.Lookup.IsResellerClient(ctx, s.Subject.ChurchID)
}

func (s LookupSource) Superintendent(ctx context.Context) (bool, error) {
	return s.Lookup.IsSuperintendent(ctx, s.Subject.ChurchID, s.Subject.UserID)
}

func (s LookupSource) ReactivationLead(ctx context.Context) (bool, error) {
	return s.Lookup.IsReactivationLead(ctx, s.Subject.Email)
}

func (s LookupSource) Teacher(ctx context.Context) (bool, error) {
	return s.Lookup.IsTeacher(ctx, s.Subject.ChurchID, s.Subject.UserID, s.Subject.Email)
}

func (s LookupSource) Student(ctx context.Context) (bool, error) {
	return s.Lookup.IsStudent(ctx, s.Subject.ChurchID, s.Subject.Email)
}

func (s LookupSource) Modules(ctx context.Context) ([]Module, error) {
	return s.Lookup.EnabledModules(ctx, s.Subject.ChurchID)
}
