package identity

import (
	"context"
	"testing"
	"time"

	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

func adminActor() Actor {
	return Actor{UserID: uuid.New(), ChurchID: uuid.New(), Role: identity.RoleAdmin}
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin creates a login", func(t *testing.T) {
		users := new(MockUserRepository)
		events := new(MockEventPublisher)
		actor := adminActor()
		users.On("ExistsByEmail", ctx, "tesoureiro@igreja.org").Return(false, nil)
		users.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.ChurchID == actor.ChurchID && u.CreatedBy != nil && *u.CreatedBy == actor.UserID
		})).Return(nil)
		events.On("Publish", ctx, mock.MatchedBy(func(es []shared.DomainEvent) bool {
			return len(es) == 1 && es[0].EventType() == identity.EventTypeUserCreated
		})).Return(nil)

		svc := NewUserService(users, auth.NewInMemoryTokenBlacklist(), time.Hour, events, zap.NewNop())
		resp, err := svc.CreateUser(ctx, actor, CreateUserRequest{
			Email: "tesoureiro@igreja.org", Password: "senha-forte-123", DisplayName: "joão tesoureiro", Role: "finance",
		})
		require.NoError(t, err)
		assert.Equal(t, "finance", resp.Role)
		assert.Equal(t, "João Tesoureiro", resp.DisplayName)
		events.AssertExpectations(t)
	})

	t.Run("non admin is refused", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, auth.NewInMemoryTokenBlacklist(), time.Hour, nil, zap.NewNop())
		actor := adminActor()
		actor.Role = identity.RoleManager

		_, err := svc.CreateUser(ctx, actor, CreateUserRequest{Email: "x@igreja.org", Password: "senha-forte-123", Role: "user"})
		assert.Equal(t, "FORBIDDEN", codeOf(t, err))
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("email in use", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ExistsByEmail", ctx, "x@igreja.org").Return(true, nil)
		svc := NewUserService(users, auth.NewInMemoryTokenBlacklist(), time.Hour, nil, zap.NewNop())

		_, err := svc.CreateUser(ctx, adminActor(), CreateUserRequest{Email: "x@igreja.org", Password: "senha-forte-123", Role: "user"})
		assert.Equal(t, "EMAIL_IN_USE", codeOf(t, err))
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes every token of the user", func(t *testing.T) {
		users := new(MockUserRepository)
		blacklist := auth.NewInMemoryTokenBlacklist()
		actor := adminActor()
		target, err := identity.NewUser(actor.ChurchID, "prof@igreja.org", "senha-forte-123", identity.RoleTeacher)
		require.NoError(t, err)
		users.On("FindByID", ctx, target.ID).Return(target, nil)
		users.On("Delete", ctx, target.ID).Return(nil)

		svc := NewUserService(users, blacklist, time.Hour, nil, zap.NewNop())
		require.NoError(t, svc.DeleteUser(ctx, actor, target.ID))

		invalidated, err := blacklist.IsUserTokenInvalidated(ctx, target.ID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, invalidated)
	})

	t.Run("cannot delete self", func(t *testing.T) {
		users := new(MockUserRepository)
		actor := adminActor()
		svc := NewUserService(users, auth.NewInMemoryTokenBlacklist(), time.Hour, nil, zap.NewNop())
		assert.Equal(t, "CANNOT_DELETE_SELF", codeOf(t, svc.DeleteUser(ctx, actor, actor.UserID)))
	})

	t.Run("user of another church is not found", func(t *testing.T) {
		users := new(MockUserRepository)
		other, err := identity.NewUser(uuid.New(), "outro@igreja.org", "senha-forte-123", identity.RoleUser)
		require.NoError(t, err)
		users.On("FindByID", ctx, other.ID).Return(other, nil)

		svc := NewUserService(users, auth.NewInMemoryTokenBlacklist(), time.Hour, nil, zap.NewNop())
		err = svc.DeleteUser(ctx, adminActor(), other.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestUserService_ChangeRole(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	actor := adminActor()
	self, err := identity.NewUser(actor.ChurchID, "admin@igreja.org", "senha-forte-123", identity.RoleAdmin)
	require.NoError(t, err)
	self.ID = actor.UserID
	users.On("FindByID", ctx, self.ID).Return(self, nil)

	svc := NewUserService(users, auth.NewInMemoryTokenBlacklist(), time.Hour, nil, zap.NewNop())
	_, err = svc.ChangeRole(ctx, actor, self.ID, ChangeRoleRequest{Role: "user"})
	assert.Equal(t, "CANNOT_DEMOTE_SELF", codeOf(t, err))
}
