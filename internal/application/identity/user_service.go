package identity

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/auth"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actor is the authenticated caller of a privileged operation
type Actor struct {
	UserID   uuid.UUID
	ChurchID uuid.UUID
	Role     identity.Role
}

func (a Actor) requireAdmin() error {
	if a.Role != identity.RoleAdmin {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can manage users")
	}
	return nil
}

// UserService manages the logins of a church. Every operation is admin only.
type UserService struct {
	userRepo   identity.UserRepository
	blacklist  auth.TokenBlacklist
	refreshTTL time.Duration
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewUserService creates a new UserService. refreshTTL bounds how long revoked
// tokens of a deleted user must be remembered.
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	refreshTTL time.Duration,
	events shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		refreshTTL: refreshTTL,
		events:     events,
		logger:     logger,
	}
}

// CreateUser creates a login in the caller's church
func (s *UserService) CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*UserResponse, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_IN_USE", "A user with this email already exists")
	}

	user, err := identity.NewUser(actor.ChurchID, req.Email, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(req.DisplayName); err != nil {
		return nil, err
	}
	user.SetCreatedBy(actor.UserID)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.events != nil && len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to publish user events", zap.Error(err))
		}
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// ListUsers lists the logins of the caller's church
func (s *UserService) ListUsers(ctx context.Context, actor Actor, q UserListQuery) ([]UserResponse, int64, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, 0, err
	}
	filter := shared.DefaultFilter()
	filter.Search = q.Search
	filter.OrderBy = "email"
	filter.OrderDir = "asc"
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	users, total, err := s.userRepo.FindAll(ctx, actor.ChurchID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out, total, nil
}

// ChangeRole changes the role of a user of the caller's church
func (s *UserService) ChangeRole(ctx context.Context, actor Actor, id uuid.UUID, req ChangeRoleRequest) (*UserResponse, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	user, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if user.ID == actor.UserID && identity.Role(req.Role) != identity.RoleAdmin {
		return nil, shared.NewDomainError("CANNOT_DEMOTE_SELF", "Administrators cannot remove their own admin role")
	}
	if err := user.ChangeRole(identity.Role(req.Role)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// DeleteUser removes a login and revokes every token already issued to it
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := actor.requireAdmin(); err != nil {
		return err
	}
	if id == actor.UserID {
		return shared.NewDomainError("CANNOT_DELETE_SELF", "Administrators cannot delete their own account")
	}
	if _, err := s.find(ctx, actor, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, id.String(), s.refreshTTL); err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to revoke tokens of deleted user",
			zap.String("user_id", id.String()), zap.Error(err))
	}
	return nil
}

// find loads a user of the actor's church; users of other churches are reported as missing
func (s *UserService) find(ctx context.Context, actor Actor, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.BelongsTo(actor.ChurchID) {
		return nil, shared.ErrNotFound
	}
	return user, nil
}
