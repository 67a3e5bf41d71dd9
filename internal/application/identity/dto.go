package identity

import (
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginRequest authenticates with email and password
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutInput identifies the access token being revoked
type LogoutInput struct {
	UserID       uuid.UUID
	TokenJTI     string
	TokenTTL     time.Duration
	RefreshToken string
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  *UserInfo `json:"user,omitempty"`
}

// UserInfo is the logged-in user with the resolved landing page
type UserInfo struct {
	ID           uuid.UUID `json:"id"`
	ChurchID     uuid.UUID `json:"church_id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name,omitempty"`
	Role         string    `json:"role"`
	Profile      string    `json:"profile"`
	RedirectPath string    `json:"redirect_path"`
}

// RedirectResponse is the landing page of the current user
type RedirectResponse struct {
	Profile string `json:"profile"`
	Module  string `json:"module,omitempty"`
	Path    string `json:"path"`
}

// CreateUserRequest creates a login for the church
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"max=200"`
	Role        string `json:"role" binding:"required,oneof=admin manager finance superintendent teacher student user"`
}

// ChangeRoleRequest changes a user's role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin manager finance superintendent teacher student user"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72,nefield=CurrentPassword"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	ChurchID    uuid.UUID  `json:"church_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converts a user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		ChurchID:    u.ChurchID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// UserListQuery is the query string of the user listing
type UserListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// EncodeProfile serializes a profile for the JWT claims, e.g. "teacher" or "module:school"
func EncodeProfile(p identity.LandingProfile) string {
	if p == nil {
		return string(identity.ProfileDefault)
	}
	if m := identity.ModuleOf(p); m != "" {
		return string(identity.ProfileModule) + ":" + string(m)
	}
	return string(p.Kind())
}

// DecodeProfile parses a profile claim; unknown values become the default profile
func DecodeProfile(claim string) identity.LandingProfile {
	kind, module, _ := strings.Cut(claim, ":")
	return identity.ProfileFromKind(identity.ProfileKind(kind), identity.Module(module))
}

func toRedirect(p identity.LandingProfile) RedirectResponse {
	return RedirectResponse{
		Profile: string(p.Kind()),
		Module:  string(identity.ModuleOf(p)),
		Path:    identity.RedirectPath(p),
	}
}
