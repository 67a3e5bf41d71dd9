package identity

import (
	"context"
	"errors"
	"time"

	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/auth"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles authentication and the landing page redirect
type AuthService struct {
	userRepo   identity.UserRepository
	lookup     identity.SignalLookup
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	lookup identity.SignalLookup,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		lookup:     lookup,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates a user and returns a token pair carrying the resolved landing profile
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	log := logger.WithLogger(ctx, s.logger)
	now := s.now()

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login attempt for unknown email")
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if !user.CanLogin(now) {
		if user.Status == identity.UserStatusLocked {
			log.Warn("Login attempt for locked account", zap.String("user_id", user.ID.String()))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		log.Warn("Login attempt for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration, now)
		if err := s.userRepo.Save(ctx, user); err != nil {
			log.Error("Failed to update user after login failure", zap.Error(err))
		}
		if locked {
			log.Warn("Account locked after too many failed attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	profile := s.resolve(ctx, user)
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		ChurchID: user.ChurchID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
		Profile:  EncodeProfile(profile),
	})
	if err != nil {
		log.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess(now)
	if err := s.userRepo.Save(ctx, user); err != nil {
		log.Error("Failed to update user after successful login", zap.Error(err))
	}

	log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("profile", EncodeProfile(profile)))

	resp := tokenResponse(pair)
	resp.User = &UserInfo{
		ID:           user.ID,
		ChurchID:     user.ChurchID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		Role:         string(user.Role),
		Profile:      EncodeProfile(profile),
		RedirectPath: identity.RedirectPath(profile),
	}
	return resp, nil
}

// Refresh rotates a refresh token. Role and profile are resolved again so that
// changes made since login are picked up.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	if !user.CanLogin(s.now()) {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	profile := s.resolve(ctx, user)
	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, string(user.Role), EncodeProfile(profile))
	if err != nil {
		return nil, tokenError(err)
	}

	// the old refresh token may not be used twice
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to revoke rotated refresh token", zap.Error(err))
	}
	return tokenResponse(pair), nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, in LogoutInput) error {
	if in.TokenJTI != "" {
		if err := s.blacklist.AddToBlacklist(ctx, in.TokenJTI, in.TokenTTL); err != nil {
			return err
		}
	}
	if in.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(in.RefreshToken)
		if err == nil && claims.UserID == in.UserID.String() {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				return err
			}
		}
	}
	logger.WithLogger(ctx, s.logger).Info("User logged out", zap.String("user_id", in.UserID.String()))
	return nil
}

// Redirect resolves the landing page of the user from the current signals
func (s *AuthService) Redirect(ctx context.Context, userID uuid.UUID) (*RedirectResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toRedirect(s.resolve(ctx, user))
	return &resp, nil
}

// Me returns the current user with the landing page
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := s.resolve(ctx, user)
	return &UserInfo{
		ID:           user.ID,
		ChurchID:     user.ChurchID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		Role:         string(user.Role),
		Profile:      EncodeProfile(profile),
		RedirectPath: identity.RedirectPath(profile),
	}, nil
}

// ChangePassword replaces the caller's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.VerifyPassword(req.CurrentPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// resolve walks the redirect rules, falling back to the default profile when a
// lookup fails
func (s *AuthService) resolve(ctx context.Context, user *identity.User) identity.LandingProfile {
	source := identity.LookupSource{
		Subject: identity.Subject{
			UserID:   user.ID,
			ChurchID: user.ChurchID,
			Email:    user.Email,
			Role:     user.Role,
		},
		Lookup: s.lookup,
	}
	profile, err := identity.Resolve(ctx, source)
	if err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Role signal lookup failed, using default profile",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		return identity.DefaultProfile{}
	}
	return profile
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			return err
		}
	}
	if revoked {
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	}
	return nil
}

func tokenResponse(pair *auth.TokenPair) *TokenResponse {
	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
