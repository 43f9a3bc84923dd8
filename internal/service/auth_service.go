package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tutorhub/tutor-marketplace/internal/auth"
	"github.com/tutorhub/tutor-marketplace/internal/config"
	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

const minPasswordLength = 6

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tutors     repository.TutorRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	TutorRepo repository.TutorRepository
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	User      *domain.User
	Tutor     *domain.Tutor
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tutors:     deps.TutorRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates an account. Tutors also get an empty profile.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email are required", nil)
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	if input.Role == "" {
		input.Role = domain.RoleStudent
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewStorageUnavailable(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.NewStorageUnavailable(err)
	}

	result := &AuthResult{User: user}
	if user.Role == domain.RoleTutor {
		tutor, err := createProfile(ctx, s.tutors, user)
		if err != nil {
			return nil, apperrors.NewStorageUnavailable(err)
		}
		result.Tutor = tutor
	}
	return s.issue(result)
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewStorageUnavailable(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	result := &AuthResult{User: user}
	if user.Role == domain.RoleTutor {
		tutor, err := s.tutors.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewStorageUnavailable(err)
		}
		result.Tutor = tutor
	}
	return s.issue(result)
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storageError(err, "user", nil)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return storageError(err, "user", nil)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(result *AuthResult) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(result.User.ID, result.User.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	result.Token = token
	result.ExpiresAt = exp
	return result, nil
}
