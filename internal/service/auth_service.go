package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/miniticket/internal/auth"
	"github.com/spec-kit/miniticket/internal/config"
	"github.com/spec-kit/miniticket/internal/domain"
	"github.com/spec-kit/miniticket/internal/repository"
	apperrors "github.com/spec-kit/miniticket/pkg/util"
)

// invalidCredentials is returned for both unknown email and wrong
// password so callers cannot probe which accounts exist.
const invalidCredentials = "invalid credentials"

// LoginThrottle limits repeated failed login attempts per email. The
// Redis-backed auth.LoginLimiter is the production implementation.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) bool
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	limiter     LoginThrottle
	bcryptCost  int
	adminSecret string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Limiter  LoginThrottle
}

// RegisterInput describes a signup request.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        domain.Role
	AdminSecret string
}

// NewAuthService builds the service. A missing limiter falls back to an
// allow-all one.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	limiter := deps.Limiter
	if limiter == nil {
		limiter = auth.NewLoginLimiter(nil, 0, 0)
	}
	return &AuthService{
		users:       deps.UserRepo,
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		limiter:     limiter,
		bcryptCost:  cfg.BcryptCost,
		adminSecret: cfg.AdminSecret,
	}
}

// Register creates a new account. Admin registration requires the
// configured admin secret; with no secret configured it always fails.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if role == domain.RoleAdmin {
		if s.adminSecret == "" || input.AdminSecret != s.adminSecret {
			return nil, apperrors.NewValidationError("invalid admin secret", nil)
		}
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("user already exists", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates an account and issues an identity token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	if !s.limiter.Allow(ctx, email) {
		return "", time.Time{}, apperrors.NewTooManyRequests("too many failed attempts, try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.limiter.RecordFailure(ctx, email)
			return "", time.Time{}, apperrors.NewValidationError(invalidCredentials, nil)
		}
		return "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.limiter.RecordFailure(ctx, email)
		return "", time.Time{}, apperrors.NewValidationError(invalidCredentials, nil)
	}

	s.limiter.Reset(ctx, email)

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
