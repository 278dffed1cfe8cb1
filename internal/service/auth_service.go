package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/observability"
	"todo-admin-service/internal/repository"
	"todo-admin-service/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues access tokens and resolves the permission set of
// authenticated users, with a read-through cache in front of the database.
type AuthService struct {
	users    repository.UserRepository
	tokens   *security.JWTManager
	cache    PermissionCacheStore
	tokenTTL time.Duration
	cacheTTL time.Duration
}

func NewAuthService(users repository.UserRepository, tokens *security.JWTManager, cache PermissionCacheStore, tokenTTL, cacheTTL time.Duration) *AuthService {
	return &AuthService{users: users, tokens: tokens, cache: cache, tokenTTL: tokenTTL, cacheTTL: cacheTTL}
}

// Login verifies the credentials and returns a signed access token together
// with the authenticated user. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthEvent(ctx, "login", "denied")
			return "", nil, ErrInvalidCredentials
		}
		observability.RecordAuthEvent(ctx, "login", "error")
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		observability.RecordAuthEvent(ctx, "login", "denied")
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokens.SignAccessToken(user.ID, s.tokenTTL)
	if err != nil {
		observability.RecordAuthEvent(ctx, "login", "error")
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	observability.RecordAuthEvent(ctx, "login", "success")
	return token, user, nil
}

// VerifyToken parses an access token and returns the user ID it belongs to.
func (s *AuthService) VerifyToken(ctx context.Context, raw string) (uint, error) {
	claims, err := s.tokens.ParseAccessToken(raw)
	if err != nil {
		observability.RecordAuthEvent(ctx, "token_verify", "denied")
		return 0, ErrInvalidCredentials
	}
	userID, err := claims.UserID()
	if err != nil {
		observability.RecordAuthEvent(ctx, "token_verify", "denied")
		return 0, ErrInvalidCredentials
	}
	return userID, nil
}

// Profile loads a user with roles plus the flattened permission names.
func (s *AuthService) Profile(ctx context.Context, userID uint) (*domain.User, []string, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, nil, err
	}
	perms, err := s.PermissionNames(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, perms, nil
}

// PermissionNames returns the distinct permission names granted to the user
// through role membership. Results are cached; a cache read failure falls
// back to the database rather than failing the request.
func (s *AuthService) PermissionNames(ctx context.Context, userID uint) ([]string, error) {
	if names, ok, err := s.cache.Get(ctx, userID); err == nil && ok {
		return names, nil
	}
	names, err := s.users.PermissionNames(userID)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	if err := s.cache.Set(ctx, userID, names, s.cacheTTL); err != nil {
		return names, nil
	}
	return names, nil
}
