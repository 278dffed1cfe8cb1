package service

import (
	"context"
	"errors"
	"fmt"

	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/query"
	"todo-admin-service/internal/repository"
	"todo-admin-service/internal/security"
)

var ErrEmailTaken = errors.New("email already taken")

// UserService manages user accounts and their role assignments. Role changes
// invalidate the affected user's cached permission set.
type UserService struct {
	users repository.UserRepository
	cache PermissionCacheStore
}

func NewUserService(users repository.UserRepository, cache PermissionCacheStore) *UserService {
	return &UserService{users: users, cache: cache}
}

// UserInput carries the writable account fields. Password is plaintext and
// hashed here; on update an empty password keeps the current hash.
type UserInput struct {
	Name     string
	Email    string
	Password string
	RoleIDs  []uint
}

func (s *UserService) List(req repository.UserListRequest) (repository.Page[domain.User], query.State, error) {
	return s.users.ListPaged(req)
}

func (s *UserService) Get(id uint) (*domain.User, error) {
	return s.users.FindByID(id)
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, string, error) {
	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.users.Create(user); err != nil {
		return nil, "", err
	}
	if len(in.RoleIDs) > 0 {
		if err := s.users.SetRoles(user.ID, in.RoleIDs); err != nil {
			return nil, "", err
		}
	}
	created, err := s.users.FindByID(user.ID)
	if err != nil {
		return nil, "", err
	}
	return created, "Item created successfully.", nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*domain.User, string, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, "", err
	}
	if existing, err := s.users.FindByEmail(in.Email); err == nil && existing.ID != id {
		return nil, "", ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}
	user.Name = in.Name
	user.Email = in.Email
	user.PasswordHash = ""
	if in.Password != "" {
		hash, err := security.HashPassword(in.Password)
		if err != nil {
			return nil, "", fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if err := s.users.Update(user); err != nil {
		return nil, "", err
	}
	if err := s.users.SetRoles(id, in.RoleIDs); err != nil {
		return nil, "", err
	}
	if err := s.cache.InvalidateUser(ctx, id); err != nil {
		return nil, "", fmt.Errorf("invalidate permission cache: %w", err)
	}
	updated, err := s.users.FindByID(id)
	if err != nil {
		return nil, "", err
	}
	return updated, "Item updated successfully.", nil
}

func (s *UserService) Delete(ctx context.Context, id uint) (string, error) {
	if err := s.users.Delete(id); err != nil {
		return "", err
	}
	if err := s.cache.InvalidateUser(ctx, id); err != nil {
		return "", fmt.Errorf("invalidate permission cache: %w", err)
	}
	return "Item deleted successfully.", nil
}
