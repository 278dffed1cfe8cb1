package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/query"
	"todo-admin-service/internal/repository"
)

var (
	ErrRoleNameTaken      = errors.New("role name already taken")
	ErrUnknownPermissions = errors.New("unknown permission names")
)

// RoleService manages roles and their permission assignments. Assignments
// are given as permission names and synced wholesale: names absent from the
// request are revoked. Any change flushes the permission cache for everyone,
// since role membership fans out to an unknown set of users.
type RoleService struct {
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
	cache       PermissionCacheStore
}

func NewRoleService(roles repository.RoleRepository, permissions repository.PermissionRepository, cache PermissionCacheStore) *RoleService {
	return &RoleService{roles: roles, permissions: permissions, cache: cache}
}

func (s *RoleService) List(req repository.RoleListRequest) (repository.Page[domain.Role], query.State, error) {
	return s.roles.ListPaged(req)
}

func (s *RoleService) Get(id uint) (*domain.Role, error) {
	return s.roles.FindByID(id)
}

func (s *RoleService) Create(ctx context.Context, name string, permissionNames []string) (*domain.Role, string, error) {
	if _, err := s.roles.FindByName(name); err == nil {
		return nil, "", ErrRoleNameTaken
	} else if !errors.Is(err, repository.ErrRoleNotFound) {
		return nil, "", err
	}
	ids, err := s.resolvePermissionIDs(permissionNames)
	if err != nil {
		return nil, "", err
	}
	role := &domain.Role{Name: name}
	if err := s.roles.Create(role, ids); err != nil {
		return nil, "", err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return nil, "", fmt.Errorf("invalidate permission cache: %w", err)
	}
	created, err := s.roles.FindByID(role.ID)
	if err != nil {
		return nil, "", err
	}
	return created, "Role created successfully.", nil
}

func (s *RoleService) Update(ctx context.Context, id uint, name string, permissionNames []string) (*domain.Role, string, error) {
	role, err := s.roles.FindByID(id)
	if err != nil {
		return nil, "", err
	}
	if existing, err := s.roles.FindByName(name); err == nil && existing.ID != id {
		return nil, "", ErrRoleNameTaken
	} else if err != nil && !errors.Is(err, repository.ErrRoleNotFound) {
		return nil, "", err
	}
	ids, err := s.resolvePermissionIDs(permissionNames)
	if err != nil {
		return nil, "", err
	}
	role.Name = name
	if err := s.roles.Update(role); err != nil {
		return nil, "", err
	}
	if err := s.roles.SyncPermissions(id, ids); err != nil {
		return nil, "", err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return nil, "", fmt.Errorf("invalidate permission cache: %w", err)
	}
	updated, err := s.roles.FindByID(id)
	if err != nil {
		return nil, "", err
	}
	return updated, "Role updated successfully.", nil
}

func (s *RoleService) Delete(ctx context.Context, id uint) (string, error) {
	if err := s.roles.Delete(id); err != nil {
		return "", err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return "", fmt.Errorf("invalidate permission cache: %w", err)
	}
	return "Role deleted successfully.", nil
}

// resolvePermissionIDs maps permission names to IDs, rejecting the request
// when any name does not exist. Permissions are seed-defined and never
// created through this path.
func (s *RoleService) resolvePermissionIDs(names []string) ([]uint, error) {
	if len(names) == 0 {
		return nil, nil
	}
	perms, err := s.permissions.FindByNames(names)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(dedupe(names)) {
		known := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			known[p.Name] = struct{}{}
		}
		var missing []string
		for _, name := range dedupe(names) {
			if _, ok := known[name]; !ok {
				missing = append(missing, name)
			}
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %v", ErrUnknownPermissions, missing)
	}
	ids := make([]uint, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
