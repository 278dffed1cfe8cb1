package service

import (
	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/permissions"
	"todo-admin-service/internal/query"
	"todo-admin-service/internal/repository"
)

// PermissionService exposes the seeded permission catalog. Permissions are
// read-only at runtime; the seeder is the only writer.
type PermissionService struct {
	permissions repository.PermissionRepository
}

func NewPermissionService(perms repository.PermissionRepository) *PermissionService {
	return &PermissionService{permissions: perms}
}

func (s *PermissionService) List(req repository.PermissionListRequest) (repository.Page[domain.Permission], query.State, error) {
	return s.permissions.ListPaged(req)
}

// PermissionGroup is a named slice of permissions, ordered by the configured
// group layout so admin forms render sections deterministically.
type PermissionGroup struct {
	Name        string              `json:"name"`
	Permissions []domain.Permission `json:"permissions"`
}

// Grouped returns every permission bucketed by its group. Groups follow the
// configured order; permissions that belong to no configured group come last
// under an empty name.
func (s *PermissionService) Grouped() ([]PermissionGroup, error) {
	all, err := s.permissions.ListAll()
	if err != nil {
		return nil, err
	}
	byGroup := map[string][]domain.Permission{}
	for _, p := range all {
		byGroup[p.Group] = append(byGroup[p.Group], p)
	}
	groups := make([]PermissionGroup, 0, len(byGroup))
	for _, name := range permissions.GroupOrder() {
		if perms, ok := byGroup[name]; ok {
			groups = append(groups, PermissionGroup{Name: name, Permissions: perms})
			delete(byGroup, name)
		}
	}
	if perms, ok := byGroup[""]; ok {
		groups = append(groups, PermissionGroup{Name: "", Permissions: perms})
	}
	return groups, nil
}
