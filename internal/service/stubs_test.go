package service

import (
	"errors"

	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/query"
	"todo-admin-service/internal/repository"
)

var errNotImplemented = errors.New("not implemented")

type stubTodoRepository struct {
	listPagedFn  func(req repository.TodoListRequest) (repository.Page[domain.Todo], query.State, error)
	findByIDFn   func(id uint) (*domain.Todo, error)
	createFn     func(todo *domain.Todo) error
	updateFn     func(todo *domain.Todo) error
	deleteFn     func(id uint) error
	bulkUpdateFn func(ids []uint, all bool, filters query.Params, completed bool) (int64, error)
	bulkDeleteFn func(ids []uint, all bool, filters query.Params) (int64, error)
}

func (s *stubTodoRepository) ListPaged(req repository.TodoListRequest) (repository.Page[domain.Todo], query.State, error) {
	if s.listPagedFn == nil {
		return repository.Page[domain.Todo]{}, query.State{}, errNotImplemented
	}
	return s.listPagedFn(req)
}

func (s *stubTodoRepository) FindByID(id uint) (*domain.Todo, error) {
	if s.findByIDFn == nil {
		return nil, errNotImplemented
	}
	return s.findByIDFn(id)
}

func (s *stubTodoRepository) Create(todo *domain.Todo) error {
	if s.createFn == nil {
		return errNotImplemented
	}
	return s.createFn(todo)
}

func (s *stubTodoRepository) Update(todo *domain.Todo) error {
	if s.updateFn == nil {
		return errNotImplemented
	}
	return s.updateFn(todo)
}

func (s *stubTodoRepository) Delete(id uint) error {
	if s.deleteFn == nil {
		return errNotImplemented
	}
	return s.deleteFn(id)
}

func (s *stubTodoRepository) BulkUpdateCompleted(ids []uint, all bool, filters query.Params, completed bool) (int64, error) {
	if s.bulkUpdateFn == nil {
		return 0, errNotImplemented
	}
	return s.bulkUpdateFn(ids, all, filters, completed)
}

func (s *stubTodoRepository) BulkDelete(ids []uint, all bool, filters query.Params) (int64, error) {
	if s.bulkDeleteFn == nil {
		return 0, errNotImplemented
	}
	return s.bulkDeleteFn(ids, all, filters)
}

type stubUserRepository struct {
	listPagedFn       func(req repository.UserListRequest) (repository.Page[domain.User], query.State, error)
	findByIDFn        func(id uint) (*domain.User, error)
	findByEmailFn     func(email string) (*domain.User, error)
	createFn          func(user *domain.User) error
	updateFn          func(user *domain.User) error
	deleteFn          func(id uint) error
	setRolesFn        func(userID uint, roleIDs []uint) error
	permissionNamesFn func(userID uint) ([]string, error)
}

func (s *stubUserRepository) ListPaged(req repository.UserListRequest) (repository.Page[domain.User], query.State, error) {
	if s.listPagedFn == nil {
		return repository.Page[domain.User]{}, query.State{}, errNotImplemented
	}
	return s.listPagedFn(req)
}

func (s *stubUserRepository) FindByID(id uint) (*domain.User, error) {
	if s.findByIDFn == nil {
		return nil, errNotImplemented
	}
	return s.findByIDFn(id)
}

func (s *stubUserRepository) FindByEmail(email string) (*domain.User, error) {
	if s.findByEmailFn == nil {
		return nil, errNotImplemented
	}
	return s.findByEmailFn(email)
}

func (s *stubUserRepository) Create(user *domain.User) error {
	if s.createFn == nil {
		return errNotImplemented
	}
	return s.createFn(user)
}

func (s *stubUserRepository) Update(user *domain.User) error {
	if s.updateFn == nil {
		return errNotImplemented
	}
	return s.updateFn(user)
}

func (s *stubUserRepository) Delete(id uint) error {
	if s.deleteFn == nil {
		return errNotImplemented
	}
	return s.deleteFn(id)
}

func (s *stubUserRepository) SetRoles(userID uint, roleIDs []uint) error {
	if s.setRolesFn == nil {
		return errNotImplemented
	}
	return s.setRolesFn(userID, roleIDs)
}

func (s *stubUserRepository) PermissionNames(userID uint) ([]string, error) {
	if s.permissionNamesFn == nil {
		return nil, errNotImplemented
	}
	return s.permissionNamesFn(userID)
}

type stubRoleRepository struct {
	listPagedFn       func(req repository.RoleListRequest) (repository.Page[domain.Role], query.State, error)
	findByIDFn        func(id uint) (*domain.Role, error)
	findByNameFn      func(name string) (*domain.Role, error)
	createFn          func(role *domain.Role, permissionIDs []uint) error
	updateFn          func(role *domain.Role) error
	deleteFn          func(id uint) error
	syncPermissionsFn func(roleID uint, permissionIDs []uint) error
}

func (s *stubRoleRepository) ListPaged(req repository.RoleListRequest) (repository.Page[domain.Role], query.State, error) {
	if s.listPagedFn == nil {
		return repository.Page[domain.Role]{}, query.State{}, errNotImplemented
	}
	return s.listPagedFn(req)
}

func (s *stubRoleRepository) FindByID(id uint) (*domain.Role, error) {
	if s.findByIDFn == nil {
		return nil, errNotImplemented
	}
	return s.findByIDFn(id)
}

func (s *stubRoleRepository) FindByName(name string) (*domain.Role, error) {
	if s.findByNameFn == nil {
		return nil, repository.ErrRoleNotFound
	}
	return s.findByNameFn(name)
}

func (s *stubRoleRepository) Create(role *domain.Role, permissionIDs []uint) error {
	if s.createFn == nil {
		return errNotImplemented
	}
	return s.createFn(role, permissionIDs)
}

func (s *stubRoleRepository) Update(role *domain.Role) error {
	if s.updateFn == nil {
		return errNotImplemented
	}
	return s.updateFn(role)
}

func (s *stubRoleRepository) Delete(id uint) error {
	if s.deleteFn == nil {
		return errNotImplemented
	}
	return s.deleteFn(id)
}

func (s *stubRoleRepository) SyncPermissions(roleID uint, permissionIDs []uint) error {
	if s.syncPermissionsFn == nil {
		return errNotImplemented
	}
	return s.syncPermissionsFn(roleID, permissionIDs)
}

type stubPermissionRepository struct {
	listPagedFn   func(req repository.PermissionListRequest) (repository.Page[domain.Permission], query.State, error)
	listAllFn     func() ([]domain.Permission, error)
	findByNamesFn func(names []string) ([]domain.Permission, error)
}

func (s *stubPermissionRepository) ListPaged(req repository.PermissionListRequest) (repository.Page[domain.Permission], query.State, error) {
	if s.listPagedFn == nil {
		return repository.Page[domain.Permission]{}, query.State{}, errNotImplemented
	}
	return s.listPagedFn(req)
}

func (s *stubPermissionRepository) ListAll() ([]domain.Permission, error) {
	if s.listAllFn == nil {
		return nil, errNotImplemented
	}
	return s.listAllFn()
}

func (s *stubPermissionRepository) FindByNames(names []string) ([]domain.Permission, error) {
	if s.findByNamesFn == nil {
		return nil, errNotImplemented
	}
	return s.findByNamesFn(names)
}

func (s *stubPermissionRepository) FirstOrCreate(_ *domain.Permission) (bool, error) {
	return false, errNotImplemented
}
