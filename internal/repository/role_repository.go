package repository

import (
	"context"
	"errors"
	"net/url"

	"gorm.io/gorm"

	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/observability"
	"todo-admin-service/internal/query"
)

var ErrRoleNotFound = errors.New("role not found")

var RoleQuery = query.Definition{
	Searchable:       []string{"name"},
	Sortable:         []string{"name", "created_at"},
	DefaultSort:      "name",
	DefaultDirection: query.DirectionAsc,
}

type RoleListRequest struct {
	Params  query.Params
	Page    int
	PerPage int
	Path    string
	Query   url.Values
}

type RoleRepository interface {
	ListPaged(req RoleListRequest) (Page[domain.Role], query.State, error)
	FindByID(id uint) (*domain.Role, error)
	FindByName(name string) (*domain.Role, error)
	Create(role *domain.Role, permissionIDs []uint) error
	Update(role *domain.Role) error
	Delete(id uint) error
	SyncPermissions(roleID uint, permissionIDs []uint) error
}

type GormRoleRepository struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) ListPaged(req RoleListRequest) (Page[domain.Role], query.State, error) {
	q, state := RoleQuery.Apply(r.db.Model(&domain.Role{}).Preload("Permissions"), req.Params)
	page, err := Paginate[domain.Role](q, req.Page, req.PerPage, req.Path, req.Query)
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "role", "list", "error")
		return Page[domain.Role]{}, state, err
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "list", "success")
	return page, state, nil
}

func (r *GormRoleRepository) FindByID(id uint) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.Preload("Permissions").First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "role", "find_by_id", "not_found")
			return nil, ErrRoleNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "role", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "find_by_id", "success")
	return &role, nil
}

func (r *GormRoleRepository) FindByName(name string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.Preload("Permissions").Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "role", "find_by_name", "not_found")
			return nil, ErrRoleNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "role", "find_by_name", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "find_by_name", "success")
	return &role, nil
}

func (r *GormRoleRepository) Create(role *domain.Role, permissionIDs []uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		return replaceRolePermissions(tx, role, permissionIDs)
	})
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "role", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "create", "success")
	return nil
}

func (r *GormRoleRepository) Update(role *domain.Role) error {
	res := r.db.Model(&domain.Role{}).Where("id = ?", role.ID).Update("name", role.Name)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "role", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "role", "update", "not_found")
		return ErrRoleNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "update", "success")
	return nil
}

func (r *GormRoleRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Role{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRoleNotFound
		}
		if err := tx.Where("role_id = ?", id).Delete(&domain.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Where("role_id = ?", id).Delete(&domain.UserRole{}).Error
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrRoleNotFound) {
			outcome = "not_found"
		}
		observability.RecordRepositoryOperation(context.Background(), "role", "delete", outcome)
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "delete", "success")
	return nil
}

// SyncPermissions replaces the role's permission set with exactly the given
// ids; a resynchronize, not a merge.
func (r *GormRoleRepository) SyncPermissions(roleID uint, permissionIDs []uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var role domain.Role
		if err := tx.First(&role, roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return err
		}
		return replaceRolePermissions(tx, &role, permissionIDs)
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrRoleNotFound) {
			outcome = "not_found"
		}
		observability.RecordRepositoryOperation(context.Background(), "role", "sync_permissions", outcome)
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "sync_permissions", "success")
	return nil
}

func replaceRolePermissions(tx *gorm.DB, role *domain.Role, permissionIDs []uint) error {
	var perms []domain.Permission
	if len(permissionIDs) > 0 {
		if err := tx.Where("id IN ?", permissionIDs).Find(&perms).Error; err != nil {
			return err
		}
	}
	return tx.Model(role).Association("Permissions").Replace(perms)
}
