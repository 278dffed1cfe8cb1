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

var ErrPermissionNotFound = errors.New("permission not found")

var PermissionQuery = query.Definition{
	Searchable:       []string{"name", "display_name"},
	Sortable:         []string{"name", "group", "created_at"},
	DefaultSort:      "name",
	DefaultDirection: query.DirectionAsc,
}

type PermissionListRequest struct {
	Params  query.Params
	Page    int
	PerPage int
	Path    string
	Query   url.Values
}

type PermissionRepository interface {
	ListPaged(req PermissionListRequest) (Page[domain.Permission], query.State, error)
	ListAll() ([]domain.Permission, error)
	FindByNames(names []string) ([]domain.Permission, error)
	FirstOrCreate(perm *domain.Permission) (created bool, err error)
}

type GormPermissionRepository struct{ db *gorm.DB }

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &GormPermissionRepository{db: db}
}

func (r *GormPermissionRepository) ListPaged(req PermissionListRequest) (Page[domain.Permission], query.State, error) {
	q, state := PermissionQuery.Apply(r.db.Model(&domain.Permission{}), req.Params)
	page, err := Paginate[domain.Permission](q, req.Page, req.PerPage, req.Path, req.Query)
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "permission", "list", "error")
		return Page[domain.Permission]{}, state, err
	}
	observability.RecordRepositoryOperation(context.Background(), "permission", "list", "success")
	return page, state, nil
}

func (r *GormPermissionRepository) ListAll() ([]domain.Permission, error) {
	var perms []domain.Permission
	if err := r.db.Order("name asc").Find(&perms).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "permission", "list_all", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "permission", "list_all", "success")
	return perms, nil
}

func (r *GormPermissionRepository) FindByNames(names []string) ([]domain.Permission, error) {
	var perms []domain.Permission
	if len(names) == 0 {
		return perms, nil
	}
	if err := r.db.Where("name IN ?", names).Find(&perms).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "permission", "find_by_names", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "permission", "find_by_names", "success")
	return perms, nil
}

// FirstOrCreate finds the permission by unique name or inserts it. Existing
// rows are left untouched; permission names are immutable once referenced.
func (r *GormPermissionRepository) FirstOrCreate(perm *domain.Permission) (bool, error) {
	var existing domain.Permission
	err := r.db.Where("name = ?", perm.Name).First(&existing).Error
	if err == nil {
		*perm = existing
		observability.RecordRepositoryOperation(context.Background(), "permission", "first_or_create", "success")
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		observability.RecordRepositoryOperation(context.Background(), "permission", "first_or_create", "error")
		return false, err
	}
	if err := r.db.Create(perm).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "permission", "first_or_create", "error")
		return false, err
	}
	observability.RecordRepositoryOperation(context.Background(), "permission", "first_or_create", "success")
	return true, nil
}
