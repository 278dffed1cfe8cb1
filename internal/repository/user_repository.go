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

var ErrUserNotFound = errors.New("user not found")

var UserQuery = query.Definition{
	Searchable:       []string{"name", "email"},
	Sortable:         []string{"name", "email", "created_at"},
	DefaultSort:      "created_at",
	DefaultDirection: query.DirectionDesc,
}

type UserListRequest struct {
	Params  query.Params
	Page    int
	PerPage int
	Path    string
	Query   url.Values
}

type UserRepository interface {
	ListPaged(req UserListRequest) (Page[domain.User], query.State, error)
	FindByID(id uint) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	Create(user *domain.User) error
	Update(user *domain.User) error
	Delete(id uint) error
	SetRoles(userID uint, roleIDs []uint) error
	PermissionNames(userID uint) ([]string, error)
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) ListPaged(req UserListRequest) (Page[domain.User], query.State, error) {
	q, state := UserQuery.Apply(r.db.Model(&domain.User{}).Preload("Roles"), req.Params)
	page, err := Paginate[domain.User](q, req.Page, req.PerPage, req.Path, req.Query)
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "list", "error")
		return Page[domain.User]{}, state, err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "list", "success")
	return page, state, nil
}

func (r *GormUserRepository) FindByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.Preload("Roles").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "user", "find_by_id", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "user", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "find_by_id", "success")
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "user", "find_by_email", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "user", "find_by_email", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "find_by_email", "success")
	return &user, nil
}

func (r *GormUserRepository) Create(user *domain.User) error {
	if err := r.db.Create(user).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "create", "success")
	return nil
}

func (r *GormUserRepository) Update(user *domain.User) error {
	updates := map[string]any{
		"name":  user.Name,
		"email": user.Email,
	}
	if user.PasswordHash != "" {
		updates["password_hash"] = user.PasswordHash
	}
	res := r.db.Model(&domain.User{}).Where("id = ?", user.ID).Updates(updates)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "user", "update", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "update", "success")
	return nil
}

func (r *GormUserRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return tx.Where("user_id = ?", id).Delete(&domain.UserRole{}).Error
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrUserNotFound) {
			outcome = "not_found"
		}
		observability.RecordRepositoryOperation(context.Background(), "user", "delete", outcome)
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "delete", "success")
	return nil
}

// SetRoles replaces the user's role set wholesale.
func (r *GormUserRepository) SetRoles(userID uint, roleIDs []uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		var roles []domain.Role
		if len(roleIDs) > 0 {
			if err := tx.Where("id IN ?", roleIDs).Find(&roles).Error; err != nil {
				return err
			}
		}
		return tx.Model(&user).Association("Roles").Replace(roles)
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrUserNotFound) {
			outcome = "not_found"
		}
		observability.RecordRepositoryOperation(context.Background(), "user", "set_roles", outcome)
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "set_roles", "success")
	return nil
}

// PermissionNames returns the union of permission names across the user's
// roles, the raw material for the aggregated permission set.
func (r *GormUserRepository) PermissionNames(userID uint) ([]string, error) {
	var names []string
	err := r.db.Model(&domain.Permission{}).
		Distinct("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Pluck("permissions.name", &names).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "permission_names", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "permission_names", "success")
	return names, nil
}
