package database

import (
	"gorm.io/gorm"

	"todo-admin-service/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Permission{},
		&domain.Role{},
		&domain.User{},
		&domain.Todo{},
		&domain.UserRole{},
		&domain.RolePermission{},
	)
}
