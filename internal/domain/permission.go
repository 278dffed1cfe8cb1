package domain

import "time"

// Permission names follow the {action}-{resource} convention, e.g. "view-todos".
type Permission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	Group       string    `gorm:"size:64;index" json:"group"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RolePermission struct {
	RoleID       uint      `gorm:"primaryKey"`
	PermissionID uint      `gorm:"primaryKey"`
	CreatedAt    time.Time `json:"created_at"`
}
