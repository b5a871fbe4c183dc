package models

import (
	"time"

	"gorm.io/gorm"
)

// SuperAdminLevel is the hierarchy level of super-admin roles.
const SuperAdminLevel = 1

// Role represents a role in the role-based access control (RBAC) system.
// Roles carry an integer hierarchy level: 1 is the super-admin rank, larger
// values are lower privilege.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the unique name of the role (e.g., "Administrator", "Editor").
	Name string `gorm:"unique;size:100;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// Level is the hierarchy rank; exactly 1 denotes super-admin.
	Level int `gorm:"not null;default:99"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
