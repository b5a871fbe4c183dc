package models

import "time"

// Function is a node in the protected function forest. Functions double as
// admin menu entries and as the unit of permission granting. The forest has
// no depth cap.
type Function struct {
	// ID is the unique identifier for the function.
	ID uint `gorm:"primaryKey"`
	// Code is the unique machine name (e.g., "system.role").
	Code string `gorm:"unique;size:100;not null"`
	// Name is the human-readable label shown in menus.
	Name string `gorm:"size:100;not null"`
	// ParentID points at the parent node; nil marks a root.
	ParentID *uint `gorm:"index"`
	// SortOrder orders siblings within one parent.
	SortOrder int `gorm:"not null;default:0"`
	// CreatedAt is the timestamp when the function was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the function was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Function model.
func (Function) TableName() string {
	return "functions"
}
