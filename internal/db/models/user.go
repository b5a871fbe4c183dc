package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an administrative account.
// Accounts authenticate with a local password; lockout bookkeeping lives on
// the account row itself so repeated failures survive restarts.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Account is the unique, case-sensitive login name.
	Account string `gorm:"unique;size:100;not null"`
	// PasswordHash is the base64 encoded salt+key blob (see password.go).
	PasswordHash string `gorm:"size:255;not null"`
	// DisplayName is shown in the admin UI.
	DisplayName string `gorm:"size:100"`
	// PasswordChangedAt is the timestamp of the last password change.
	// Logins older than three months flag the password as expired.
	PasswordChangedAt time.Time
	// FailedLoginCount counts consecutive failed login attempts.
	FailedLoginCount int `gorm:"not null;default:0"`
	// LockoutEnd is set when the failure threshold is reached. Nil means
	// the account is not locked; a past value is cleared lazily on the next
	// lockout check.
	LockoutEnd *time.Time
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM). Soft deleted
	// accounts keep their lockout bookkeeping but can never log in.
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	return VerifyPassword(password, u.PasswordHash)
}
