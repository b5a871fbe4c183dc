package models

import "time"

// LoginAttempt is an append-only audit record, one row per login call
// regardless of outcome. Rows are never updated or deleted.
type LoginAttempt struct {
	// ID is the unique identifier for the attempt.
	ID uint64 `gorm:"primaryKey"`
	// Account holds the attempted account name as plain text, deliberately
	// not a foreign key so the audit trail survives account deletion or rename.
	Account string `gorm:"size:100;not null;index"`
	// Success indicates whether the attempt authenticated.
	Success bool `gorm:"not null"`
	// SourceIP is the remote address of the caller.
	SourceIP string `gorm:"size:45"`
	// CreatedAt is the timestamp of the attempt (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the LoginAttempt model.
func (LoginAttempt) TableName() string {
	return "login_attempts"
}
