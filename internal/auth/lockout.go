package auth

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GoContent-Admin/GoContent-Admin/internal/db/models"
)

const (
	// LockoutThreshold is the number of consecutive failures that locks an account.
	LockoutThreshold = 5
	// LockoutDuration is how long a lockout lasts before it expires on its own.
	LockoutDuration = 30 * time.Minute
)

// LockoutPolicy maintains the per-account failure counter and the time-boxed
// lockout window on the user row.
//
// The counter read-modify-write is deliberately not serialized across
// concurrent login attempts for the same account: a slight under- or
// overcount under racing logins is acceptable for a mitigation, and not
// worth row locking on every attempt.
type LockoutPolicy struct {
	db *gorm.DB
}

// NewLockoutPolicy creates a lockout policy over the given database.
func NewLockoutPolicy(db *gorm.DB) *LockoutPolicy {
	return &LockoutPolicy{db: db}
}

// IsLocked reports whether the account is currently locked. An elapsed
// lockout is cleared here as a side effect: the window end is unset and the
// failure counter reset, so the account unlocks lazily on its next check.
func (p *LockoutPolicy) IsLocked(user *models.User) (bool, error) {
	if user.LockoutEnd == nil {
		return false, nil
	}

	if user.LockoutEnd.After(time.Now()) {
		return true, nil
	}

	user.LockoutEnd = nil
	user.FailedLoginCount = 0

	err := p.db.Unscoped().Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"failed_login_count": 0,
			"lockout_end":        nil,
		}).Error
	if err != nil {
		return false, fmt.Errorf("failed to clear elapsed lockout: %w", err)
	}

	return false, nil
}

// OnFailure increments the failure counter and starts the lockout window
// when the counter reaches the threshold. A nil user is a no-op so callers
// can report failures for accounts that do not exist.
func (p *LockoutPolicy) OnFailure(user *models.User) error {
	if user == nil {
		return nil
	}

	user.FailedLoginCount++

	updates := map[string]interface{}{
		"failed_login_count": user.FailedLoginCount,
	}

	if user.FailedLoginCount >= LockoutThreshold {
		end := time.Now().Add(LockoutDuration)
		user.LockoutEnd = &end
		updates["lockout_end"] = end
	}

	err := p.db.Unscoped().Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}

	return nil
}

// OnSuccess resets the failure counter. It does not touch the lockout end,
// which only the lazy expiry in IsLocked or an explicit unlock clears.
func (p *LockoutPolicy) OnSuccess(user *models.User) error {
	user.FailedLoginCount = 0

	err := p.db.Unscoped().Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("failed_login_count", 0).Error
	if err != nil {
		return fmt.Errorf("failed to reset failure counter: %w", err)
	}

	return nil
}
