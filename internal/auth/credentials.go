package auth

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GoContent-Admin/GoContent-Admin/internal/captcha"
	"github.com/GoContent-Admin/GoContent-Admin/internal/db/models"
)

// PasswordMaxAgeMonths is the password age after which a successful login
// carries the expired flag.
const PasswordMaxAgeMonths = 3

// ValidatedLogin is the outcome of a successful credential validation.
type ValidatedLogin struct {
	User *models.User
	// PasswordExpired is set when the password is older than
	// PasswordMaxAgeMonths; the login still succeeds.
	PasswordExpired bool
}

// CredentialValidator orchestrates the login state machine: captcha,
// lockout, identity lookup, password verification, counter update.
type CredentialValidator struct {
	db      *gorm.DB
	captcha *captcha.Gate
	lockout *LockoutPolicy
}

// NewCredentialValidator creates a validator over the given database and captcha gate.
func NewCredentialValidator(db *gorm.DB, gate *captcha.Gate) *CredentialValidator {
	return &CredentialValidator{
		db:      db,
		captcha: gate,
		lockout: NewLockoutPolicy(db),
	}
}

// Lockout exposes the lockout policy for explicit administrative unlocks.
func (v *CredentialValidator) Lockout() *LockoutPolicy {
	return v.lockout
}

// Validate runs the login steps in fixed order and short-circuits on the
// first failure. The caller is expected to append one LoginAttempt audit row
// per call regardless of the branch taken.
func (v *CredentialValidator) Validate(account, password, captchaAnswer, captchaToken string) (*ValidatedLogin, error) {
	// 1. captcha, consumed exactly once; failure never touches the counter
	if !v.captcha.Validate(captchaAnswer, captchaToken) {
		return nil, ErrCaptchaInvalid
	}

	// lookup includes soft-deleted accounts: they still take part in
	// lockout bookkeeping even though they can never authenticate
	var user models.User

	err := v.db.Unscoped().Where("account = ?", account).First(&user).Error

	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	// 2. lockout wins over everything below, correct password included
	if found {
		locked, lockErr := v.lockout.IsLocked(&user)
		if lockErr != nil {
			return nil, lockErr
		}

		if locked {
			return nil, ErrAccountLocked
		}
	}

	// 3. absent and soft-deleted collapse into the generic failure
	if !found || user.DeletedAt.Valid {
		if found {
			if failErr := v.lockout.OnFailure(&user); failErr != nil {
				return nil, failErr
			}
		}

		return nil, ErrInvalidCredentials
	}

	// 4. password check, same generic message as the unknown-account path
	if !user.VerifyPassword(password) {
		if failErr := v.lockout.OnFailure(&user); failErr != nil {
			return nil, failErr
		}

		return nil, ErrInvalidCredentials
	}

	// 5. success: reset the counter, compute password age
	if err := v.lockout.OnSuccess(&user); err != nil {
		return nil, err
	}

	expired := user.PasswordChangedAt.AddDate(0, PasswordMaxAgeMonths, 0).Before(time.Now())

	return &ValidatedLogin{User: &user, PasswordExpired: expired}, nil
}
