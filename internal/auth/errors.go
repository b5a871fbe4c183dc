package auth

import "errors"

var (
	// ErrCaptchaInvalid is returned when the captcha answer does not match,
	// the token is unknown, expired, or was already consumed.
	ErrCaptchaInvalid = errors.New("captcha verification failed")

	// ErrAccountLocked is returned while an account is inside its lockout window.
	ErrAccountLocked = errors.New("account is temporarily locked, try again later")

	// ErrInvalidCredentials covers both "unknown account" and "wrong password".
	// The two must stay byte-for-byte indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid account or password")

	// ErrInvalidOldPassword is returned when the provided old password does not match the user's current password.
	ErrInvalidOldPassword = errors.New("invalid old password")

	// ErrPasswordUnchanged is returned when the new password verifies against the current hash.
	ErrPasswordUnchanged = errors.New("new password must differ from the current password")

	// ErrUserNotFound is returned when a user cannot be found on a direct lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrRoleNotFound is returned when a role cannot be found on a direct lookup.
	ErrRoleNotFound = errors.New("role not found")

	// ErrUnknownFunction is returned when a permission grant references a
	// function that does not exist; the whole replace is aborted.
	ErrUnknownFunction = errors.New("permission grant references an unknown function")

	// ErrInvalidCRUDType is returned for a crud type outside create/read/update/delete.
	ErrInvalidCRUDType = errors.New("invalid crud type")

	// ErrPermissionDenied is returned when the caller lacks the grant for an operation.
	ErrPermissionDenied = errors.New("insufficient permission")
)
