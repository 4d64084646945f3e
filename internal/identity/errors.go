// Package identity verifies bearer credentials, issues tokens and manages local accounts.
package identity

import "errors"

// Identity errors
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidLogin      = errors.New("invalid email or password")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrWeakPassword      = errors.New("password must be between 8 and 72 characters")
	ErrUserNotFound      = errors.New("user not found")
	ErrRevocationOff     = errors.New("token revocation is not configured")
)

// IsCredentialError checks if err rejects the caller's credential
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrInvalidCredential)
}
