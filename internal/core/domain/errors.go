package domain

import "errors"

// Credential and registration failures.
var (
	// ErrInvalidCredentials covers both unknown username and wrong password;
	// callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrTooManyAttempts    = errors.New("too many failed sign-in attempts")
)

// Token validation failures.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenForged    = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// ErrRoleNotFound means a seeded role record is missing from storage. It is
// a data-integrity fault, not a user error: the operation aborts rather
// than guessing a fallback role.
var ErrRoleNotFound = errors.New("role not found")
