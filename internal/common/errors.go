package common

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown identifier and a wrong
	// password so the two cannot be told apart by callers.
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrMissingCredentials      = errors.New("identifier and password are required")
	ErrExternalAccountNotFound = errors.New("no servicem8 contact matches this user")
	ErrSessionNotFound         = errors.New("session not found")
	ErrNoLinkedAccount         = errors.New("user has no linked servicem8 account")
	ErrEmptyMessage            = errors.New("message is required")
	ErrUserExists              = errors.New("user already exists")
	ErrInvalidSignup           = errors.New("name, email and password are required")
	ErrPasswordTooShort        = errors.New("password must be at least 6 characters")
	ErrRateLimited             = errors.New("too many attempts")
)
