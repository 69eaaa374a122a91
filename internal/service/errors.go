package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. Mapped to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrNoteNotFound indicates that the requested note does not exist.
	// Mapped to HTTP 404 Not Found.
	ErrNoteNotFound = errors.New("note not found")

	// ErrUserNotFound indicates that the requested user does not exist.
	// Mapped to HTTP 404 Not Found.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates that the email is already registered.
	// Mapped to HTTP 409 Conflict.
	ErrEmailTaken = errors.New("email address is already registered")

	// ErrInvalidCredentials indicates a failed login attempt. Mapped to
	// HTTP 401 Unauthorized; deliberately does not distinguish an unknown
	// email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
