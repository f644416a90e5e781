package types

import "errors"

// Errors shared by the registry, the lifecycle manager and the command router.
// They are wrapped with context; compare with errors.Is.
var (
	ErrNotFound            = errors.New("tab not found")
	ErrInvalidURL          = errors.New("invalid url")
	ErrWindowMissing       = errors.New("host window unavailable")
	ErrSurfaceCreateFailed = errors.New("failed to create surface")
	ErrSurfaceOpFailed     = errors.New("surface operation failed")
	ErrLockUnavailable     = errors.New("state lock unavailable")
	ErrInvalidJSON         = errors.New("invalid json")
)
