package domain

import "errors"

// Error taxonomy shared by repositories, services and the HTTP layer.
// Callers wrap these with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrDuplicateRequest  = errors.New("already requested")
	ErrAuth              = errors.New("authentication failed")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStore             = errors.New("store error")
)
