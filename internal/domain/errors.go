package domain

import "errors"

// Domain errors
var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidToken      = errors.New("invalid token")
	ErrProfileNotFound   = errors.New("profile not found")

	// Selection resolution failures. Both degrade to "nothing selected".
	ErrUnresolvableSelection = errors.New("selection cannot be resolved to text offsets")
	ErrDegenerateRange       = errors.New("selection is empty")

	// ErrInvalidOperationArgument flags an empty, inverted or out of bounds range,
	// or an unknown color, passed to the interval store.
	ErrInvalidOperationArgument = errors.New("invalid highlight range or color")
	ErrNoPendingSelection       = errors.New("no pending selection")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
