package booking

import "errors"

// Error kinds surfaced by the engine. Operations wrap these with a message,
// so callers match with errors.Is and map each kind to a stable response
// code without parsing strings.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid transition")
)
