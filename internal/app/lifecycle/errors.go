package lifecycle

import "errors"

var (
	ErrNotFound        = errors.New("not_found")
	ErrNotActive       = errors.New("not_active")
	ErrAlreadyFinished = errors.New("already_finished")
	ErrBanned          = errors.New("banned")
	ErrValidation      = errors.New("validation_failed")
)

// ValidationError reports the specific tournament constraint violated.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
