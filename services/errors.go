package services

import "errors"

// Outcomes of submission operations. Every failure is returned before any
// write happens.
var (
	ErrEditWindowExpired   = errors.New("edit window has expired")
	ErrDeleteWindowExpired = errors.New("delete window has expired")
	ErrSubmissionLocked    = errors.New("submission is locked by its review status")
	ErrNotFound            = errors.New("submission not found")
	ErrForbidden           = errors.New("not allowed to access this submission")
	ErrNoFileAttached      = errors.New("submission has no file attached")
	ErrValidationFailed    = errors.New("validation failed")
	ErrInvalidTransition   = errors.New("status transition not allowed")
)

// ErrorCode returns the stable machine-readable code for err.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrEditWindowExpired):
		return "edit_window_expired"
	case errors.Is(err, ErrDeleteWindowExpired):
		return "delete_window_expired"
	case errors.Is(err, ErrSubmissionLocked):
		return "submission_locked"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNoFileAttached):
		return "no_file_attached"
	case errors.Is(err, ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "internal_error"
	}
}
