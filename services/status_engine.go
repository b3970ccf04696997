package services

import (
	"fmt"

	"research-repository-api/models"
)

// CanTransition reports whether a reviewer may move a submission from one
// status to another.
func CanTransition(from, to models.Status) bool {
	switch from {
	case models.StatusPending:
		switch to {
		case models.StatusReviewing, models.StatusApproved, models.StatusRejected:
			return true
		case models.StatusPending:
			return false
		}
	case models.StatusReviewing:
		switch to {
		case models.StatusApproved, models.StatusRejected:
			return true
		case models.StatusPending, models.StatusReviewing:
			return false
		}
	case models.StatusApproved, models.StatusRejected:
		return false
	}
	return false
}

// EnsureTransition returns ErrInvalidTransition when CanTransition is false.
func EnsureTransition(from, to models.Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// EnsureOwnerMutable rejects owner revise/delete on terminal statuses.
func EnsureOwnerMutable(status models.Status) error {
	if status.IsTerminal() {
		return fmt.Errorf("%w: status is %s", ErrSubmissionLocked, status)
	}
	return nil
}

// DefaultSubmissionType derives the type used when none was given explicitly.
func DefaultSubmissionType(status models.Status) models.SubmissionType {
	switch status {
	case models.StatusApproved:
		return models.SubmissionTypeFinal
	case models.StatusPending, models.StatusReviewing, models.StatusRejected:
		return models.SubmissionTypeDraft
	}
	return models.SubmissionTypeDraft
}

// ResolveSubmissionType returns the explicit type when given, otherwise the
// derived default for status.
func ResolveSubmissionType(explicit *models.SubmissionType, status models.Status) models.SubmissionType {
	if explicit != nil && *explicit != "" {
		return *explicit
	}
	return DefaultSubmissionType(status)
}
