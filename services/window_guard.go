package services

import (
	"time"

	"research-repository-api/models"
)

const (
	DefaultReviseWindow = 300 * time.Second
	DefaultDeleteWindow = 300 * time.Second
	DefaultSignedURLTTL = 300 * time.Second
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// Policy holds the review rules that are configurable per deployment.
type Policy struct {
	ReviseWindow time.Duration
	DeleteWindow time.Duration
	SignedURLTTL time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		ReviseWindow: DefaultReviseWindow,
		DeleteWindow: DefaultDeleteWindow,
		SignedURLTTL: DefaultSignedURLTTL,
	}
}

// IsWithinWindow reports whether now is at most window after createdAt.
// The boundary is inclusive.
func IsWithinWindow(createdAt, now time.Time, window time.Duration) bool {
	return now.Sub(createdAt) <= window
}

// WindowGuard gates owner mutations on the time elapsed since creation.
type WindowGuard struct {
	policy Policy
}

func NewWindowGuard(policy Policy) WindowGuard {
	return WindowGuard{policy: policy}
}

func (g WindowGuard) CanRevise(createdAt, now time.Time) bool {
	return IsWithinWindow(createdAt, now, g.policy.ReviseWindow)
}

func (g WindowGuard) CanDelete(createdAt, now time.Time) bool {
	return IsWithinWindow(createdAt, now, g.policy.DeleteWindow)
}

func (g WindowGuard) ReviseDeadline(createdAt time.Time) time.Time {
	return createdAt.Add(g.policy.ReviseWindow)
}

func (g WindowGuard) DeleteDeadline(createdAt time.Time) time.Time {
	return createdAt.Add(g.policy.DeleteWindow)
}

// Permissions is the advisory view of what the owner may still do.
type Permissions struct {
	CanRevise      bool      `json:"can_revise"`
	CanDelete      bool      `json:"can_delete"`
	ReviseDeadline time.Time `json:"revise_deadline"`
	DeleteDeadline time.Time `json:"delete_deadline"`
}

// Permissions evaluates both the status and the window rules for sub at now.
func (g WindowGuard) Permissions(sub *models.Submission, now time.Time) Permissions {
	mutable := EnsureOwnerMutable(sub.Status) == nil
	return Permissions{
		CanRevise:      mutable && g.CanRevise(sub.CreatedAt, now),
		CanDelete:      mutable && g.CanDelete(sub.CreatedAt, now),
		ReviseDeadline: g.ReviseDeadline(sub.CreatedAt),
		DeleteDeadline: g.DeleteDeadline(sub.CreatedAt),
	}
}
