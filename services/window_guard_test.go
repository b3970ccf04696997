package services

import (
	"testing"
	"time"

	"research-repository-api/models"
)

func TestIsWithinWindowBoundary(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	window := 300 * time.Second

	cases := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{name: "at creation", elapsed: 0, want: true},
		{name: "well inside", elapsed: 299 * time.Second, want: true},
		{name: "exact boundary", elapsed: 300 * time.Second, want: true},
		{name: "one millisecond late", elapsed: 300*time.Second + time.Millisecond, want: false},
		{name: "well outside", elapsed: 301 * time.Second, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsWithinWindow(created, created.Add(tc.elapsed), window); got != tc.want {
				t.Fatalf("IsWithinWindow after %v = %v, want %v", tc.elapsed, got, tc.want)
			}
		})
	}
}

func TestWindowGuardIsMonotonic(t *testing.T) {
	guard := NewWindowGuard(DefaultPolicy())
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	closed := false
	for step := 0; step <= 700; step += 7 {
		now := created.Add(time.Duration(step) * time.Second)
		open := guard.CanRevise(created, now)
		if closed && open {
			t.Fatalf("window reopened at %ds", step)
		}
		if !open {
			closed = true
		}
	}
	if !closed {
		t.Fatalf("expected window to close within the scan")
	}
}

func TestWindowGuardPermissions(t *testing.T) {
	guard := NewWindowGuard(Policy{ReviseWindow: 60 * time.Second, DeleteWindow: 120 * time.Second})
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	sub := &models.Submission{Status: models.StatusPending, CreatedAt: created}

	perms := guard.Permissions(sub, created.Add(90*time.Second))
	if perms.CanRevise {
		t.Fatalf("expected revise to be closed after 90s")
	}
	if !perms.CanDelete {
		t.Fatalf("expected delete to be open after 90s")
	}
	if !perms.ReviseDeadline.Equal(created.Add(60 * time.Second)) {
		t.Fatalf("unexpected revise deadline %v", perms.ReviseDeadline)
	}
	if !perms.DeleteDeadline.Equal(created.Add(120 * time.Second)) {
		t.Fatalf("unexpected delete deadline %v", perms.DeleteDeadline)
	}

	sub.Status = models.StatusApproved
	perms = guard.Permissions(sub, created.Add(time.Second))
	if perms.CanRevise || perms.CanDelete {
		t.Fatalf("expected approved submission to deny both operations, got %+v", perms)
	}
}
