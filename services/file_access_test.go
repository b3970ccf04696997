package services

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"research-repository-api/models"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestResolveFileAccessApprovedUsesSignedLink(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	signer := NewJWTLinkSigner("link-secret", "https://repo.example.org/api/v1/", clock)

	sub := sampleSubmission()
	sub.Status = models.StatusApproved

	for _, requester := range []Requester{
		{UserID: "user-1", IsOwner: true},
		{UserID: "someone-else"},
		{UserID: "reviewer", Privileged: true},
	} {
		plan, err := ResolveFileAccess(&sub, requester, signer, "https://repo.example.org/api/v1", clock.Now(), 5*time.Minute)
		if err != nil {
			t.Fatalf("unexpected error for %+v: %v", requester, err)
		}
		if plan.Mode != AccessSignedURL || plan.RequiresSession {
			t.Fatalf("expected signed link without session, got %+v", plan)
		}
		if !strings.HasPrefix(plan.URL, "https://repo.example.org/api/v1/files/signed/") {
			t.Fatalf("unexpected signed url %q", plan.URL)
		}
		if plan.ExpiresAt == nil || !plan.ExpiresAt.Equal(clock.Now().Add(5*time.Minute)) {
			t.Fatalf("unexpected expiry %v", plan.ExpiresAt)
		}

		token := strings.TrimPrefix(plan.URL, "https://repo.example.org/api/v1/files/signed/")
		claims, err := signer.Verify(token)
		if err != nil {
			t.Fatalf("Verify returned error: %v", err)
		}
		if claims.SubmissionID != sub.SubmissionID || !signer.MatchesFile(claims, "users/user-1/submissions/old.pdf") {
			t.Fatalf("unexpected claims %+v", claims)
		}
		if signer.MatchesFile(claims, "users/user-1/submissions/other.pdf") {
			t.Fatalf("claims must not match a different file")
		}
	}
}

func TestResolveFileAccessUnapprovedRequiresSession(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	signer := NewJWTLinkSigner("link-secret", "https://repo.example.org/api/v1", &fixedClock{now: now})

	for _, status := range []models.Status{models.StatusPending, models.StatusReviewing, models.StatusRejected} {
		sub := sampleSubmission()
		sub.Status = status

		for _, requester := range []Requester{{UserID: "user-1", IsOwner: true}, {UserID: "rev", Privileged: true}} {
			plan, err := ResolveFileAccess(&sub, requester, signer, "https://repo.example.org/api/v1", now, time.Minute)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", status, err)
			}
			if plan.Mode != AccessAuthenticatedStream || !plan.RequiresSession || plan.ExpiresAt != nil {
				t.Fatalf("%s: expected authenticated stream, got %+v", status, plan)
			}
			if plan.URL != "https://repo.example.org/api/v1/submissions/sub-1/file/content" {
				t.Fatalf("%s: unexpected stream url %q", status, plan.URL)
			}
		}

		_, err := ResolveFileAccess(&sub, Requester{UserID: "stranger"}, signer, "", now, time.Minute)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden for stranger, got %v", status, err)
		}
	}
}

func TestResolveFileAccessWithoutFile(t *testing.T) {
	sub := sampleSubmission()
	sub.SetFileRef(nil)

	for _, status := range models.Statuses {
		sub.Status = status
		_, err := ResolveFileAccess(&sub, Requester{UserID: "stranger"}, nil, "", time.Now(), time.Minute)
		if !errors.Is(err, ErrNoFileAttached) {
			t.Fatalf("%s: expected ErrNoFileAttached, got %v", status, err)
		}
	}
}

func TestJWTLinkSignerRejectsExpiredAndForeignTokens(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	signer := NewJWTLinkSigner("link-secret", "http://localhost/api/v1", clock)
	other := NewJWTLinkSigner("other-secret", "http://localhost/api/v1", clock)

	ref := models.FileRef{Name: "a.pdf", StoragePath: "users/u/submissions/a.pdf"}
	link, err := signer.SignedURL("sub-1", ref, clock.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("SignedURL returned error: %v", err)
	}
	token := link[strings.LastIndex(link, "/")+1:]

	if _, err := other.Verify(token); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected token signed with another secret to be rejected, got %v", err)
	}

	clock.Advance(2 * time.Minute)
	if _, err := signer.Verify(token); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	if _, err := NewJWTLinkSigner("", "", clock).SignedURL("sub-1", ref, clock.Now()); err == nil {
		t.Fatalf("expected error without a secret")
	}
}

func TestSignedLinkPayloadHidesStorageLayout(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	signer := NewJWTLinkSigner("link-secret", "http://localhost/api/v1", clock)

	ref := models.FileRef{Name: "thesis-final.pdf", StoragePath: "users/owner-42/submissions/abc.pdf", MimeType: "application/pdf"}
	link, err := signer.SignedURL("sub-1", ref, clock.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("SignedURL returned error: %v", err)
	}

	parts := strings.Split(link[strings.LastIndex(link, "/")+1:], ".")
	if len(parts) != 3 {
		t.Fatalf("expected a three-part token, got %d parts", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	for _, leaked := range []string{"owner-42", "users/", "thesis-final", "abc.pdf"} {
		if strings.Contains(string(payload), leaked) {
			t.Fatalf("token payload exposes %q: %s", leaked, payload)
		}
	}

	other := NewJWTLinkSigner("other-secret", "http://localhost/api/v1", clock)
	claims, err := signer.Verify(parts[0] + "." + parts[1] + "." + parts[2])
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if other.MatchesFile(claims, ref.StoragePath) {
		t.Fatalf("digest must depend on the signing secret")
	}
	if signer.MatchesFile(&FileLinkClaims{SubmissionID: "sub-1"}, ref.StoragePath) {
		t.Fatalf("claims without a digest must not match")
	}
}
