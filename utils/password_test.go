package utils

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "correct horse" {
		t.Fatalf("expected hashed value")
	}
	if !CheckPasswordHash("correct horse", hash) {
		t.Fatalf("expected password to match its hash")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("short"); ok {
		t.Fatalf("expected short password to be rejected")
	}
	if ok, _ := ValidatePassword("          "); ok {
		t.Fatalf("expected blank password to be rejected")
	}
	if ok, msg := ValidatePassword("long enough"); !ok {
		t.Fatalf("expected password to pass, got %q", msg)
	}
}
