package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParsePolicy(t *testing.T) {
	cfg, err := ParsePolicy([]byte("reviseWindowSeconds: 120\nsignedUrlTtlSeconds: 60\n"))
	if err != nil {
		t.Fatalf("ParsePolicy returned error: %v", err)
	}
	if cfg.ReviseWindow() != 2*time.Minute || cfg.SignedURLTTL() != time.Minute {
		t.Fatalf("unexpected policy %+v", cfg)
	}
	if cfg.DeleteWindowSeconds != 0 {
		t.Fatalf("expected unset delete window, got %d", cfg.DeleteWindowSeconds)
	}

	if _, err := ParsePolicy([]byte("reviseWindowSeconds: [")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadPolicyDefaults(t *testing.T) {
	t.Setenv(policyPathEnv, "")
	t.Setenv(reviseWindowEnv, "")
	t.Setenv(deleteWindowEnv, "")
	t.Setenv(signedURLTTLEnv, "")
	t.Setenv(maxUploadMBEnv, "")

	cfg := LoadPolicy()
	if cfg.ReviseWindow() != 300*time.Second || cfg.DeleteWindow() != 300*time.Second {
		t.Fatalf("unexpected default windows %+v", cfg)
	}
	if cfg.SignedURLTTL() != 300*time.Second {
		t.Fatalf("unexpected default link ttl %v", cfg.SignedURLTTL())
	}
	if cfg.MaxUploadBytes() != 10*1024*1024 {
		t.Fatalf("unexpected default upload limit %d", cfg.MaxUploadBytes())
	}
}

func TestLoadPolicyFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("reviseWindowSeconds: 600\ndeleteWindowSeconds: 900\nmaxUploadMb: 0\n"), 0o644); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	t.Setenv(policyPathEnv, path)
	t.Setenv(reviseWindowEnv, "")
	t.Setenv(deleteWindowEnv, "60")
	t.Setenv(signedURLTTLEnv, "not-a-number")
	t.Setenv(maxUploadMBEnv, "")

	cfg := LoadPolicy()
	if cfg.ReviseWindowSeconds != 600 {
		t.Fatalf("expected file value for revise window, got %d", cfg.ReviseWindowSeconds)
	}
	if cfg.DeleteWindowSeconds != 60 {
		t.Fatalf("expected env override for delete window, got %d", cfg.DeleteWindowSeconds)
	}
	if cfg.SignedURLTTLSeconds != defaultLinkTTLSecs {
		t.Fatalf("expected invalid env value to be ignored, got %d", cfg.SignedURLTTLSeconds)
	}
	if cfg.MaxUploadMB != defaultMaxUploadMB {
		t.Fatalf("expected zero file value to keep default, got %d", cfg.MaxUploadMB)
	}
}

func TestLoadPolicyMissingFileKeepsDefaults(t *testing.T) {
	t.Setenv(policyPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(reviseWindowEnv, "")
	t.Setenv(deleteWindowEnv, "")
	t.Setenv(signedURLTTLEnv, "")
	t.Setenv(maxUploadMBEnv, "")

	if cfg := LoadPolicy(); cfg != defaultPolicyConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}
