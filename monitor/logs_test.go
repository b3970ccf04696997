package monitor

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestTailFileReturnsLastBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	if err := os.WriteFile(path, []byte("first line\nsecond line\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	data, err := TailFile(path, 12)
	if err != nil {
		t.Fatalf("TailFile returned error: %v", err)
	}
	if string(data) != "second line\n" {
		t.Fatalf("unexpected tail %q", data)
	}

	data, err = TailFile(path, 1024)
	if err != nil {
		t.Fatalf("TailFile returned error: %v", err)
	}
	if string(data) != "first line\nsecond line\n" {
		t.Fatalf("expected whole file, got %q", data)
	}
}

func TestLogsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	path := filepath.Join(dir, "api.log")
	if err := os.WriteFile(path, []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	router := gin.New()
	RegisterLogsRoute(router.Group("/admin"), path)
	RegisterLogsRoute(router.Group("/missing"), filepath.Join(dir, "nope.log"))

	cases := []struct {
		url    string
		status int
		body   string
	}{
		{url: "/admin/logs", status: http.StatusOK, body: "hello\n"},
		{url: "/admin/logs?bytes=3", status: http.StatusOK, body: "lo\n"},
		{url: "/admin/logs?bytes=-1", status: http.StatusBadRequest},
		{url: "/missing/logs", status: http.StatusNotFound},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.url, tc.status, rec.Code)
		}
		if tc.body != "" && rec.Body.String() != tc.body {
			t.Fatalf("%s: unexpected body %q", tc.url, rec.Body.String())
		}
	}
}
