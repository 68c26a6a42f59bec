package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"routelabel/internal/config"
	"routelabel/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	for _, access := range []Access{AccessRead, AccessWrite} {
		result := CheckDirectoryAccess("test", dir, access)
		if !result.Passed {
			t.Fatalf("expected pass for temp dir (%s), got: %s", access, result.Detail)
		}
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), AccessRead)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, AccessWrite)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Empty(t *testing.T) {
	if result := CheckDirectoryAccess("test", "  ", AccessRead); result.Passed {
		t.Fatal("expected failure for unconfigured path")
	}
}

func modelServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models/lights" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckModel(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		pass   bool
	}{
		{"available", http.StatusOK, `{"model_version_status":[{"version":"1","state":"AVAILABLE"}]}`, true},
		{"loading", http.StatusOK, `{"model_version_status":[{"version":"1","state":"LOADING"}]}`, false},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := modelServer(t, tc.status, tc.body)
			result := CheckModel(context.Background(), config.Model{BaseURL: srv.URL, Name: "lights", TimeoutSeconds: 2})
			if result.Passed != tc.pass {
				t.Fatalf("Passed = %v, want %v (detail %q)", result.Passed, tc.pass, result.Detail)
			}
		})
	}
}

func TestCheckModel_MissingSettings(t *testing.T) {
	if r := CheckModel(context.Background(), config.Model{Name: "lights"}); r.Passed {
		t.Fatal("expected failure for missing url")
	}
	if r := CheckModel(context.Background(), config.Model{BaseURL: "http://localhost"}); r.Passed {
		t.Fatal("expected failure for missing model name")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_TestConfig(t *testing.T) {
	srv := modelServer(t, http.StatusOK, `{"model_version_status":[{"version":"1","state":"AVAILABLE"}]}`)
	cfg := testsupport.NewConfig(t, testsupport.WithModelURL(srv.URL))
	cfg.Model.Name = "lights"

	results := RunAll(context.Background(), cfg)
	want := 4 + len(cfg.LabelNames()) + 1
	if len(results) != want {
		t.Fatalf("expected %d results, got %d", want, len(results))
	}
	if err := Err(results); err != nil {
		t.Fatalf("unexpected failures: %v", err)
	}
}

func TestErrFoldsFailures(t *testing.T) {
	results := []Result{
		{Name: "a", Passed: true},
		{Name: "b", Detail: "missing"},
		{Name: "c", Detail: "denied"},
	}
	if got := len(Failed(results)); got != 2 {
		t.Fatalf("Failed returned %d results", got)
	}
	err := Err(results)
	if err == nil || !strings.Contains(err.Error(), "b: missing") || !strings.Contains(err.Error(), "c: denied") {
		t.Fatalf("unexpected error %v", err)
	}
	if results[0].StatusLabel() != "OK" || results[1].StatusLabel() != "FAIL" {
		t.Fatal("unexpected status labels")
	}
}
