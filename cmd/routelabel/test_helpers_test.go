package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir      string
	configPath   string
	extractedDir string
	outputDir    string
	archiveDir   string
	logDir       string
	previewPath  string
}

// setupCLITestEnv writes a config file rooted in a temp directory whose model
// endpoint is modelURL.
func setupCLITestEnv(t *testing.T, modelURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	env := &cliTestEnv{
		baseDir:      base,
		configPath:   filepath.Join(base, "routelabel.toml"),
		extractedDir: filepath.Join(base, "extracted"),
		outputDir:    filepath.Join(base, "output"),
		archiveDir:   filepath.Join(base, "archive"),
		logDir:       filepath.Join(base, "logs"),
		previewPath:  filepath.Join(base, "preview.jpg"),
	}
	if err := os.MkdirAll(env.extractedDir, 0o755); err != nil {
		t.Fatalf("mkdir extracted: %v", err)
	}
	content := fmt.Sprintf(`[paths]
extracted_dir = %q
output_dir = %q
archive_dir = %q
log_dir = %q
preview_path = %q

[model]
base_url = %q
name = "lights"
timeout_seconds = 5

[crop]
side = 0
top = 0
hood_y = 0

[review]
default_skip_seconds = 0
`, env.extractedDir, env.outputDir, env.archiveDir, env.logDir, env.previewPath, modelURL)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

// newModelServer answers health probes and scores every instance as the
// first model class.
func newModelServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/models/lights":
			_, _ = w.Write([]byte(`{"model_version_status":[{"version":"1","state":"AVAILABLE"}]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v1/models/lights:predict":
			var req struct {
				Instances []json.RawMessage `json:"instances"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			preds := make([]string, len(req.Instances))
			for i := range preds {
				preds[i] = "[0.7,0.2,0.1]"
			}
			_, _ = fmt.Fprintf(w, `{"predictions":[%s]}`, strings.Join(preds, ","))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
