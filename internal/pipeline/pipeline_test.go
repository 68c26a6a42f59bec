package pipeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"routelabel/internal/config"
	"routelabel/internal/ledger"
	"routelabel/internal/metrics"
	"routelabel/internal/pipeline"
	"routelabel/internal/services"
	"routelabel/internal/terminal"
	"routelabel/internal/testsupport"
)

// modelServer answers health probes and returns predictions[i] for the
// i-th instance of every predict request.
func modelServer(t *testing.T, predictions [][]float64, predictStatus int) *httptest.Server {
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
			if predictStatus != http.StatusOK {
				w.WriteHeader(predictStatus)
				_, _ = w.Write([]byte(`{"error":"model unavailable"}`))
				return
			}
			if len(req.Instances) > len(predictions) {
				http.Error(w, "too many instances", http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"predictions": predictions[:len(req.Instances)]})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func abcConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t,
		testsupport.WithModelURL(url),
		testsupport.WithDefaultSkipSeconds(0),
		testsupport.WithCrop(0, 0, 0),
	)
	cfg.Model.Name = "lights"
	cfg.Labels = config.Labels{
		Classes:      []config.LabelClass{{Name: "A", Key: "A"}, {Name: "B", Key: "B"}, {Name: "C", Key: "C"}},
		ModelClasses: []string{"A", "B", "C"},
		Suggestions:  map[string]string{"A": "A", "B": "B", "C": "C"},
	}
	return cfg
}

func runWithInput(t *testing.T, cfg *config.Config, input string, collector ...*metrics.Collector) (pipeline.Result, string, error) {
	t.Helper()
	var out bytes.Buffer
	opts := pipeline.Options{
		Source:  terminal.NewLineSource(strings.NewReader(input), &out),
		Preview: terminal.NewPreview(cfg.Paths.PreviewPath, &out, nil),
		Out:     &out,
	}
	if len(collector) > 0 {
		opts.Metrics = collector[0]
	}
	result, err := pipeline.Run(context.Background(), cfg, opts)
	return result, out.String(), err
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	return len(entries)
}

func TestRunThreeFrameRoute(t *testing.T) {
	srv := modelServer(t, [][]float64{{0.9, 0.05, 0.05}, {0.1, 0.8, 0.1}, {0.2, 0.2, 0.6}}, http.StatusOK)
	cfg := abcConfig(t, srv.URL)
	routeDir := testsupport.WriteRoute(t, cfg.Paths.ExtractedDir, "route1", 3)

	collector := metrics.New()
	result, out, err := runWithInput(t, cfg, "A\nB\nC\n", collector)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if result.Summary.Routes != 1 || result.Summary.Filed != 3 || len(result.Failures) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	for _, label := range []string{"A", "B", "C"} {
		if n := countFiles(t, cfg.LabelDir(label)); n != 1 {
			t.Fatalf("label %s has %d files, want 1", label, n)
		}
	}
	if _, err := os.Stat(routeDir); !os.IsNotExist(err) {
		t.Fatalf("route directory should be gone, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.ArchiveDir, "route1")); err != nil {
		t.Fatalf("route not archived: %v", err)
	}
	if n, err := testutil.GatherAndCount(collector.Registry(), "routelabel_frames_filed_total"); err != nil || n != 3 {
		t.Fatalf("filed frame series = %d (err %v), want 3", n, err)
	}
	if _, err := os.Stat(cfg.Paths.PreviewPath); err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	for _, want := range []string{"A (90%)", "Moved to C folder!", "All routes classified!"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	store := testsupport.MustOpenLedger(t, cfg)
	decisions, err := store.DecisionsForRoute(context.Background(), "route1")
	if err != nil {
		t.Fatalf("DecisionsForRoute: %v", err)
	}
	if len(decisions) != 3 {
		t.Fatalf("recorded %d decisions, want 3", len(decisions))
	}
	for _, d := range decisions {
		if !d.Agreed() || d.SessionID != result.SessionID {
			t.Fatalf("unexpected decision %+v", d)
		}
	}
	outcomes, err := store.OutcomeCounts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcomes[ledger.OutcomeReviewed] != 1 {
		t.Fatalf("unexpected outcomes %v", outcomes)
	}
}

func TestRunLeavesUnscoredRouteInPlace(t *testing.T) {
	srv := modelServer(t, nil, http.StatusServiceUnavailable)
	cfg := abcConfig(t, srv.URL)
	routeDir := testsupport.WriteRoute(t, cfg.Paths.ExtractedDir, "route1", 2)

	result, out, err := runWithInput(t, cfg, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Failures) != 1 || !errors.Is(result.Failures[0].Err, services.ErrInference) {
		t.Fatalf("unexpected failures %+v", result.Failures)
	}
	if _, err := os.Stat(routeDir); err != nil {
		t.Fatalf("failed route must stay in place: %v", err)
	}
	if !strings.Contains(out, "could not be scored") {
		t.Fatalf("failure summary missing:\n%s", out)
	}
}

func TestRunQuitStopsBeforeNextRoute(t *testing.T) {
	srv := modelServer(t, [][]float64{{1, 0, 0}, {1, 0, 0}}, http.StatusOK)
	cfg := abcConfig(t, srv.URL)
	testsupport.WriteRoute(t, cfg.Paths.ExtractedDir, "route1", 2)
	second := testsupport.WriteRoute(t, cfg.Paths.ExtractedDir, "route2", 2)

	result, _, err := runWithInput(t, cfg, "A\nQUIT\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Summary.Quit || result.Summary.Filed != 1 {
		t.Fatalf("unexpected summary %+v", result.Summary)
	}
	if _, err := os.Stat(second); err != nil {
		t.Fatalf("unreviewed route must stay in place: %v", err)
	}
}

func TestRunRejectsConcurrentSession(t *testing.T) {
	cfg := abcConfig(t, "http://127.0.0.1:0")
	held := flock.New(pipeline.LockPath(cfg))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock = (%v, %v)", ok, err)
	}
	defer held.Unlock()

	_, _, err = runWithInput(t, cfg, "")
	if !errors.Is(err, pipeline.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunFailsPreflightWithoutModel(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := abcConfig(t, srv.URL)
	srv.Close()

	_, _, err := runWithInput(t, cfg, "")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
