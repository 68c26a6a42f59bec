package metrics

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"routelabel/internal/ledger"
)

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveInference(time.Second, 3, nil)
	c.RouteFinished(ledger.OutcomeReviewed)
	c.FrameFiled("RED", true)
	c.FrameSkipped()
	c.WatchQueue(func() int { return 0 }, func() int { return 0 })
}

func TestCollectorCounts(t *testing.T) {
	c := New()
	c.ObserveInference(200*time.Millisecond, 4, nil)
	c.ObserveInference(time.Second, 2, errors.New("503"))
	c.RouteFinished(ledger.OutcomeReviewed)
	c.RouteFinished(ledger.OutcomeEmpty)
	c.RouteFinished(ledger.OutcomeReviewed)
	c.FrameFiled("RED", true)
	c.FrameFiled("RED", false)
	c.FrameFiled("RED", true)
	c.FrameSkipped()

	if got := testutil.ToFloat64(c.inferenceFrames); got != 6 {
		t.Fatalf("inference frames = %v, want 6", got)
	}
	if got := testutil.ToFloat64(c.inferenceErrors); got != 1 {
		t.Fatalf("inference errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.routes.WithLabelValues("reviewed")); got != 2 {
		t.Fatalf("reviewed routes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.framesFiled.WithLabelValues("RED", "true")); got != 2 {
		t.Fatalf("agreed RED frames = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.framesSkipped); got != 1 {
		t.Fatalf("skipped frames = %v, want 1", got)
	}
}

func TestServeExposesMetrics(t *testing.T) {
	c := New()
	depth := 2
	c.WatchQueue(func() int { return depth }, func() int { return depth + 1 })
	c.RouteFinished(ledger.OutcomeFailed)

	srv, err := Serve("127.0.0.1:0", c, nil)
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	defer srv.Close()

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	text := string(body)
	for _, want := range []string{
		"routelabel_ready_queue_depth 2",
		"routelabel_ready_queue_reserved 3",
		`routelabel_routes_total{outcome="failed"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, text)
		}
	}
}
