package frames_test

import (
	"context"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"routelabel/internal/frames"
	"routelabel/internal/logging"
	"routelabel/internal/testsupport"
)

func TestLoadDropsUndecodableFrames(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFrame(t, filepath.Join(dir, "r.0.png"), 4, 3, color.RGBA{R: 255, A: 255})
	testsupport.WriteGarbage(t, filepath.Join(dir, "r.1.png"))
	testsupport.WriteFrame(t, filepath.Join(dir, "r.2.png"), 4, 3, color.RGBA{B: 255, A: 255})

	loader := frames.NewLoader(logging.NewNop())
	got, err := loader.LoadRoute(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadRoute: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(got))
	}
	if got[0].Name != "r.0.png" || got[1].Name != "r.2.png" || got[1].Index != 2 {
		t.Fatalf("unexpected frames: %q %q", got[0].Name, got[1].Name)
	}
	if got[0].Width != 4 || got[0].Height != 3 || len(got[0].Pix) != 4*3*3 {
		t.Fatalf("unexpected geometry %dx%d pix=%d", got[0].Width, got[0].Height, len(got[0].Pix))
	}
	r, g, b := got[0].At(1, 1)
	if r != 1 || g != 0 || b != 0 {
		t.Fatalf("expected pure red, got %v %v %v", r, g, b)
	}
}

func TestLoadAllGarbageYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteGarbage(t, filepath.Join(dir, "r.0.jpg"))
	testsupport.WriteGarbage(t, filepath.Join(dir, "r.1.jpg"))

	got, err := frames.NewLoader(nil).LoadRoute(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadRoute: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no frames, got %d", len(got))
	}
}

func TestLoadHonoursCancellation(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFrame(t, filepath.Join(dir, "r.0.png"), 2, 2, color.White)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := frames.NewLoader(nil).Load(ctx, dir, []string{"r.0.png"}); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestFrameRoundTripsToImage(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFrame(t, filepath.Join(dir, "r.0.png"), 3, 2, color.RGBA{R: 10, G: 128, B: 250, A: 255})
	got, err := frames.NewLoader(nil).LoadRoute(context.Background(), dir)
	if err != nil || len(got) != 1 {
		t.Fatalf("LoadRoute: %v (n=%d)", err, len(got))
	}
	if math.Abs(float64(got[0].Pix[1])-128.0/255.0) > 1e-6 {
		t.Fatalf("unexpected green channel %v", got[0].Pix[1])
	}
	img := got[0].ToImage()
	c := img.RGBAAt(2, 1)
	if c.R != 10 || c.G != 128 || c.B != 250 || c.A != 255 {
		t.Fatalf("unexpected round trip pixel %+v", c)
	}
}
