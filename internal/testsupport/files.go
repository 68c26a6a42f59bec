package testsupport

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// WriteFrame encodes a solid-color PNG of the given size at path.
func WriteFrame(t testing.TB, path string, width, height int, c color.Color) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// WriteGarbage writes bytes at path that no image decoder accepts.
func WriteGarbage(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteRoute creates a route directory under root holding count small gray
// frames named "<route>.<i>.png" and returns the route path.
func WriteRoute(t testing.TB, root, route string, count int) string {
	t.Helper()

	dir := filepath.Join(root, route)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir route %s: %v", dir, err)
	}
	for i := 0; i < count; i++ {
		WriteFrame(t, filepath.Join(dir, FrameName(route, i)), 8, 6, color.Gray{Y: uint8(10 * (i % 20))})
	}
	return dir
}

// FrameName returns the canonical test frame name for index i of route.
func FrameName(route string, i int) string {
	return route + "." + strconv.Itoa(i) + ".png"
}
