package frames

import "image"

// Geometry removes Side pixels from the left and right edges, Top rows from
// the top, and everything at or below row HoodY. A zero HoodY keeps the full
// height.
type Geometry struct {
	Side  int
	Top   int
	HoodY int
}

// Rect returns the retained region for a width×height frame. Values are
// clamped to the frame; geometry that would leave nothing falls back to the
// full frame.
func (g Geometry) Rect(width, height int) image.Rectangle {
	full := image.Rect(0, 0, width, height)
	x0 := clamp(g.Side, 0, width)
	x1 := clamp(width-g.Side, 0, width)
	y0 := clamp(g.Top, 0, height)
	y1 := height
	if g.HoodY > 0 {
		y1 = clamp(g.HoodY, 0, height)
	}
	if x0 >= x1 || y0 >= y1 {
		return full
	}
	return image.Rectangle{Min: image.Point{X: x0, Y: y0}, Max: image.Point{X: x1, Y: y1}}
}

// WithoutTop returns the geometry used for display: same borders and hood,
// no top crop.
func (g Geometry) WithoutTop() Geometry {
	g.Top = 0
	return g
}

// Crop returns a new frame holding the region of f retained by g.
func (f Frame) Crop(g Geometry) Frame {
	r := g.Rect(f.Width, f.Height)
	if r.Dx() == f.Width && r.Dy() == f.Height {
		return f
	}
	w, h := r.Dx(), r.Dy()
	pix := make([]float32, w*h*3)
	for y := 0; y < h; y++ {
		src := ((r.Min.Y+y)*f.Width + r.Min.X) * 3
		copy(pix[y*w*3:(y+1)*w*3], f.Pix[src:src+w*3])
	}
	return Frame{Name: f.Name, Index: f.Index, Width: w, Height: h, Pix: pix}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
