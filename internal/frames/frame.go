package frames

import (
	"image"
	"image/color"
)

// Frame is a decoded image with pixels stored row-major as H×W×3 RGB floats
// in [0,1].
type Frame struct {
	Name   string
	Index  int
	Width  int
	Height int
	Pix    []float32
}

// FromImage normalizes img into a Frame.
func FromImage(name string, img image.Image) Frame {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]float32, w*h*3)

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
			out := pix[y*w*3 : (y+1)*w*3]
			for x := 0; x < w; x++ {
				out[x*3] = float32(row[x*4]) / 255
				out[x*3+1] = float32(row[x*4+1]) / 255
				out[x*3+2] = float32(row[x*4+2]) / 255
			}
		}
	} else {
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				pix[i] = float32(c.R) / 255
				pix[i+1] = float32(c.G) / 255
				pix[i+2] = float32(c.B) / 255
				i += 3
			}
		}
	}

	index, _ := ParseIndex(name)
	return Frame{Name: name, Index: index, Width: w, Height: h, Pix: pix}
}

// At returns the RGB triple at (x, y).
func (f Frame) At(x, y int) (r, g, b float32) {
	i := (y*f.Width + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// ToImage converts the frame back into an 8-bit image for display.
func (f Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.At(x, y)
			o := y*img.Stride + x*4
			img.Pix[o] = to8(r)
			img.Pix[o+1] = to8(g)
			img.Pix[o+2] = to8(b)
			img.Pix[o+3] = 0xff
		}
	}
	return img
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
