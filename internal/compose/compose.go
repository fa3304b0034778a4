// Package compose renders a source photo into placement rectangles on a canvas.
package compose

import (
	"image"
	"image/color"
	"math"

	"github.com/kozaktomas/idphoto/internal/layout"
)

// GuideColor is the light grey used for cut guides (#cbd5e1).
var GuideColor = color.RGBA{R: 0xcb, G: 0xd5, B: 0xe1, A: 0xff}

// Style controls background and cut guide rendering.
type Style struct {
	Background color.Color
	GuideColor color.Color
	GuideWidth float64 // device pixels
}

// DefaultStyle returns the print style: white paper and a 2px grey guide.
func DefaultStyle() Style {
	return Style{
		Background: color.White,
		GuideColor: GuideColor,
		GuideWidth: 2,
	}
}

// Fit describes where a contained source lands inside a target rectangle.
type Fit struct {
	Scale float64
	// Exact placement before snapping to pixels.
	X, Y, W, H float64
	// Dst is the pixel rectangle actually drawn. It never exceeds the target.
	Dst image.Rectangle
}

// ContainFit scales a srcW x srcH image by the largest factor that keeps it
// fully inside r, centered. Nothing is cropped. A source with a zero
// dimension yields the zero Fit, whose Dst is empty.
func ContainFit(srcW, srcH int, r layout.Rect) Fit {
	if srcW <= 0 || srcH <= 0 || r.Width <= 0 || r.Height <= 0 {
		return Fit{}
	}
	scale := math.Min(float64(r.Width)/float64(srcW), float64(r.Height)/float64(srcH))

	drawW := float64(srcW) * scale
	drawH := float64(srcH) * scale
	fit := Fit{
		Scale: scale,
		X:     float64(r.X) + (float64(r.Width)-drawW)/2,
		Y:     float64(r.Y) + (float64(r.Height)-drawH)/2,
		W:     drawW,
		H:     drawH,
	}

	w := clamp(int(math.Round(drawW)), 1, r.Width)
	h := clamp(int(math.Round(drawH)), 1, r.Height)
	x := r.X + (r.Width-w)/2
	y := r.Y + (r.Height-h)/2
	fit.Dst = image.Rect(x, y, x+w, y+h)
	return fit
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

// Compose draws src into every rectangle using the default style.
func Compose(c *Canvas, src image.Image, rects []layout.Rect) {
	DefaultStyle().Compose(c, src, rects)
}

// Compose draws src into every rectangle: background fill, contained and
// centered photo, then the cut guide on the rectangle boundary.
// An empty source leaves only the background and guide.
func (s Style) Compose(c *Canvas, src image.Image, rects []layout.Rect) {
	for _, r := range rects {
		s.ComposeRect(c, src, r)
	}
}

// ComposeRect renders a single placement.
func (s Style) ComposeRect(c *Canvas, src image.Image, r layout.Rect) {
	target := r.Bounds()
	c.FillRect(target, s.Background)

	sb := src.Bounds()
	if fit := ContainFit(sb.Dx(), sb.Dy(), r); !fit.Dst.Empty() {
		c.BlitScaled(src, fit.Dst)
	}

	if s.GuideWidth > 0 {
		c.StrokeRect(target, s.GuideWidth, s.GuideColor)
	}
}
