// Package layout converts physical export sizes into device-pixel placements.
package layout

import (
	"image"
	"math"

	"github.com/kozaktomas/idphoto/internal/catalog"
)

// DPI is the print resolution used for every export.
const DPI = 300

// MMPerInch is the number of millimeters in one inch.
const MMPerInch = 25.4

// MMToPx converts millimeters to device pixels at the given resolution.
// It rounds to the nearest pixel so repeated conversions in one layout
// do not drift smaller.
func MMToPx(mm float64, dpi int) int {
	return int(math.Round(mm / MMPerInch * float64(dpi)))
}

// Rect is a placement rectangle in device pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Bounds returns the rectangle as an image.Rectangle.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Overlaps reports whether two rectangles share any pixel.
func (r Rect) Overlaps(o Rect) bool {
	return r.Bounds().Overlaps(o.Bounds())
}

// Plan is the canvas size and the ordered photo placements for one export.
type Plan struct {
	CanvasWidth  int    `json:"canvas_width"`
	CanvasHeight int    `json:"canvas_height"`
	Rects        []Rect `json:"rects"`
}

// Canvas returns the full canvas rectangle.
func (p Plan) Canvas() Rect {
	return Rect{Width: p.CanvasWidth, Height: p.CanvasHeight}
}

// Compute lays out a size at the fixed print resolution.
// Specs come from the validated catalog, so the grid always fits the paper.
func Compute(spec catalog.SizeSpec) Plan {
	return ComputeAt(spec, DPI)
}

// ComputeAt lays out a size at an arbitrary resolution.
func ComputeAt(spec catalog.SizeSpec, dpi int) Plan {
	photoW := MMToPx(spec.WidthMM, dpi)
	photoH := MMToPx(spec.HeightMM, dpi)

	if spec.Kind != catalog.KindSheet || spec.Sheet == nil {
		return Plan{
			CanvasWidth:  photoW,
			CanvasHeight: photoH,
			Rects:        []Rect{{X: 0, Y: 0, Width: photoW, Height: photoH}},
		}
	}

	sheet := spec.Sheet
	canvasW := MMToPx(sheet.PaperWidthMM, dpi)
	canvasH := MMToPx(sheet.PaperHeightMM, dpi)
	gap := MMToPx(sheet.GapMM, dpi)

	gridW := sheet.Cols*photoW + (sheet.Cols-1)*gap
	gridH := sheet.Rows*photoH + (sheet.Rows-1)*gap

	// Center the grid block as a unit.
	startX := (canvasW - gridW) / 2
	startY := (canvasH - gridH) / 2

	rects := make([]Rect, 0, sheet.Copies())
	for r := range sheet.Rows {
		for c := range sheet.Cols {
			rects = append(rects, Rect{
				X:      startX + c*(photoW+gap),
				Y:      startY + r*(photoH+gap),
				Width:  photoW,
				Height: photoH,
			})
		}
	}

	return Plan{
		CanvasWidth:  canvasW,
		CanvasHeight: canvasH,
		Rects:        rects,
	}
}

// BoundingBox returns the smallest rectangle enclosing every placement.
func (p Plan) BoundingBox() Rect {
	if len(p.Rects) == 0 {
		return Rect{}
	}
	b := p.Rects[0].Bounds()
	for _, r := range p.Rects[1:] {
		b = b.Union(r.Bounds())
	}
	return Rect{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()}
}
