package compose

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Canvas is an RGBA pixel buffer owned by a single export.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates a canvas filled with opaque white.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	c.FillRect(c.img.Bounds(), color.White)
	return c
}

// Image exposes the underlying buffer for encoding.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// FillRect paints r with a solid color, replacing whatever was there.
func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// BlitScaled resamples the whole of src into dst, compositing over the
// existing pixels so transparent sources land on the background.
func (c *Canvas) BlitScaled(src image.Image, dst image.Rectangle) {
	draw.CatmullRom.Scale(c.img, dst, src, src.Bounds(), draw.Over, nil)
}

// StrokeRect draws a line of the given width centered on r's edges.
// Pixels falling outside the canvas are clipped.
func (c *Canvas) StrokeRect(r image.Rectangle, width float64, col color.Color) {
	dc := gg.NewContextForRGBA(c.img)
	dc.SetColor(col)
	dc.SetLineWidth(width)
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	dc.Stroke()
}
