// Package export turns a source photo into encoded ID photo files.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/kozaktomas/idphoto/internal/catalog"
	"github.com/kozaktomas/idphoto/internal/compose"
	"github.com/kozaktomas/idphoto/internal/layout"
	"github.com/rs/zerolog"
)

// Options configures an Exporter.
type Options struct {
	Format         Format
	Quality        int
	FilenamePrefix string
	Style          compose.Style
	Now            func() time.Time // defaults to time.Now
}

// DefaultOptions returns JPEG at quality 95 with the print style.
func DefaultOptions() Options {
	return Options{
		Format:         FormatJPEG,
		Quality:        DefaultQuality,
		FilenamePrefix: DefaultFilenamePrefix,
		Style:          compose.DefaultStyle(),
		Now:            time.Now,
	}
}

// Result is one finished export. Data is always a complete encoded file.
type Result struct {
	ID          string `json:"id"`
	SizeID      string `json:"size_id,omitempty"`
	Filename    string `json:"filename"`
	Format      Format `json:"format"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Copies      int    `json:"copies"`
	Data        []byte `json:"-"`
}

// Exporter runs plan, compose and encode for one source at a time.
// It holds no mutable state, so one Exporter is safe for concurrent use.
type Exporter struct {
	opts   Options
	logger zerolog.Logger
}

// NewExporter creates an exporter. Zero option fields fall back to defaults.
func NewExporter(opts Options, logger zerolog.Logger) *Exporter {
	def := DefaultOptions()
	if opts.Format == "" {
		opts.Format = def.Format
	}
	if opts.Quality <= 0 {
		opts.Quality = def.Quality
	}
	if opts.FilenamePrefix == "" {
		opts.FilenamePrefix = def.FilenamePrefix
	}
	if opts.Style.Background == nil {
		opts.Style = def.Style
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	return &Exporter{opts: opts, logger: logger}
}

// Options returns the effective options.
func (e *Exporter) Options() Options {
	return e.opts
}

// Export lays out src for the catalog size sizeID and encodes it.
// An empty format uses the exporter default.
func (e *Exporter) Export(ctx context.Context, src image.Image, sizeID string, format Format) (*Result, error) {
	spec, ok := catalog.Lookup(sizeID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSize, sizeID)
	}
	return e.ExportSpec(ctx, src, spec, format)
}

// ExportSpec exports src for an explicit size spec.
func (e *Exporter) ExportSpec(ctx context.Context, src image.Image, spec catalog.SizeSpec, format Format) (*Result, error) {
	if err := ValidateSource(src); err != nil {
		return nil, err
	}
	if format == "" {
		format = e.opts.Format
	}

	start := time.Now()
	plan := layout.Compute(spec)
	canvas := compose.NewCanvas(plan.CanvasWidth, plan.CanvasHeight)
	for _, r := range plan.Rects {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("export %s: %w", spec.ID, err)
		}
		e.opts.Style.ComposeRect(canvas, src, r)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, canvas.Image(), format, e.opts.Quality); err != nil {
		return nil, err
	}

	res := &Result{
		ID:          uuid.NewString(),
		SizeID:      spec.ID,
		Filename:    Filename(e.opts.FilenamePrefix, spec.Label, e.opts.Now(), format),
		Format:      format,
		ContentType: format.ContentType(),
		Width:       plan.CanvasWidth,
		Height:      plan.CanvasHeight,
		Copies:      len(plan.Rects),
		Data:        buf.Bytes(),
	}

	e.logger.Debug().
		Str("export_id", res.ID).
		Str("size", spec.ID).
		Int("width", res.Width).
		Int("height", res.Height).
		Int("copies", res.Copies).
		Int("bytes", len(res.Data)).
		Dur("took", time.Since(start)).
		Msg("export composed")
	return res, nil
}

// ExportOriginal re-encodes the whole source at its own resolution.
func (e *Exporter) ExportOriginal(ctx context.Context, src image.Image, format Format) (*Result, error) {
	if err := ValidateSource(src); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("export original: %w", err)
	}
	if format == "" {
		format = e.opts.Format
	}

	out := src
	if format == FormatJPEG {
		out = e.flatten(src)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, out, format, e.opts.Quality); err != nil {
		return nil, err
	}

	b := src.Bounds()
	res := &Result{
		ID:          uuid.NewString(),
		Filename:    OriginalFilename(e.opts.FilenamePrefix, e.opts.Now(), format),
		Format:      format,
		ContentType: format.ContentType(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		Copies:      1,
		Data:        buf.Bytes(),
	}
	e.logger.Debug().Str("export_id", res.ID).Int("bytes", len(res.Data)).Msg("original exported")
	return res, nil
}

// flatten composites a source with transparency onto the background color.
// JPEG has no alpha channel and would otherwise turn transparent pixels black.
func (e *Exporter) flatten(src image.Image) image.Image {
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		return src
	}
	b := src.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), e.opts.Style.Background)
	return imaging.Overlay(bg, src, image.Point{}, 1.0)
}
