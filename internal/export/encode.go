package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// Format is an output raster encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
	FormatPNG  Format = "png"
)

// DefaultQuality is the lossy quality used for exports (0.95 of 1.0).
const DefaultQuality = 95

// ParseFormat accepts a format name or common alias ("jpg").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use jpeg, webp or png)", s)
	}
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// Encode writes img in the given format. Quality applies to lossy formats
// and is clamped to 1..100. Any failure is reported as ErrEncoding.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	quality = max(1, min(quality, 100))

	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatWebP:
		var options *encoder.Options
		options, err = encoder.NewLossyEncoderOptions(encoder.PresetPhoto, float32(quality))
		if err == nil {
			err = webp.Encode(w, img, options)
		}
	case FormatPNG:
		err = png.Encode(w, img)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncoding, format, err)
	}
	return nil
}
