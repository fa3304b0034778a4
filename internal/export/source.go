package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultMaxSourceBytes caps how much encoded input DecodeSource reads.
const DefaultMaxSourceBytes = 25 << 20

// DecodeSource reads an encoded photo and returns it upright, applying the
// EXIF orientation phone cameras record. maxBytes <= 0 means the default limit.
func DecodeSource(r io.Reader, maxBytes int64) (image.Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSourceBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading: %v", ErrInvalidSource, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrSourceTooLarge
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidSource)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	if err := ValidateSource(img); err != nil {
		return nil, err
	}
	return img, nil
}

// ValidateSource rejects images that cannot be laid out.
func ValidateSource(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: no image", ErrInvalidSource)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: zero dimension %dx%d", ErrInvalidSource, b.Dx(), b.Dy())
	}
	return nil
}
