package export

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSource is returned for nil, empty, undecodable or oversized input.
	ErrInvalidSource = errors.New("invalid source image")

	// ErrSourceTooLarge is an ErrInvalidSource for input over the byte limit.
	ErrSourceTooLarge = fmt.Errorf("%w: exceeds upload limit", ErrInvalidSource)

	// ErrUnknownSize is returned when a size ID is not in the catalog.
	ErrUnknownSize = errors.New("unknown size")

	// ErrEncoding is returned when the raster encoder cannot produce output.
	ErrEncoding = errors.New("encoding failed")
)
