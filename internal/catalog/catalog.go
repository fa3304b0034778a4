// Package catalog holds the static table of supported export sizes.
package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Kind distinguishes a single digital photo from a printable multi-up sheet.
type Kind string

const (
	KindSingle Kind = "single"
	KindSheet  Kind = "sheet"
)

// SheetLayout describes the photo grid printed on one sheet of paper.
type SheetLayout struct {
	Cols          int     `yaml:"cols" json:"cols"`
	Rows          int     `yaml:"rows" json:"rows"`
	GapMM         float64 `yaml:"gap_mm" json:"gap_mm"`
	PaperWidthMM  float64 `yaml:"paper_width_mm" json:"paper_width_mm"`
	PaperHeightMM float64 `yaml:"paper_height_mm" json:"paper_height_mm"`
}

// Copies returns the number of photos on one sheet.
func (l SheetLayout) Copies() int {
	return l.Cols * l.Rows
}

// GridWidthMM returns the horizontal footprint of the photo grid.
func (l SheetLayout) GridWidthMM(photoWidthMM float64) float64 {
	return float64(l.Cols)*photoWidthMM + float64(l.Cols-1)*l.GapMM
}

// GridHeightMM returns the vertical footprint of the photo grid.
func (l SheetLayout) GridHeightMM(photoHeightMM float64) float64 {
	return float64(l.Rows)*photoHeightMM + float64(l.Rows-1)*l.GapMM
}

// SizeSpec is one supported output size. Values are never mutated after load.
type SizeSpec struct {
	ID          string       `yaml:"id"`
	Label       string       `yaml:"label"`
	Description string       `yaml:"description"`
	WidthMM     float64      `yaml:"width_mm"`
	HeightMM    float64      `yaml:"height_mm"`
	Ratio       float64      `yaml:"-"` // WidthMM / HeightMM, informational only
	Kind        Kind         `yaml:"kind"`
	Sheet       *SheetLayout `yaml:"sheet,omitempty"`
}

// Copies returns how many photo instances one export of this spec contains.
func (s SizeSpec) Copies() int {
	if s.Kind == KindSheet && s.Sheet != nil {
		return s.Sheet.Copies()
	}
	return 1
}

type catalogFile struct {
	Specs []SizeSpec `yaml:"specs"`
}

var (
	loadOnce sync.Once
	specs    []SizeSpec
)

// load parses and validates the embedded table exactly once.
// The table ships inside the binary, so a broken table is a programming error.
func load() {
	loadOnce.Do(func() {
		parsed, err := Parse(catalogYAML)
		if err != nil {
			panic("invalid embedded catalog.yaml: " + err.Error())
		}
		specs = parsed
	})
}

// Parse decodes a catalog document, derives ratios and validates every entry.
func Parse(data []byte) ([]SizeSpec, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	for i := range f.Specs {
		if f.Specs[i].HeightMM != 0 {
			f.Specs[i].Ratio = f.Specs[i].WidthMM / f.Specs[i].HeightMM
		}
	}
	if err := Validate(f.Specs); err != nil {
		return nil, err
	}
	return f.Specs, nil
}

// Specs returns all supported sizes in display order.
// The returned slice is a copy; sheet layouts are copied too.
func Specs() []SizeSpec {
	load()
	out := make([]SizeSpec, 0, len(specs))
	for _, s := range specs {
		out = append(out, cloneSpec(s))
	}
	return out
}

// ByKind returns the sizes of one kind, preserving display order.
func ByKind(kind Kind) []SizeSpec {
	var out []SizeSpec
	for _, s := range Specs() {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Lookup finds a size by its ID.
func Lookup(id string) (SizeSpec, bool) {
	load()
	for _, s := range specs {
		if s.ID == id {
			return cloneSpec(s), true
		}
	}
	return SizeSpec{}, false
}

func cloneSpec(s SizeSpec) SizeSpec {
	if s.Sheet != nil {
		sheet := *s.Sheet
		s.Sheet = &sheet
	}
	return s
}

// ConfigurationError reports a catalog entry that cannot be laid out.
type ConfigurationError struct {
	SpecID string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("size %q: %s", e.SpecID, e.Reason)
}

// ratioTolerance bounds float drift between Ratio and WidthMM/HeightMM.
const ratioTolerance = 1e-9

// Validate checks every spec for positive dimensions, unique IDs and a sheet
// grid that fits on its paper. The first offending spec is reported.
func Validate(list []SizeSpec) error {
	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		if err := validateSpec(s); err != nil {
			return err
		}
		if _, dup := seen[s.ID]; dup {
			return &ConfigurationError{SpecID: s.ID, Reason: "duplicate id"}
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

func validateSpec(s SizeSpec) error {
	fail := func(format string, args ...any) error {
		return &ConfigurationError{SpecID: s.ID, Reason: fmt.Sprintf(format, args...)}
	}

	if s.ID == "" {
		return fail("missing id")
	}
	if s.WidthMM <= 0 || s.HeightMM <= 0 {
		return fail("photo dimensions must be positive, got %.2fx%.2fmm", s.WidthMM, s.HeightMM)
	}
	if math.Abs(s.Ratio-s.WidthMM/s.HeightMM) > ratioTolerance {
		return fail("ratio %.6f does not match %.2f/%.2f", s.Ratio, s.WidthMM, s.HeightMM)
	}

	switch s.Kind {
	case KindSingle:
		if s.Sheet != nil {
			return fail("single size must not define a sheet layout")
		}
		return nil
	case KindSheet:
		if s.Sheet == nil {
			return fail("sheet size requires a sheet layout")
		}
	default:
		return fail("unknown kind %q", s.Kind)
	}

	l := s.Sheet
	if l.Cols <= 0 || l.Rows <= 0 {
		return fail("grid must have positive cols and rows, got %dx%d", l.Cols, l.Rows)
	}
	if l.GapMM <= 0 || l.PaperWidthMM <= 0 || l.PaperHeightMM <= 0 {
		return fail("gap and paper dimensions must be positive")
	}
	if gw := l.GridWidthMM(s.WidthMM); gw > l.PaperWidthMM {
		return fail("grid width %.2fmm exceeds paper width %.2fmm", gw, l.PaperWidthMM)
	}
	if gh := l.GridHeightMM(s.HeightMM); gh > l.PaperHeightMM {
		return fail("grid height %.2fmm exceeds paper height %.2fmm", gh, l.PaperHeightMM)
	}
	return nil
}
