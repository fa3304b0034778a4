package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultFilenamePrefix starts every exported filename.
const DefaultFilenamePrefix = "ID-PHOTO"

// removeDiacritics folds accented letters to their base form ("Größe" -> "Große").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SanitizeLabel makes a size label safe for any filesystem.
// The output alphabet is a-z, 0-9 and '_': diacritics are folded, letters
// lowercased, and every other character becomes '_' one for one.
func SanitizeLabel(label string) string {
	label = strings.ToLower(removeDiacritics(label))
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// sanitizePrefix keeps ASCII letters, digits, '-' and '_'.
func sanitizePrefix(prefix string) string {
	prefix = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, prefix)
	if prefix == "" {
		return DefaultFilenamePrefix
	}
	return prefix
}

// Filename builds "<prefix>-<label>-<unix millis>.<ext>" for a size export.
func Filename(prefix, label string, ts time.Time, format Format) string {
	return fmt.Sprintf("%s-%s-%d.%s", sanitizePrefix(prefix), SanitizeLabel(label), ts.UnixMilli(), format.Extension())
}

// OriginalFilename names a full-size export that skips layout.
func OriginalFilename(prefix string, ts time.Time, format Format) string {
	return fmt.Sprintf("%s-Original-%d.%s", sanitizePrefix(prefix), ts.UnixMilli(), format.Extension())
}
