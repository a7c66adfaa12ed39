package asset

import (
	"fmt"
	"strings"
	"time"
)

// Filename derives the library filename for a saved variant using the
// current UTC date: {safeName}_{vNNN}_{YYYY-MM-DD}[_{w}x{h}].{ext}.
// The name is computed once at save time and stored verbatim.
func Filename(projectName string, variant int, kind Kind, width, height *int) string {
	return FilenameAt(projectName, variant, kind, width, height, time.Now().UTC())
}

// FilenameAt is the pure form of Filename: byte-for-byte reproducible
// given identical inputs and date.
func FilenameAt(projectName string, variant int, kind Kind, width, height *int, now time.Time) string {
	var b strings.Builder
	b.WriteString(safeName(projectName))
	b.WriteByte('_')
	// Zero-padded to 3 digits; variants >= 1000 widen naturally.
	fmt.Fprintf(&b, "v%03d", variant)
	b.WriteByte('_')
	b.WriteString(now.UTC().Format("2006-01-02"))
	if width != nil && height != nil {
		fmt.Fprintf(&b, "_%dx%d", *width, *height)
	}
	b.WriteByte('.')
	b.WriteString(kind.Ext())
	return b.String()
}

// safeName lowercases the project name and replaces every rune outside
// [a-z0-9] with '-'.
func safeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
