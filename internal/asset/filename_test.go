package asset

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

var fixedDate = time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func TestFilenameAt_AllComponents(t *testing.T) {
	got := FilenameAt("My Café!", 3, KindRaster, intPtr(800), intPtr(600), fixedDate)
	want := "my-caf--_v003_2024-01-05_800x600.png"
	if got != want {
		t.Errorf("FilenameAt = %q, want %q", got, want)
	}
}

func TestFilenameAt_NoDimensions(t *testing.T) {
	got := FilenameAt("Granola", 12, KindVector, nil, nil, fixedDate)
	want := "granola_v012_2024-01-05.svg"
	if got != want {
		t.Errorf("FilenameAt = %q, want %q", got, want)
	}
}

func TestFilenameAt_OneDimensionMissing(t *testing.T) {
	// Dimensions are only appended when both are present.
	got := FilenameAt("Granola", 1, KindRaster, intPtr(800), nil, fixedDate)
	want := "granola_v001_2024-01-05.png"
	if got != want {
		t.Errorf("FilenameAt = %q, want %q", got, want)
	}
}

func TestFilenameAt_WideVariant(t *testing.T) {
	got := FilenameAt("x", 1234, KindRaster, nil, nil, fixedDate)
	want := "x_v1234_2024-01-05.png"
	if got != want {
		t.Errorf("FilenameAt = %q, want %q", got, want)
	}
}

func TestFilenameAt_NonUTCDate(t *testing.T) {
	// The date component is always computed in UTC.
	loc := time.FixedZone("UTC-8", -8*60*60)
	late := time.Date(2024, 1, 4, 23, 0, 0, 0, loc) // 2024-01-05 07:00 UTC
	got := FilenameAt("x", 1, KindRaster, nil, nil, late)
	want := "x_v001_2024-01-05.png"
	if got != want {
		t.Errorf("FilenameAt = %q, want %q", got, want)
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Night Repair Cream", "night-repair-cream"},
		{"BBQ_Chips 2.0", "bbq-chips-2-0"},
		{"already-safe-123", "already-safe-123"},
		{"", ""},
		{"ÜBER", "-ber"},
	}
	for _, tt := range tests {
		if got := safeName(tt.in); got != tt.want {
			t.Errorf("safeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Filename generation must be deterministic and always produce names
// made of [a-z0-9-] separated by the fixed scheme, for any input.
func TestFilenameAt_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.String().Draw(t, "name")
		variant := rapid.IntRange(0, 5000).Draw(t, "variant")
		kind := rapid.SampledFrom([]Kind{KindRaster, KindVector}).Draw(t, "kind")

		first := FilenameAt(name, variant, kind, nil, nil, fixedDate)
		second := FilenameAt(name, variant, kind, nil, nil, fixedDate)
		if first != second {
			t.Fatalf("not deterministic: %q vs %q", first, second)
		}

		for _, r := range first {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') ||
				r == '-' || r == '_' || r == '.'
			if !ok {
				t.Fatalf("unexpected rune %q in %q", r, first)
			}
		}
	})
}
