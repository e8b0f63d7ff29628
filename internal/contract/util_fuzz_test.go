package contract

import (
	"testing"
)

// FuzzParseBBox fuzzes ParseBBox with random strings. Accepted boxes must be ordered.
func FuzzParseBBox(f *testing.F) {
	seeds := []string{
		"-121.8,46.7,-121.6,46.9",
		"0,0,1,1",
		"1,1,0,0",
		"a,b,c,d",
		"",
		"-181,0,0,1",
		"1,2,3",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		b, err := ParseBBox(s)
		if err != nil {
			return
		}
		if b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y {
			t.Fatalf("unordered bbox %v from %q", b, s)
		}
	})
}

// FuzzParseDate fuzzes ParseDate to make sure it never panics.
func FuzzParseDate(f *testing.F) {
	for _, seed := range []string{"2024-03-01", "2024-03-01T12:00:00Z", "yesterday", ""} {
		f.Add(seed)
	}
	f.Fuzz(func(_ *testing.T, s string) {
		_, _ = ParseDate(s)
	})
}
