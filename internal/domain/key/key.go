// Package key normalizes the join keys shared by the county, hospital and
// procedure datasets.
package key

import "strings"

const (
	// CountyWidth is the fixed width of a county key.
	CountyWidth = 5
	// ProviderWidth is the fixed width of a provider key.
	ProviderWidth = 6
)

// County left-pads the raw value with zeros to CountyWidth.
// Values already at or beyond the width are returned unchanged.
func County(raw string) string {
	return padLeft(raw, CountyWidth)
}

// Provider strips every non-digit character, then left-pads with zeros to
// ProviderWidth. "AB-4" becomes "000004".
func Provider(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return padLeft(b.String(), ProviderWidth)
}

func padLeft(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return strings.Repeat("0", width-n) + s
	}
	return s
}
