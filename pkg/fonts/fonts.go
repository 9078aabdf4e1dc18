// Package fonts provides the embedded font for PDF text outside Windows-1252.
//
// The PDF sink draws with the core Helvetica font, which only covers the
// Windows-1252 code page. Device names and titles may contain any printable
// Unicode, so text beyond that range is drawn with DejaVu Sans Condensed,
// embedded here with go:embed so no font files are needed at runtime.
// [Missing] reports the runes the embedded font cannot draw either.
package fonts

import (
	_ "embed"
	"sync"

	"golang.org/x/image/font/sfnt"
)

// SansFamily is the family name the embedded font is registered under.
const SansFamily = "DejaVuSansCondensed"

// DejaVu Sans Condensed from https://dejavu-fonts.github.io (Bitstream Vera
// license). It covers Latin, Greek, Cyrillic and many symbols; it has no
// CJK glyphs.

//go:embed DejaVuSansCondensed.ttf
var sansTTF []byte

// SansTTF returns the TTF font data.
func SansTTF() []byte {
	return sansTTF
}

// Parsed font (computed once on first access).
var (
	sansFont     *sfnt.Font
	sansFontErr  error
	sansFontOnce sync.Once
)

func parsedSans() (*sfnt.Font, error) {
	sansFontOnce.Do(func() {
		sansFont, sansFontErr = sfnt.Parse(sansTTF)
	})
	return sansFont, sansFontErr
}

// Missing returns the runes of s without a glyph in the embedded font, in
// order of first appearance and without duplicates. Whitespace is never
// reported. If the font cannot be parsed every non-space rune is missing.
func Missing(s string) []rune {
	f, err := parsedSans()

	var (
		buf     sfnt.Buffer
		missing []rune
		seen    = make(map[rune]bool)
	)
	for _, r := range s {
		if seen[r] || r == ' ' || r == '\t' {
			continue
		}
		seen[r] = true
		if err != nil {
			missing = append(missing, r)
			continue
		}
		if idx, gerr := f.GlyphIndex(&buf, r); gerr != nil || idx == 0 {
			missing = append(missing, r)
		}
	}
	return missing
}
