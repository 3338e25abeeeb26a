package text

import (
	"golang.org/x/image/font/sfnt"
)

// ShapedGlyph is a glyph positioned relative to the start of the string.
type ShapedGlyph struct {
	GID     sfnt.GlyphIndex
	Cluster int // index of the first rune the glyph represents
	X, Y    float64
	Advance float64
}

// Shaper converts text to positioned glyphs.
type Shaper interface {
	Shape(s string, face *Face) []ShapedGlyph
}

// BuiltinShaper places glyphs left to right using the font's advances and
// kerning table. It does no substitution or reordering.
type BuiltinShaper struct{}

// Shape implements Shaper.
func (BuiltinShaper) Shape(s string, face *Face) []ShapedGlyph {
	if s == "" || face == nil {
		return nil
	}

	out := make([]ShapedGlyph, 0, len(s))
	var x float64
	prev := sfnt.GlyphIndex(0)
	cluster := 0
	for _, r := range s {
		gid := face.GlyphIndex(r)
		if cluster > 0 {
			x += face.Kern(prev, gid)
		}
		adv := face.Advance(gid)
		out = append(out, ShapedGlyph{GID: gid, Cluster: cluster, X: x, Advance: adv})
		x += adv
		prev = gid
		cluster++
	}
	return out
}
