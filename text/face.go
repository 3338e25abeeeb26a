// Package text lays out strings as glyph runs a pool can draw.
//
// A Face parses a TrueType/OpenType font once for both rasterization
// (golang.org/x/image/font/sfnt) and shaping (go-text/typesetting). A
// Shaper turns a string into positioned glyph ids, an Atlas rasterizes
// glyphs into a shared texture on first use, and a Layout combines the
// two into a drawmethod.GlyphRun, caching shaped strings.
//
// Faces, atlases and layouts belong to the render goroutine and are not
// safe for concurrent use.
package text

import (
	"bytes"
	"errors"
	"fmt"
	"sync/atomic"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ErrInvalidSize is returned for non-positive font sizes.
var ErrInvalidSize = errors.New("text: font size must be positive")

var nextFaceID atomic.Uint64

// Face is a font at one pixel size.
type Face struct {
	id      uint64
	size    float64
	ppem    fixed.Int26_6
	sfnt    *sfnt.Font
	shape   *gtfont.Font
	metrics font.Metrics
	buf     sfnt.Buffer
}

// NewFace parses ttf and returns it at size pixels per em.
func NewFace(ttf []byte, size float64) (*Face, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	shapeFace, err := gtfont.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("text: parse font for shaping: %w", err)
	}

	face := &Face{
		id:    nextFaceID.Add(1),
		size:  size,
		ppem:  fixed.Int26_6(size * 64),
		sfnt:  f,
		shape: shapeFace.Font,
	}
	face.metrics, err = f.Metrics(&face.buf, face.ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("text: font metrics: %w", err)
	}
	return face, nil
}

// DefaultFace returns Go Regular at size.
func DefaultFace(size float64) (*Face, error) {
	return NewFace(goregular.TTF, size)
}

// ID identifies the face for caching.
func (f *Face) ID() uint64 { return f.id }

// Size returns the size in pixels per em.
func (f *Face) Size() float64 { return f.size }

// Ascent returns the distance from the top of a line to the baseline.
func (f *Face) Ascent() int { return f.metrics.Ascent.Ceil() }

// Descent returns the distance from the baseline to the bottom of a line.
func (f *Face) Descent() int { return f.metrics.Descent.Ceil() }

// LineHeight returns the recommended distance between baselines.
func (f *Face) LineHeight() int { return f.metrics.Height.Ceil() }

// GlyphIndex returns the glyph for r, 0 when the font lacks it.
func (f *Face) GlyphIndex(r rune) sfnt.GlyphIndex {
	gid, err := f.sfnt.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0
	}
	return gid
}

// Advance returns the horizontal advance of gid in pixels.
func (f *Face) Advance(gid sfnt.GlyphIndex) float64 {
	adv, err := f.sfnt.GlyphAdvance(&f.buf, gid, f.ppem, font.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat(adv)
}

// Kern returns the kerning adjustment between a and b in pixels.
func (f *Face) Kern(a, b sfnt.GlyphIndex) float64 {
	k, err := f.sfnt.Kern(&f.buf, a, b, f.ppem, font.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat(k)
}

// outline returns the glyph outline relative to the pen on the baseline.
func (f *Face) outline(gid sfnt.GlyphIndex) (sfnt.Segments, error) {
	return f.sfnt.LoadGlyph(&f.buf, gid, f.ppem, nil)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
