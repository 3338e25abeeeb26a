package text

import (
	"image"
	"math"

	"github.com/gogpu/drawpool/drawmethod"
	"github.com/gogpu/drawpool/internal/cache"
)

// DefaultLayoutCapacity is the number of shaped strings a Layout keeps
// when NewLayout gets a non-positive capacity.
const DefaultLayoutCapacity = 256

type layoutKey struct {
	text string
	face uint64
}

// Layout shapes strings and places their glyphs against an atlas.
type Layout struct {
	shaper Shaper
	shaped *cache.Cache[layoutKey, []ShapedGlyph]
}

// NewLayout returns a layout caching up to capacity shaped strings. A nil
// shaper selects BuiltinShaper.
func NewLayout(shaper Shaper, capacity int) *Layout {
	if shaper == nil {
		shaper = BuiltinShaper{}
	}
	if capacity <= 0 {
		capacity = DefaultLayoutCapacity
	}
	return &Layout{
		shaper: shaper,
		shaped: cache.New[layoutKey, []ShapedGlyph](capacity),
	}
}

// Shape returns the shaped glyphs of s, reusing earlier results.
func (l *Layout) Shape(s string, face *Face) []ShapedGlyph {
	return l.shaped.GetOrCreate(layoutKey{text: s, face: face.ID()}, func() []ShapedGlyph {
		return l.shaper.Shape(s, face)
	})
}

// Measure returns the advance width and line height of s.
func (l *Layout) Measure(s string, face *Face) image.Point {
	var w float64
	for _, g := range l.Shape(s, face) {
		w += g.Advance
	}
	return image.Pt(int(math.Ceil(w)), face.LineHeight())
}

// Run lays out s with its line box's top-left corner at origin. Glyphs
// without an outline and glyphs that do not fit the atlas are left out.
func (l *Layout) Run(s string, face *Face, atlas *Atlas, origin image.Point) *drawmethod.GlyphRun {
	shaped := l.Shape(s, face)
	run := &drawmethod.GlyphRun{Glyphs: make([]drawmethod.Glyph, 0, len(shaped))}

	baseline := origin.Y + face.Ascent()
	for _, sg := range shaped {
		ag, ok := atlas.Glyph(face, sg.GID)
		if !ok || ag.Src.Empty() {
			continue
		}
		pen := image.Pt(origin.X+int(math.Round(sg.X)), baseline+int(math.Round(sg.Y)))
		at := pen.Add(ag.Offset)
		run.Glyphs = append(run.Glyphs, drawmethod.Glyph{
			Dest: image.Rectangle{Min: at, Max: at.Add(ag.Src.Size())},
			Src:  ag.Src,
		})
	}
	return run
}

// Stats reports the shaped-string cache counters.
func (l *Layout) Stats() cache.Stats { return l.shaped.Stats() }
