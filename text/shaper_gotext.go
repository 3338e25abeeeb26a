package text

import (
	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/drawpool/internal/logx"
)

// GoTextShaper shapes with the HarfBuzz port of go-text/typesetting. The
// string is split into bidi runs first, so mixed-direction text comes out
// in visual order.
type GoTextShaper struct {
	hb shaping.HarfbuzzShaper
}

// NewGoTextShaper returns a HarfBuzz shaper.
func NewGoTextShaper() *GoTextShaper {
	return &GoTextShaper{}
}

type bidiRun struct {
	start, end int // rune indices, end exclusive
	dir        di.Direction
}

// Shape implements Shaper.
func (s *GoTextShaper) Shape(text string, face *Face) []ShapedGlyph {
	if text == "" || face == nil {
		return nil
	}
	runes := []rune(text)
	gtFace := gtfont.NewFace(face.shape)

	var out []ShapedGlyph
	var x float64
	for _, run := range bidiRuns(text, len(runes)) {
		input := shaping.Input{
			Text:      runes,
			RunStart:  run.start,
			RunEnd:    run.end,
			Direction: run.dir,
			Face:      gtFace,
			Size:      face.ppem,
			Script:    detectScript(runes[run.start:run.end]),
			Language:  language.NewLanguage("en"),
		}
		output := s.hb.Shape(input)
		for _, g := range output.Glyphs {
			adv := fixedToFloat(g.Advance)
			out = append(out, ShapedGlyph{
				GID:     sfnt.GlyphIndex(g.GlyphID), //nolint:gosec // sfnt glyph ids are 16-bit
				Cluster: g.TextIndex(),
				X:       x + fixedToFloat(g.XOffset),
				Y:       -fixedToFloat(g.YOffset),
				Advance: adv,
			})
			x += adv
		}
	}
	return out
}

// bidiRuns splits text into directional runs in visual order. Text the
// bidi algorithm rejects is shaped as a single left-to-right run.
func bidiRuns(text string, n int) []bidiRun {
	fallback := []bidiRun{{start: 0, end: n, dir: di.DirectionLTR}}

	var p bidi.Paragraph
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		logx.Logger().Warn("text: bidi analysis failed, shaping left to right", "err", err)
		return fallback
	}
	ordering, err := p.Order()
	if err != nil {
		logx.Logger().Warn("text: bidi ordering failed, shaping left to right", "err", err)
		return fallback
	}

	runs := make([]bidiRun, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		start, end := r.Pos() // inclusive rune indices
		dir := di.DirectionLTR
		if r.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		end = min(end, n-1)
		if start < 0 || start > end {
			continue
		}
		runs = append(runs, bidiRun{start: start, end: end + 1, dir: dir})
	}
	if len(runs) == 0 {
		return fallback
	}
	return runs
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
