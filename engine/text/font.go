package text

import (
	"github.com/chewxy/math32"
	"github.com/hubastard/vgrove/engine/core"
)

// Packed glyph range: printable ASCII.
const (
	FirstChar = 32
	LastChar  = 126
	NumChars  = LastChar - FirstChar + 1
)

// PackedGlyph is the per-character record produced when the atlas is built.
type PackedGlyph struct {
	Present    bool    // false when the face has no glyph for the rune
	X, Y, W, H int     // bitmap rect in the atlas, pixels
	XOff, YOff float32 // bitmap top-left relative to the pen on the baseline
	Advance    float32
}

// GlyphCacheEntry is the render-ready form of a glyph: quad bounds relative to
// the pen position on the baseline, atlas UVs and advance.
type GlyphCacheEntry struct {
	Advance        float32
	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32
	Valid          bool
}

// Visible reports whether the glyph covers any pixels.
func (g GlyphCacheEntry) Visible() bool { return g.Valid && g.X1 > g.X0 && g.Y1 > g.Y0 }

type Metrics struct {
	SizePx  float32
	Ascent  float32 // baseline to top, positive
	Descent float32 // baseline to bottom, negative
	LineGap float32
}

// CacheStats counts cache traffic; tests and debug overlays read it.
type CacheStats struct {
	GlyphComputes    int // glyph entries built from the packed table
	GlyphLookups     int // Glyph calls
	TextSizeComputes int // MeasureText cache misses
	TextSizeHits     int
	TextSizeEntries  int
}

type textSize struct{ w, h float32 }

// Font is a packed ASCII font bound to an atlas texture.
//
// The glyph and text-size caches are filled lazily and never evicted; a Font
// must only be used from the rendering goroutine.
type Font struct {
	Metrics
	LineHeight float32

	atlas  *Atlas
	packed [NumChars]PackedGlyph

	glyphs [NumChars]GlyphCacheEntry
	cached [NumChars]bool
	sizes  map[string]textSize
	stats  CacheStats
}

// NewFont builds a font over an existing atlas. table is indexed by
// rune-FirstChar; missing trailing entries are treated as absent glyphs.
// The font takes a reference on the atlas.
func NewFont(atlas *Atlas, m Metrics, table []PackedGlyph) *Font {
	f := &Font{
		Metrics:    m,
		LineHeight: m.Ascent - m.Descent + m.LineGap,
		atlas:      atlas.Retain(),
		sizes:      make(map[string]textSize),
	}
	copy(f.packed[:], table)
	return f
}

// Texture returns the atlas texture glyph quads sample from.
func (f *Font) Texture() core.Texture { return f.atlas.Texture }

// Atlas returns the shared atlas.
func (f *Font) Atlas() *Atlas { return f.atlas }

// Glyph returns the cached render data for r, computing it on first use.
// Runes outside [FirstChar, LastChar] are invalid with zero advance.
func (f *Font) Glyph(r rune) GlyphCacheEntry {
	f.stats.GlyphLookups++
	if r < FirstChar || r > LastChar {
		return GlyphCacheEntry{}
	}
	i := r - FirstChar
	if !f.cached[i] {
		f.glyphs[i] = f.computeGlyph(f.packed[i])
		f.cached[i] = true
		f.stats.GlyphComputes++
	}
	return f.glyphs[i]
}

func (f *Font) computeGlyph(p PackedGlyph) GlyphCacheEntry {
	if !p.Present {
		return GlyphCacheEntry{}
	}
	aw, ah := float32(f.atlas.W), float32(f.atlas.H)
	return GlyphCacheEntry{
		Advance: p.Advance,
		X0:      p.XOff,
		Y0:      p.YOff,
		X1:      p.XOff + float32(p.W),
		Y1:      p.YOff + float32(p.H),
		U0:      float32(p.X) / aw,
		V0:      float32(p.Y) / ah,
		U1:      float32(p.X+p.W) / aw,
		V1:      float32(p.Y+p.H) / ah,
		Valid:   true,
	}
}

// MeasureText returns the size of s laid out from a single origin: the width
// of the widest line (rounded up to whole pixels) and one line height per
// line. Results are memoized by exact string.
func (f *Font) MeasureText(s string) (w, h float32) {
	if sz, ok := f.sizes[s]; ok {
		f.stats.TextSizeHits++
		return sz.w, sz.h
	}
	f.stats.TextSizeComputes++

	var lineW, maxW float32
	lines := 1
	for _, r := range s {
		if r == '\n' {
			maxW = max(maxW, lineW)
			lineW = 0
			lines++
			continue
		}
		lineW += f.Glyph(r).Advance
	}
	maxW = max(maxW, lineW)

	sz := textSize{w: math32.Ceil(maxW), h: float32(lines) * f.LineHeight}
	f.sizes[s] = sz
	return sz.w, sz.h
}

// ClearCaches drops every cached glyph entry and text size, e.g. after the
// atlas was rebuilt.
func (f *Font) ClearCaches() {
	f.cached = [NumChars]bool{}
	f.glyphs = [NumChars]GlyphCacheEntry{}
	clear(f.sizes)
}

// CacheStats returns a snapshot of the cache counters.
func (f *Font) CacheStats() CacheStats {
	s := f.stats
	s.TextSizeEntries = len(f.sizes)
	return s
}

// Close drops the font's atlas reference.
func (f *Font) Close() {
	if f == nil || f.atlas == nil {
		return
	}
	f.atlas.Release()
	f.atlas = nil
}

// Baseline-to-top distance (useful to position text by top-left).
func BaselineToTop(f *Font) float32    { return f.Ascent }
func BaselineToBottom(f *Font) float32 { return -f.Descent }
