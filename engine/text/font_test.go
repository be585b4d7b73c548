package text

import (
	"testing"

	"github.com/hubastard/vgrove/engine/core"
	"github.com/hubastard/vgrove/engine/gfx/gfxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func loadGoRegular(t *testing.T, dev *gfxtest.Device) *Font {
	t.Helper()
	f, err := LoadFontFromMemory(dev, goregular.TTF, 16)
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

func fixedFont(dev *gfxtest.Device) *Font {
	tex, _ := dev.CreateTexture(gfxtestTexture(64, 64))
	table := make([]PackedGlyph, NumChars)
	for i := range table {
		table[i] = PackedGlyph{Present: true, X: i % 8 * 8, Y: i / 8 * 8, W: 6, H: 8, XOff: 1, YOff: -8, Advance: 7.25}
	}
	table[0].W, table[0].H = 0, 0 // space
	return NewFont(NewAtlas(dev, tex, 64, 64), Metrics{SizePx: 10, Ascent: 8, Descent: -2, LineGap: 1}, table)
}

func TestLoadFontFromMemory(t *testing.T) {
	dev := gfxtest.NewDevice(800, 600)
	f := loadGoRegular(t, dev)

	require.Len(t, dev.Textures, 1)
	assert.Same(t, dev.Textures[0], f.Texture())
	assert.Greater(t, f.Ascent, float32(0))
	assert.Less(t, f.Descent, float32(0))
	assert.Equal(t, f.Ascent-f.Descent+f.LineGap, f.LineHeight)

	a := f.Glyph('A')
	assert.True(t, a.Valid)
	assert.True(t, a.Visible())
	assert.Greater(t, a.Advance, float32(0))
	assert.Less(t, a.Y0, float32(0), "glyph top sits above the baseline")
	assert.True(t, a.U1 > a.U0 && a.V1 > a.V0)

	sp := f.Glyph(' ')
	assert.True(t, sp.Valid)
	assert.False(t, sp.Visible())
	assert.Greater(t, sp.Advance, float32(0))
}

func TestLoadFontRejectsGarbage(t *testing.T) {
	dev := gfxtest.NewDevice(800, 600)
	f, err := LoadFontFromMemory(dev, []byte("not a font"), 16)
	assert.Error(t, err)
	assert.Nil(t, f)
	assert.Empty(t, dev.Textures)

	_, err = LoadFontFromFile(dev, "does/not/exist.ttf", 16)
	assert.Error(t, err)
}

func TestGlyphOutOfRange(t *testing.T) {
	f := fixedFont(gfxtest.NewDevice(1, 1))
	for _, r := range []rune{'\t', 31, 127, 'é', '世'} {
		g := f.Glyph(r)
		assert.False(t, g.Valid, "rune %q", r)
		assert.Zero(t, g.Advance)
	}
	assert.Zero(t, f.CacheStats().GlyphComputes)
}

func TestGlyphIsMemoized(t *testing.T) {
	f := fixedFont(gfxtest.NewDevice(1, 1))
	g1 := f.Glyph('B')
	g2 := f.Glyph('B')
	assert.Equal(t, g1, g2)
	assert.Equal(t, 1, f.CacheStats().GlyphComputes)
	assert.Equal(t, 2, f.CacheStats().GlyphLookups)

	// 'B' is index 34: atlas cell (2, 4)
	assert.Equal(t, GlyphCacheEntry{
		Advance: 7.25,
		X0:      1, Y0: -8, X1: 7, Y1: 0,
		U0: 16.0 / 64, V0: 32.0 / 64, U1: 22.0 / 64, V1: 40.0 / 64,
		Valid: true,
	}, g1)
}

func TestMeasureText(t *testing.T) {
	f := fixedFont(gfxtest.NewDevice(1, 1))

	w, h := f.MeasureText("ab")
	assert.Equal(t, float32(15), w) // ceil(14.5)
	assert.Equal(t, f.LineHeight, h)

	w, h = f.MeasureText("abc\nd")
	assert.Equal(t, float32(22), w) // ceil(21.75)
	assert.Equal(t, 2*f.LineHeight, h)

	w, h = f.MeasureText("aéb") // é contributes nothing
	assert.Equal(t, float32(15), w)
	assert.Equal(t, f.LineHeight, h)

	w, h = f.MeasureText("")
	assert.Zero(t, w)
	assert.Equal(t, f.LineHeight, h)
}

func TestMeasureTextCacheHit(t *testing.T) {
	f := fixedFont(gfxtest.NewDevice(1, 1))

	w1, h1 := f.MeasureText("hello world")
	before := f.CacheStats()
	w2, h2 := f.MeasureText("hello world")
	after := f.CacheStats()

	assert.Equal(t, w1, w2)
	assert.Equal(t, h1, h2)
	assert.Equal(t, before.GlyphLookups, after.GlyphLookups, "cache hit must not touch glyph metrics")
	assert.Equal(t, before.GlyphComputes, after.GlyphComputes)
	assert.Equal(t, 1, after.TextSizeComputes)
	assert.Equal(t, 1, after.TextSizeHits)
	assert.Equal(t, 1, after.TextSizeEntries)
}

func TestClearCaches(t *testing.T) {
	f := fixedFont(gfxtest.NewDevice(1, 1))
	f.MeasureText("abc")
	f.ClearCaches()
	assert.Zero(t, f.CacheStats().TextSizeEntries)

	f.MeasureText("abc")
	s := f.CacheStats()
	assert.Equal(t, 2, s.TextSizeComputes)
	assert.Equal(t, 6, s.GlyphComputes)
}

func TestAtlasRefCounting(t *testing.T) {
	dev := gfxtest.NewDevice(1, 1)
	tex, err := dev.CreateTexture(gfxtestTexture(8, 8))
	require.NoError(t, err)
	atlas := NewAtlas(dev, tex, 8, 8)

	a := NewFont(atlas, Metrics{Ascent: 1}, nil)
	b := NewFont(atlas, Metrics{Ascent: 1}, nil)
	assert.Equal(t, 2, atlas.Refs())

	a.Close()
	assert.Empty(t, dev.DestroyedTextures)
	b.Close()
	assert.Equal(t, 0, atlas.Refs())
	assert.Equal(t, []core.Texture{tex}, dev.DestroyedTextures)

	b.Close() // no-op after release
}
