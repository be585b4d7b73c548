package text

import (
	"fmt"
	"image"
	"os"

	"github.com/hubastard/vgrove/engine/core"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	atlasPadding = 2
	atlasStart   = 128
	atlasMaxSize = 4096
)

// Atlas is a glyph texture shared by reference count. The texture is
// destroyed when the last reference is released.
type Atlas struct {
	Texture core.Texture
	W, H    int

	dev  core.Device
	refs int
}

// NewAtlas wraps an uploaded texture; the caller holds no reference until
// Retain is called (NewFont does that).
func NewAtlas(dev core.Device, tex core.Texture, w, h int) *Atlas {
	return &Atlas{Texture: tex, W: w, H: h, dev: dev}
}

func (a *Atlas) Retain() *Atlas {
	a.refs++
	return a
}

func (a *Atlas) Release() {
	a.refs--
	if a.refs > 0 {
		return
	}
	if a.dev != nil && a.Texture != nil {
		a.dev.DestroyTexture(a.Texture)
	}
	a.Texture = nil
}

// Refs reports the number of live references.
func (a *Atlas) Refs() int { return a.refs }

// LoadFontFromFile reads a TrueType/OpenType file and packs it at sizePx.
func LoadFontFromFile(dev core.Device, path string, sizePx float32) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return LoadFontFromMemory(dev, data, sizePx)
}

// LoadFontFromMemory rasterizes printable ASCII into a white-on-transparent
// RGBA atlas, uploads it and returns the packed font.
func LoadFontFromMemory(dev core.Device, ttf []byte, sizePx float32) (*Font, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", sizePx)
	}
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	m := face.Metrics()
	ascent := float32(m.Ascent.Round())
	descent := float32(-m.Descent.Round())
	metrics := Metrics{
		SizePx:  sizePx,
		Ascent:  ascent,
		Descent: descent,
		LineGap: float32(m.Height.Round()) - ascent + descent,
	}

	table := make([]PackedGlyph, NumChars)
	for i := range table {
		r := rune(FirstChar + i)
		b, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		x0, y0 := b.Min.X.Floor(), b.Min.Y.Floor()
		table[i] = PackedGlyph{
			Present: true,
			W:       b.Max.X.Ceil() - x0,
			H:       b.Max.Y.Ceil() - y0,
			XOff:    float32(x0),
			YOff:    float32(y0),
			Advance: float32(adv.Round()),
		}
	}

	size, err := packShelves(table)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	drawer := &font.Drawer{Dst: dst, Src: image.White, Face: face}
	for i, g := range table {
		if !g.Present || g.W == 0 || g.H == 0 {
			continue
		}
		// Dot sits on the baseline; shift so the bitmap lands at (X, Y).
		drawer.Dot = fixed.P(g.X-int(g.XOff), g.Y-int(g.YOff))
		drawer.DrawString(string(rune(FirstChar + i)))
	}

	// Coverage lives in alpha; the drawer wrote premultiplied white.
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = 255, 255, 255
	}

	tex, err := dev.CreateTexture(core.TextureDesc{
		Width: size, Height: size,
		Format:    core.TextureRGBA8,
		Pixels:    tightPixels(dst),
		MinFilter: core.FilterNearest,
		MagFilter: core.FilterNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("upload font atlas: %w", err)
	}
	core.Logger().Info("font loaded", "size_px", sizePx, "atlas", size)

	return NewFont(NewAtlas(dev, tex, size, size), metrics, table), nil
}

// packShelves assigns atlas positions in rows, doubling the square atlas
// until everything fits.
func packShelves(table []PackedGlyph) (int, error) {
	for size := atlasStart; size <= atlasMaxSize; size *= 2 {
		if shelfFits(table, size) {
			return size, nil
		}
	}
	return 0, fmt.Errorf("font atlas too large (>%d)", atlasMaxSize)
}

func shelfFits(table []PackedGlyph, size int) bool {
	x, y, rowH := atlasPadding, atlasPadding, 0
	for i := range table {
		g := &table[i]
		if !g.Present || g.W == 0 || g.H == 0 {
			continue
		}
		if g.W+atlasPadding*2 > size || g.H+atlasPadding*2 > size {
			return false
		}
		if x+g.W+atlasPadding > size {
			x = atlasPadding
			y += rowH + atlasPadding
			rowH = 0
		}
		if y+g.H+atlasPadding > size {
			return false
		}
		g.X, g.Y = x, y
		x += g.W + atlasPadding
		rowH = max(rowH, g.H)
	}
	return true
}

func tightPixels(img *image.RGBA) []byte {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if img.Stride == w*4 {
		return img.Pix
	}
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
	}
	return out
}
