package drawlist

import (
	"github.com/hubastard/vgrove/engine/colors"
	"github.com/hubastard/vgrove/engine/text"
)

// AddText draws s with its top-left at (x, y). Printable ASCII advances the
// pen and emits a quad when the glyph has pixels; '\n' starts a new line;
// every other rune is skipped.
func (dl *DrawList) AddText(f *text.Font, x, y float32, col colors.Color, s string) {
	if f == nil {
		return
	}
	c := col.Pack()
	tex := f.Texture()
	penX := x
	baseY := y + f.Ascent
	for _, r := range s {
		if r == '\n' {
			penX = x
			baseY += f.LineHeight
			continue
		}
		if r < text.FirstChar || r > text.LastChar {
			continue
		}
		g := f.Glyph(r)
		if g.Visible() {
			dl.quad(tex, penX+g.X0, baseY+g.Y0, penX+g.X1, baseY+g.Y1,
				g.U0, g.V0, g.U1, g.V1, c, c, c, c)
		}
		penX += g.Advance
	}
}
