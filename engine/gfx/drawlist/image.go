package drawlist

import (
	"github.com/hubastard/vgrove/engine/colors"
	"github.com/hubastard/vgrove/engine/core"
)

// AddImage draws tex over the rect with the given UV corners and tint.
func (dl *DrawList) AddImage(tex core.Texture, x, y, w, h float32, uv0, uv1 Vec2, tint colors.Color) {
	if w == 0 || h == 0 {
		return
	}
	c := tint.Pack()
	dl.quad(tex, x, y, x+w, y+h, uv0.X, uv0.Y, uv1.X, uv1.Y, c, c, c, c)
}

// AddSubTexture draws a sprite region over the rect.
func (dl *DrawList) AddSubTexture(sub SubTexture, x, y, w, h float32, tint colors.Color) {
	dl.AddImage(sub.Texture, x, y, w, h, Vec2{sub.U0, sub.V0}, Vec2{sub.U1, sub.V1}, tint)
}
