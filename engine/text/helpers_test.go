package text

import "github.com/hubastard/vgrove/engine/core"

func gfxtestTexture(w, h int) core.TextureDesc {
	return core.TextureDesc{Width: w, Height: h, Format: core.TextureRGBA8, Pixels: make([]byte, w*h*4)}
}
