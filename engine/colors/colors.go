package colors

// Color is an 8-bit per channel RGBA color.
type Color struct {
	R, G, B, A uint8
}

var (
	White       = Color{255, 255, 255, 255}
	Red         = Color{255, 0, 0, 255}
	Green       = Color{0, 255, 0, 255}
	Blue        = Color{0, 0, 255, 255}
	Black       = Color{0, 0, 0, 255}
	Magenta     = Color{255, 0, 255, 255}
	Cyan        = Color{0, 255, 255, 255}
	Yellow      = Color{255, 255, 0, 255}
	Gray        = Color{128, 128, 128, 255}
	DarkGray    = Color{20, 26, 31, 255}
	Transparent = Color{}
)

// RGBA builds a color from byte channels.
func RGBA(r, g, b, a uint8) Color { return Color{r, g, b, a} }

// FromFloat builds a color from [0..1] channels, clamping out of range values.
func FromFloat(r, g, b, a float32) Color {
	return Color{unit(r), unit(g), unit(b), unit(a)}
}

func unit(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Pack returns the color as a 32-bit value with R in the lowest byte,
// which is the byte order the vertex layout reads as normalized RGBA8.
func (c Color) Pack() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// Unpack is the inverse of Color.Pack.
func Unpack(v uint32) Color {
	return Color{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: uint8(v >> 24),
	}
}

func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Floats returns the channels in [0..1], e.g. for clear colors.
func (c Color) Floats() [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}
