package renderer2d

// PixelBias shifts the projection by half a pixel so integer coordinates
// snap to the same pixels on every backend.
const PixelBias = 0.5

// PixelProjection maps pixel coordinates (origin top-left, +Y down) of a
// w×h viewport to clip space.
func PixelProjection(w, h int) [16]float32 {
	return ortho(PixelBias, float32(w)+PixelBias, float32(h)+PixelBias, PixelBias, -1, 1)
}

// ortho is column-major, GLSL-style.
func ortho(l, r, b, t, n, f float32) [16]float32 {
	rl := 1 / (r - l)
	tb := 1 / (t - b)
	fn := 1 / (f - n)
	return [16]float32{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(r + l) * rl, -(t + b) * tb, -(f + n) * fn, 1,
	}
}

// transform applies a column-major matrix to a 2D point.
func transform(m [16]float32, x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}
