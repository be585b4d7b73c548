// Package assets loads shaders and images into device resources.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/hubastard/vgrove/engine/core"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeRGBA decodes any registered image format into tightly packed RGBA8
// rows with a top-left origin.
func DecodeRGBA(data []byte) (w, h int, rgba []byte, err error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode image: %w", err)
	}
	m := imageToRGBA(img)
	w, h = m.Bounds().Dx(), m.Bounds().Dy()
	if w == 0 || h == 0 {
		return 0, 0, nil, fmt.Errorf("decode %s image: empty bounds", format)
	}

	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], m.Pix[y*m.Stride:y*m.Stride+w*4])
	}
	return w, h, out, nil
}

func imageToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// TextureOptions controls sampling of loaded textures. The zero value
// samples linearly.
type TextureOptions struct {
	Nearest bool
}

func (o TextureOptions) filter() core.Filter {
	if o.Nearest {
		return core.FilterNearest
	}
	return core.FilterLinear
}

// LoadTextureFromMemory decodes an encoded image and uploads it.
func LoadTextureFromMemory(dev core.Device, data []byte, opts TextureOptions) (core.Texture, error) {
	w, h, px, err := DecodeRGBA(data)
	if err != nil {
		return nil, err
	}
	tex, err := dev.CreateTexture(core.TextureDesc{
		Width: w, Height: h,
		Format:    core.TextureRGBA8,
		Pixels:    px,
		MinFilter: opts.filter(),
		MagFilter: opts.filter(),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %dx%d texture: %w", w, h, err)
	}
	return tex, nil
}

// LoadTextureFromFile reads path and forwards to LoadTextureFromMemory.
func LoadTextureFromFile(dev core.Device, path string, opts TextureOptions) (core.Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	tex, err := LoadTextureFromMemory(dev, data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tex, nil
}
