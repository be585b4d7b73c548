package main

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/hubastard/vgrove/engine/colors"
	"github.com/hubastard/vgrove/engine/core"
	"github.com/hubastard/vgrove/engine/gfx/drawlist"
	"github.com/hubastard/vgrove/engine/gfx/renderer2d"
	"github.com/hubastard/vgrove/engine/profiler"
	"github.com/hubastard/vgrove/engine/text"
)

// Layer2D draws one of every primitive, animated.
type Layer2D struct {
	r2d   *renderer2d.Renderer2D
	font  *text.Font
	image core.Texture
	tiles drawlist.SubTexture
	clip  bool
	t     float32
	hex   [6]drawlist.Vec2
	zig   [9]drawlist.Vec2
}

func (l *Layer2D) OnAttach(e *core.Engine) error {
	l.clip = true
	l.tiles = drawlist.FromGrid(l.image, 1, 1, 16, 16)
	return nil
}

func (l *Layer2D) OnDetach(e *core.Engine) {}

func (l *Layer2D) OnUpdate(e *core.Engine, dt float64) {
	l.t += float32(dt)
	if e.Input.IsKeyDown(core.KeyEscape) {
		e.Window.RequestClose()
	}
}

func (l *Layer2D) OnRender(e *core.Engine, alpha float64) {
	end := profiler.Start("Layer2D.OnRender")
	defer end()

	dl := l.r2d.DrawList()
	w, _ := e.Device.Viewport()
	x0 := float32(w) - 620

	// Fills.
	dl.AddRectFilled(x0, 20, 120, 80, colors.Red)
	dl.AddRectFilledMultiColor(x0+140, 20, 120, 80, colors.Red, colors.Green, colors.Blue, colors.Yellow)
	dl.AddCircleFilled(x0+340, 60, 40, colors.Cyan, 0)
	for i := range l.hex {
		a := float32(i)*math32.Pi/3 + l.t
		l.hex[i] = drawlist.V2(x0+460+40*math32.Cos(a), 60+40*math32.Sin(a))
	}
	dl.AddConvexPolyFilled(l.hex[:], colors.Magenta)

	// Strokes.
	dl.AddRect(x0, 120, 120, 80, colors.White, 2)
	dl.AddRectCorners(x0+140, 120, 120, 80, colors.Yellow, 16, 3)
	dl.AddRectBorder(x0+280, 120, 120, 80, colors.Green, 4, drawlist.SideTop|drawlist.SideBottom)
	dl.AddCircle(x0+460, 160, 40, colors.White, 0, 1.5)

	for i, th := range []float32{1, 2, 4, 8} {
		y := 230 + float32(i)*20
		dl.AddLine(x0, y, x0+200+60*math32.Sin(l.t+float32(i)), y+10, colors.White, th)
	}
	for i := range l.zig {
		y := float32(230)
		if i%2 == 1 {
			y += 60
		}
		l.zig[i] = drawlist.V2(x0+300+float32(i)*30, y+10*math32.Sin(l.t*2+float32(i)))
	}
	dl.AddPolyline(l.zig[:], colors.Cyan, false, 3)

	// Textures.
	uv0, uv1 := drawlist.V2(0, 0), drawlist.V2(1, 1)
	dl.AddImage(l.image, x0, 330, 96, 96, uv0, uv1, colors.White)
	dl.AddSubTexture(l.tiles, x0+110, 330, 96, 96, colors.White)
	dl.AddImage(l.image, x0+220, 330, 96, 96, drawlist.V2(0.25, 0.25), drawlist.V2(0.5, 0.5), colors.White.WithAlpha(160))

	// Text.
	dl.AddText(l.font, x0, 450, colors.White, "The quick brown fox\njumps over the lazy dog.")
	dl.AddText(l.font, x0, 510, colors.Yellow, fmt.Sprintf("t = %.2fs   [C] toggles clipping", l.t))

	// Clipped content scrolls past a fixed window.
	box := core.Rect{MinX: x0, MinY: 550, MaxX: x0 + 400, MaxY: 650}
	dl.AddRect(box.MinX-1, box.MinY-1, box.W()+2, box.H()+2, colors.Gray, 1)
	if l.clip {
		dl.PushClipRect(box)
	}
	off := 80 * math32.Sin(l.t)
	for i := 0; i < 6; i++ {
		fi := float32(i)
		dl.AddCircleFilled(box.MinX+40+fi*70+off, box.MinY+50, 30, colors.Blue.WithAlpha(200), 24)
		dl.AddText(l.font, box.MinX+20+fi*70+off, box.MinY+40, colors.White, fmt.Sprintf("#%d", i))
	}
	if l.clip {
		dl.PopClipRect()
	}
}

func (l *Layer2D) OnEvent(e *core.Engine, ev core.Event) bool {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyC {
		l.clip = !l.clip
		return true
	}
	return false
}

// checkerTexture builds a size×size two-tone checkerboard with cell×cell squares.
func checkerTexture(dev core.Device, size, cell int) (core.Texture, error) {
	px := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := colors.Gray
			if (x/cell+y/cell)%2 == 0 {
				c = colors.White
			}
			i := (y*size + x) * 4
			px[i], px[i+1], px[i+2], px[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return dev.CreateTexture(core.TextureDesc{
		Width: size, Height: size,
		Format:    core.TextureRGBA8,
		Pixels:    px,
		MinFilter: core.FilterNearest, MagFilter: core.FilterNearest,
	})
}
