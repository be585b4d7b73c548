package ui

import (
	"strings"
	"testing"

	"github.com/hubastard/vgrove/engine/colors"
	"github.com/hubastard/vgrove/engine/core"
	"github.com/hubastard/vgrove/engine/gfx/drawlist"
	"github.com/hubastard/vgrove/engine/gfx/gfxtest"
	"github.com/hubastard/vgrove/engine/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func newContext(t *testing.T) *Context {
	t.Helper()
	dev := gfxtest.NewDevice(800, 600)
	white, err := dev.CreateTexture(core.TextureDesc{Width: 1, Height: 1, Pixels: []byte{255, 255, 255, 255}})
	require.NoError(t, err)
	f, err := text.LoadFontFromMemory(dev, goregular.TTF, 16)
	require.NoError(t, err)
	return &Context{
		Viewport:    core.Rect{MaxX: 800, MaxY: 600},
		DefaultFont: f,
		List:        drawlist.New(white),
	}
}

func TestVerticalStackOfLabels(t *testing.T) {
	ctx := newContext(t)
	a, b := Label("Draw calls: 3"), Label("Vertices")
	root := View(a, b).FlowDirection(LayoutVertical).Padding(10).Gap(5)
	root.Draw(ctx)

	aw, ah := ctx.DefaultFont.MeasureText("Draw calls: 3")
	bw, bh := ctx.DefaultFont.MeasureText("Vertices")

	x, y := a.Node().Pos()
	assert.Equal(t, [2]float32{10, 10}, [2]float32{x, y})
	x, y = b.Node().Pos()
	assert.Equal(t, [2]float32{10, 10 + ah + 5}, [2]float32{x, y})

	w, h := root.Node().Size()
	assert.Equal(t, max(aw, bw)+20, w)
	assert.Equal(t, ah+bh+5+20, h)
	assert.Same(t, root, b.Node().Parent())
}

func TestExpandTakesRemainingSpace(t *testing.T) {
	ctx := newContext(t)
	fixed := View().WidthFixed(50).HeightFixed(10)
	grow := View().WidthExpand().HeightFixed(10)
	root := View(fixed, grow).WidthFixed(200).Gap(0)
	root.Layout(ctx, Constraints{Max: [2]float32{800, 600}})

	x, _ := grow.Node().Pos()
	w, h := grow.Node().Size()
	assert.Equal(t, float32(50), x)
	assert.Equal(t, float32(150), w)
	assert.Equal(t, float32(10), h)
}

func TestCrossAlignment(t *testing.T) {
	ctx := newContext(t)
	small := View().WidthFixed(10).HeightFixed(10)
	tall := View().WidthFixed(10).HeightFixed(40)
	root := View(small, tall).Gap(0).AlignCross(AlignCenter)
	root.Layout(ctx, Constraints{Max: [2]float32{800, 600}})

	_, y := small.Node().Pos()
	assert.Equal(t, float32(15), y)

	root.AlignCross(AlignStretch)
	root.Layout(ctx, Constraints{Max: [2]float32{800, 600}})
	_, h := small.Node().Size()
	assert.Equal(t, float32(40), h)
}

func TestNestedViewsArePositioned(t *testing.T) {
	ctx := newContext(t)
	leaf := View().WidthFixed(5).HeightFixed(5)
	inner := View(leaf).Padding(3)
	root := View(View().WidthFixed(20).HeightFixed(5), inner).Gap(0).Padding(1)
	root.Draw(ctx)

	x, y := leaf.Node().Pos()
	assert.Equal(t, [2]float32{1 + 20 + 3, 1 + 3}, [2]float32{x, y})
}

func TestDrawClipsChildren(t *testing.T) {
	ctx := newContext(t)
	root := View(View().WidthFixed(30).HeightFixed(30).BgColor(colors.Red)).
		Padding(5).
		BgColor(colors.Black.WithAlpha(128)).
		Border(colors.White, 1).
		Clip(true)
	root.Position(100, 100)
	root.Draw(ctx)

	cmds := ctx.List.Commands()
	require.Len(t, cmds, 3, "background, clipped child, border")
	assert.False(t, cmds[0].Clipped)
	assert.True(t, cmds[1].Clipped)
	assert.Equal(t, core.Rect{MaxX: 40, MaxY: 40}, cmds[1].Clip, "root is laid out at the viewport origin")
	assert.False(t, cmds[2].Clipped)
	assert.Equal(t, 4*6, cmds[2].IndexCount)
	assert.Zero(t, ctx.List.ClipDepth())
}

func TestLabelWraps(t *testing.T) {
	ctx := newContext(t)
	l := Label("alpha beta gamma delta").MaxWidth(60)
	res := l.Layout(ctx, Constraints{})
	assert.True(t, strings.Contains(l.laidOut, "\n"))
	assert.LessOrEqual(t, res.Size[0], float32(60))
	lines := strings.Count(l.laidOut, "\n") + 1
	assert.Equal(t, ctx.DefaultFont.LineHeight*float32(lines), res.Size[1])
}

func TestLabelWithoutFont(t *testing.T) {
	ctx := newContext(t)
	ctx.DefaultFont = nil
	l := Label("x")
	assert.Equal(t, LayoutResult{}, l.Layout(ctx, Constraints{}))
	l.Draw(ctx)
	assert.Zero(t, ctx.List.VertexCount())
}
