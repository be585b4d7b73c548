package renderer2d

import (
	"testing"

	"github.com/hubastard/vgrove/engine/colors"
	"github.com/hubastard/vgrove/engine/core"
	"github.com/hubastard/vgrove/engine/gfx/drawlist"
	"github.com/hubastard/vgrove/engine/gfx/gfxtest"
	"github.com/hubastard/vgrove/engine/gfx/gpubuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, cfg Config) (*Renderer2D, *gfxtest.Device) {
	t.Helper()
	dev := gfxtest.NewDevice(800, 600)
	rd, err := New(dev, cfg)
	require.NoError(t, err)
	t.Cleanup(rd.Shutdown)
	dev.ResetCounters()
	return rd, dev
}

func texture(t *testing.T, dev *gfxtest.Device) core.Texture {
	t.Helper()
	tex, err := dev.CreateTexture(core.TextureDesc{Width: 2, Height: 2, Pixels: make([]byte, 16)})
	require.NoError(t, err)
	return tex
}

func TestNewCreatesResources(t *testing.T) {
	rd, dev := newRenderer(t, Config{})
	require.Len(t, dev.Textures, 1)
	assert.Same(t, dev.Textures[0], rd.WhiteTexture())
	assert.Equal(t, []byte{255, 255, 255, 255}, dev.Textures[0].Desc.Pixels)

	require.Len(t, dev.Pipelines, 1)
	desc := dev.Pipelines[0].Desc
	assert.True(t, desc.Blend)
	assert.False(t, desc.DepthTest)
	assert.False(t, desc.CullFace)
	assert.Equal(t, core.IndexUint32, desc.IndexFormat)
	assert.Equal(t, drawlist.VertexSize, desc.Layout.Stride)
	assert.Contains(t, desc.VertexSource, "uProjection")

	require.Len(t, dev.Buffers, 2)
	assert.Equal(t, DefaultConfig().VertexBufferBytes, dev.Buffers[0].Desc.Capacity)
	assert.Equal(t, core.BufferIndex, dev.Buffers[1].Desc.Kind)
	assert.Equal(t, StateIdle, rd.State())
	assert.Equal(t, drawlist.DefaultCircleSegments, rd.DrawList().CircleSegments)
}

func TestNewReleasesOnFailure(t *testing.T) {
	dev := gfxtest.NewDevice(1, 1)
	dev.FailCreatePipeline = true
	_, err := New(dev, Config{})
	assert.ErrorIs(t, err, gfxtest.ErrInjected)
	assert.Len(t, dev.DestroyedTextures, 1, "white texture released")

	dev = gfxtest.NewDevice(1, 1)
	dev.FailCreateBuffer = true
	_, err = New(dev, Config{})
	assert.ErrorIs(t, err, gfxtest.ErrInjected)
	assert.Len(t, dev.DestroyedTextures, 1)
	assert.Len(t, dev.DestroyedPipelines, 1)
}

func TestSingleRectIsOneDraw(t *testing.T) {
	rd, dev := newRenderer(t, Config{})

	rd.BeginFrame()
	assert.Equal(t, StateRecording, rd.State())
	rd.DrawList().AddRectFilled(10, 10, 20, 20, colors.Red)
	require.NoError(t, rd.EndFrame())
	assert.Equal(t, StateIdle, rd.State())

	require.Len(t, dev.Draws, 1)
	d := dev.Draws[0]
	assert.Equal(t, 0, d.Offset)
	assert.Equal(t, 6, d.Count)
	assert.Same(t, rd.WhiteTexture(), d.Texture)
	assert.Nil(t, d.Scissor)

	vtx := gpubuf.AsBytes(rd.DrawList().Vertices())
	idx := gpubuf.AsBytes(rd.DrawList().Indices())
	assert.Equal(t, vtx, dev.BoundVB.Data[:len(vtx)])
	assert.Equal(t, idx, dev.BoundIB.Data[:len(idx)])
	assert.Equal(t, 2, dev.Maps)
	assert.Equal(t, 2, dev.Unmaps)
	assert.Equal(t, PixelProjection(800, 600), dev.Projection)

	st := rd.Stats()
	assert.Equal(t, 1, st.DrawCalls)
	assert.Equal(t, 1, st.Commands)
	assert.Equal(t, 4, st.Vertices)
	assert.Equal(t, 6, st.Indices)
	assert.Equal(t, 2, st.TriangleCount())
	assert.Equal(t, 1, st.TextureBinds)
}

func TestEmptyFrameTouchesNothing(t *testing.T) {
	rd, dev := newRenderer(t, Config{})
	rd.BeginFrame()
	require.NoError(t, rd.EndFrame())
	assert.Zero(t, dev.Maps)
	assert.Zero(t, dev.PipelineBinds)
	assert.Empty(t, dev.Draws)
	assert.Equal(t, StateIdle, rd.State())
}

func TestEndFrameOutsideFrame(t *testing.T) {
	rd, _ := newRenderer(t, Config{})
	assert.ErrorIs(t, rd.EndFrame(), ErrNotRecording)

	rd.BeginFrame()
	require.NoError(t, rd.EndFrame())
	assert.ErrorIs(t, rd.EndFrame(), ErrNotRecording)
}

func TestTextureChangesRebind(t *testing.T) {
	rd, dev := newRenderer(t, Config{})
	a, b := texture(t, dev), texture(t, dev)
	uv0, uv1 := drawlist.V2(0, 0), drawlist.V2(1, 1)

	rd.BeginFrame()
	dl := rd.DrawList()
	dl.AddImage(a, 0, 0, 8, 8, uv0, uv1, colors.White)
	dl.AddImage(a, 8, 0, 8, 8, uv0, uv1, colors.White)
	dl.AddImage(b, 0, 8, 8, 8, uv0, uv1, colors.White)
	dl.AddImage(a, 8, 8, 8, 8, uv0, uv1, colors.White)
	require.NoError(t, rd.EndFrame())

	require.Len(t, dev.Draws, 3)
	assert.Equal(t, []core.Texture{a, b, a}, dev.TextureBinds)
	assert.Equal(t, 12, dev.Draws[0].Count)
	assert.Equal(t, 12, dev.Draws[1].Offset)
	assert.Equal(t, 18, dev.Draws[2].Offset)
	assert.Equal(t, 3, rd.Stats().TextureBinds)

	dev.ResetCounters()
	rd.BeginFrame()
	dl.AddImage(a, 0, 0, 8, 8, uv0, uv1, colors.White)
	require.NoError(t, rd.EndFrame())
	assert.Equal(t, []core.Texture{a}, dev.TextureBinds, "binding state is forgotten between frames")
}

func TestClipSetsScissor(t *testing.T) {
	rd, dev := newRenderer(t, Config{})
	clip := core.Rect{MinX: 10, MinY: 10, MaxX: 50, MaxY: 50}

	rd.BeginFrame()
	dl := rd.DrawList()
	dl.AddRectFilled(0, 0, 5, 5, colors.Blue)
	dl.PushClipRect(clip)
	dl.AddRectFilled(20, 20, 5, 5, colors.Green)
	dl.AddRectFilled(30, 20, 5, 5, colors.Green)
	dl.PopClipRect()
	dl.AddRectFilled(0, 0, 5, 5, colors.Blue)
	require.NoError(t, rd.EndFrame())

	require.Len(t, dev.Draws, 3)
	assert.Nil(t, dev.Draws[0].Scissor)
	require.NotNil(t, dev.Draws[1].Scissor)
	assert.Equal(t, clip, *dev.Draws[1].Scissor)
	assert.Equal(t, 12, dev.Draws[1].Count)
	assert.Nil(t, dev.Draws[2].Scissor)
	assert.Equal(t, 2, dev.ScissorChanges)
	assert.Len(t, dev.TextureBinds, 1, "same texture across clip changes")
}

func TestBuffersGrowToFit(t *testing.T) {
	rd, dev := newRenderer(t, Config{VertexBufferBytes: 4 * drawlist.VertexSize})

	rd.BeginFrame()
	for i := 0; i < 10; i++ {
		rd.DrawList().AddRectFilled(float32(i), 0, 1, 1, colors.White)
	}
	require.NoError(t, rd.EndFrame())

	assert.Equal(t, 1, rd.Stats().BufferResizes)
	assert.Equal(t, 40*drawlist.VertexSize, dev.BoundVB.Capacity())
	require.Len(t, dev.Draws, 1)
	assert.Equal(t, 60, dev.Draws[0].Count)

	rd.BeginFrame()
	rd.DrawList().AddRectFilled(0, 0, 1, 1, colors.White)
	require.NoError(t, rd.EndFrame())
	assert.Equal(t, 1, rd.Stats().BufferResizes, "resizes accumulate across frames")
	assert.Equal(t, 1, rd.Stats().DrawCalls)
}

func TestFrameOverCeilingIsDropped(t *testing.T) {
	rd, dev := newRenderer(t, Config{VertexBufferBytes: 4 * drawlist.VertexSize, GrowthLimit: 2})

	rd.BeginFrame()
	for i := 0; i < 10; i++ {
		rd.DrawList().AddRectFilled(float32(i), 0, 1, 1, colors.White)
	}
	err := rd.EndFrame()
	assert.ErrorIs(t, err, gpubuf.ErrExceedsCeiling)
	assert.Empty(t, dev.Draws)
	assert.Zero(t, dev.Maps)
	assert.Equal(t, 1, rd.Stats().DroppedFrames)
	assert.Equal(t, StateIdle, rd.State())

	rd.BeginFrame()
	rd.DrawList().AddRectFilled(0, 0, 1, 1, colors.White)
	require.NoError(t, rd.EndFrame())
	assert.Len(t, dev.Draws, 1)
	assert.Equal(t, 1, rd.Stats().DroppedFrames)
}

func TestMapFailureDropsFrame(t *testing.T) {
	rd, dev := newRenderer(t, Config{})
	dev.FailMap[core.BufferIndex] = true

	rd.BeginFrame()
	rd.DrawList().AddRectFilled(0, 0, 1, 1, colors.White)
	assert.ErrorIs(t, rd.EndFrame(), gfxtest.ErrInjected)
	assert.Empty(t, dev.Draws)
	assert.Equal(t, 1, dev.Unmaps, "vertex buffer unmapped after index map failed")
	for _, b := range dev.LiveBuffers() {
		assert.False(t, b.Mapped)
	}

	dev.FailMap[core.BufferIndex] = false
	rd.BeginFrame()
	rd.DrawList().AddRectFilled(0, 0, 1, 1, colors.White)
	require.NoError(t, rd.EndFrame())
	assert.Len(t, dev.Draws, 1)
}

func TestShutdownReleasesEverything(t *testing.T) {
	dev := gfxtest.NewDevice(1, 1)
	rd, err := New(dev, Config{})
	require.NoError(t, err)
	rd.Shutdown()
	assert.Empty(t, dev.LiveBuffers())
	assert.Len(t, dev.DestroyedTextures, 1)
	assert.Len(t, dev.DestroyedPipelines, 1)
	rd.Shutdown()
	assert.Len(t, dev.DestroyedTextures, 1)
}

func TestPixelProjection(t *testing.T) {
	m := PixelProjection(800, 600)
	x, y := transform(m, PixelBias, PixelBias)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)
	x, y = transform(m, 800+PixelBias, 600+PixelBias)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, -1, y, 1e-6)
	x, y = transform(m, 400+PixelBias, 300+PixelBias)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}
