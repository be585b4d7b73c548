package renderer2d

import (
	"errors"
	"fmt"

	"github.com/hubastard/vgrove/engine/assets"
	"github.com/hubastard/vgrove/engine/core"
	"github.com/hubastard/vgrove/engine/gfx/drawlist"
	"github.com/hubastard/vgrove/engine/gfx/gpubuf"
	"github.com/hubastard/vgrove/engine/profiler"
)

// ErrNotRecording is returned by EndFrame without a matching BeginFrame.
var ErrNotRecording = errors.New("renderer2d: EndFrame called outside a frame")

// State is the frame lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateFlushing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateFlushing:
		return "flushing"
	default:
		return "unknown"
	}
}

type Config struct {
	VertexBufferBytes int `yaml:"vertex_buffer_bytes"`
	IndexBufferBytes  int `yaml:"index_buffer_bytes"`
	// GrowthLimit caps each buffer at GrowthLimit × its initial size.
	GrowthLimit    int `yaml:"growth_limit"`
	CircleSegments int `yaml:"circle_segments"`

	// Shader sources; empty means the embedded defaults.
	VertexShader   string `yaml:"-"`
	FragmentShader string `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		VertexBufferBytes: 1 << 20,
		IndexBufferBytes:  1 << 19,
		GrowthLimit:       gpubuf.DefaultGrowthLimit,
		CircleSegments:    drawlist.DefaultCircleSegments,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.VertexBufferBytes <= 0 {
		c.VertexBufferBytes = d.VertexBufferBytes
	}
	if c.IndexBufferBytes <= 0 {
		c.IndexBufferBytes = d.IndexBufferBytes
	}
	if c.GrowthLimit <= 0 {
		c.GrowthLimit = d.GrowthLimit
	}
	if c.CircleSegments <= 0 {
		c.CircleSegments = d.CircleSegments
	}
	return c
}

// Renderer2D owns the frame's draw list and the vertex/index stream buffers
// and turns each recorded frame into batched indexed draws.
//
// Usage per frame: BeginFrame, record into DrawList(), EndFrame. All calls
// must come from the goroutine that owns the device.
type Renderer2D struct {
	dev   core.Device
	pipe  core.Pipeline
	white core.Texture // 1x1 white, substituted for nil textures

	list *drawlist.DrawList
	vb   *gpubuf.PersistentBuffer
	ib   *gpubuf.PersistentBuffer

	state   State
	lastTex core.Texture
	proj    [16]float32
	stats   Statistics // frame in progress
	last    Statistics // last completed frame
}

// New creates the white texture, pipeline and stream buffers. Any failure
// releases what was already created and returns the error; the renderer
// must not be used then.
func New(dev core.Device, cfg Config) (_ *Renderer2D, err error) {
	cfg = cfg.withDefaults()
	rd := &Renderer2D{dev: dev}
	defer func() {
		if err != nil {
			rd.Shutdown()
		}
	}()

	rd.white, err = dev.CreateTexture(core.TextureDesc{
		Width: 1, Height: 1,
		Format:    core.TextureRGBA8,
		Pixels:    []byte{255, 255, 255, 255},
		MinFilter: core.FilterNearest, MagFilter: core.FilterNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer2d: white texture: %w", err)
	}

	vs, fs := cfg.VertexShader, cfg.FragmentShader
	if vs == "" {
		if vs, err = assets.LoadShader("drawlist.vert"); err != nil {
			return nil, err
		}
	}
	if fs == "" {
		if fs, err = assets.LoadShader("drawlist.frag"); err != nil {
			return nil, err
		}
	}
	rd.pipe, err = dev.CreatePipeline(core.PipelineDesc{
		VertexSource:   vs,
		FragmentSource: fs,
		Layout:         drawlist.Layout,
		IndexFormat:    core.IndexUint32,
		Blend:          true,
		DepthTest:      false,
		CullFace:       false,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer2d: pipeline: %w", err)
	}

	limit := cfg.GrowthLimit
	if rd.vb, err = gpubuf.New(dev, core.BufferVertex, cfg.VertexBufferBytes, cfg.VertexBufferBytes*limit); err != nil {
		return nil, err
	}
	if rd.ib, err = gpubuf.New(dev, core.BufferIndex, cfg.IndexBufferBytes, cfg.IndexBufferBytes*limit); err != nil {
		return nil, err
	}

	rd.list = drawlist.New(rd.white)
	rd.list.CircleSegments = cfg.CircleSegments
	core.Logger().Debug("renderer2d ready",
		"vertex_bytes", cfg.VertexBufferBytes, "index_bytes", cfg.IndexBufferBytes, "growth_limit", limit)
	return rd, nil
}

// DrawList returns the list to record the current frame into.
func (rd *Renderer2D) DrawList() *drawlist.DrawList { return rd.list }

// WhiteTexture returns the fallback texture used for untextured geometry.
func (rd *Renderer2D) WhiteTexture() core.Texture { return rd.white }

func (rd *Renderer2D) State() State { return rd.state }

// Stats returns the statistics of the last ended frame, so it can be read
// while the next one is recording.
func (rd *Renderer2D) Stats() Statistics { return rd.last }

// Projection returns the matrix used by the last flush.
func (rd *Renderer2D) Projection() [16]float32 { return rd.proj }

// BeginFrame clears the draw list, rewinds both buffers and forgets the
// bound texture.
func (rd *Renderer2D) BeginFrame() {
	rd.list.Clear()
	rd.vb.ResetOffsets()
	rd.ib.ResetOffsets()
	rd.lastTex = nil
	rd.stats.beginFrame()
	rd.state = StateRecording
}

// EndFrame uploads the recorded geometry and issues one draw per non-empty
// command, in recording order. An empty frame touches no GPU buffer.
//
// If the geometry does not fit under the buffer ceiling or a map fails the
// frame is dropped: nothing is drawn, the error is returned and the next
// BeginFrame starts from a consistent state.
func (rd *Renderer2D) EndFrame() error {
	if rd.state != StateRecording {
		return ErrNotRecording
	}
	rd.state = StateFlushing
	defer func() {
		rd.state = StateIdle
		rd.last = rd.stats
	}()

	cmds := rd.list.Commands()
	if rd.list.VertexCount() == 0 || len(cmds) == 0 {
		return nil
	}

	if err := rd.upload(); err != nil {
		return rd.dropFrame(err)
	}

	end := profiler.Start("renderer2d.draw")
	defer end()

	w, h := rd.dev.Viewport()
	rd.proj = PixelProjection(w, h)
	rd.dev.BindPipeline(rd.pipe, rd.vb.Handle(), rd.ib.Handle(), rd.proj)

	var clip *core.Rect
	for i := range cmds {
		cmd := &cmds[i]
		if cmd.IndexCount == 0 {
			continue
		}
		if cmd.Texture != rd.lastTex {
			rd.dev.BindTexture(cmd.Texture)
			rd.lastTex = cmd.Texture
			rd.stats.TextureBinds++
		}
		if next := cmd.ClipRect(); !sameClip(clip, next) {
			rd.dev.SetScissor(next)
			clip = next
		}
		rd.dev.DrawIndexed(cmd.IndexOffset, cmd.IndexCount)
		rd.stats.DrawCalls++
	}
	rd.stats.Commands = len(cmds)
	rd.stats.Vertices = rd.list.VertexCount()
	rd.stats.Indices = rd.list.IndexCount()
	return nil
}

// upload grows the buffers if needed and copies the frame's arenas.
func (rd *Renderer2D) upload() error {
	end := profiler.Start("renderer2d.upload")
	defer end()

	vtx := gpubuf.AsBytes(rd.list.Vertices())
	idx := gpubuf.AsBytes(rd.list.Indices())

	for _, g := range []struct {
		b *gpubuf.PersistentBuffer
		n int
	}{{rd.vb, len(vtx)}, {rd.ib, len(idx)}} {
		grew, err := g.b.Grow(g.n)
		if err != nil {
			return err
		}
		if grew {
			rd.stats.BufferResizes++
		}
	}

	if err := rd.vb.MapDiscard(); err != nil {
		return err
	}
	if err := rd.ib.MapDiscard(); err != nil {
		_ = rd.vb.Unmap()
		return err
	}
	werr := errors.Join(rd.vb.Write(vtx), rd.ib.Write(idx))
	uerr := errors.Join(rd.vb.Unmap(), rd.ib.Unmap())
	return errors.Join(werr, uerr)
}

func (rd *Renderer2D) dropFrame(err error) error {
	rd.stats.DroppedFrames++
	core.Logger().Warn("renderer2d: frame dropped",
		"vertices", rd.list.VertexCount(), "indices", rd.list.IndexCount(), "err", err)
	return fmt.Errorf("renderer2d: frame dropped: %w", err)
}

func sameClip(a, b *core.Rect) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Shutdown releases every device object. The renderer is unusable after.
func (rd *Renderer2D) Shutdown() {
	if rd.vb != nil {
		rd.vb.Destroy()
		rd.vb = nil
	}
	if rd.ib != nil {
		rd.ib.Destroy()
		rd.ib = nil
	}
	if rd.pipe != nil {
		rd.dev.DestroyPipeline(rd.pipe)
		rd.pipe = nil
	}
	if rd.white != nil {
		rd.dev.DestroyTexture(rd.white)
		rd.white = nil
	}
	rd.state = StateIdle
}
