// Package gfxtest provides a recording core.Device for tests. Buffers are
// plain byte slices; every call that would reach the GPU is logged so tests
// can assert on map/unmap traffic, bound state and issued draws.
package gfxtest

import (
	"errors"
	"fmt"

	"github.com/hubastard/vgrove/engine/core"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("gfxtest: injected failure")

type Buffer struct {
	Desc      core.BufferDesc
	Data      []byte
	Mapped    bool
	Destroyed bool
}

func (b *Buffer) Capacity() int { return b.Desc.Capacity }

type Texture struct {
	Desc core.TextureDesc
}

func (t *Texture) Size() (int, int) { return t.Desc.Width, t.Desc.Height }

type Pipeline struct {
	Desc core.PipelineDesc
}

// DrawCall is one recorded DrawIndexed with the state bound at that time.
type DrawCall struct {
	Texture core.Texture
	Scissor *core.Rect
	Offset  int
	Count   int
}

type Device struct {
	W, H int

	Buffers            []*Buffer
	DestroyedBuffers   []*Buffer
	Textures           []*Texture
	DestroyedTextures  []core.Texture
	Pipelines          []*Pipeline
	DestroyedPipelines []core.Pipeline

	Maps, Unmaps   int
	PipelineBinds  int
	TextureBinds   []core.Texture
	ScissorChanges int
	Draws          []DrawCall
	Projection     [16]float32
	BoundVB        *Buffer
	BoundIB        *Buffer

	// Failure injection.
	FailMap            map[core.BufferKind]bool
	FailCreateBuffer   bool
	FailCreateTexture  bool
	FailCreatePipeline bool

	texture core.Texture
	scissor *core.Rect
}

// NewDevice returns a device reporting a w×h viewport.
func NewDevice(w, h int) *Device {
	return &Device{W: w, H: h, FailMap: map[core.BufferKind]bool{}}
}

// ResetCounters forgets recorded per-frame traffic.
func (d *Device) ResetCounters() {
	d.Maps, d.Unmaps, d.PipelineBinds, d.ScissorChanges = 0, 0, 0, 0
	d.TextureBinds = nil
	d.Draws = nil
}

// LiveBuffers returns the buffers that were created and not destroyed.
func (d *Device) LiveBuffers() []*Buffer {
	var out []*Buffer
	for _, b := range d.Buffers {
		if !b.Destroyed {
			out = append(out, b)
		}
	}
	return out
}

func (d *Device) CreateBuffer(desc core.BufferDesc) (core.Buffer, error) {
	if d.FailCreateBuffer {
		return nil, ErrInjected
	}
	if desc.Capacity <= 0 {
		return nil, fmt.Errorf("gfxtest: invalid buffer capacity %d", desc.Capacity)
	}
	b := &Buffer{Desc: desc, Data: make([]byte, desc.Capacity)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) DestroyBuffer(b core.Buffer) {
	buf := b.(*Buffer)
	buf.Destroyed = true
	d.DestroyedBuffers = append(d.DestroyedBuffers, buf)
}

func (d *Device) MapDiscard(b core.Buffer) ([]byte, error) {
	buf := b.(*Buffer)
	d.Maps++
	if d.FailMap[buf.Desc.Kind] {
		return nil, ErrInjected
	}
	if buf.Destroyed {
		return nil, errors.New("gfxtest: map of destroyed buffer")
	}
	if buf.Mapped {
		return nil, errors.New("gfxtest: buffer already mapped")
	}
	buf.Mapped = true
	// Discarded contents are undefined; make stale reads obvious.
	for i := range buf.Data {
		buf.Data[i] = 0xCD
	}
	return buf.Data, nil
}

func (d *Device) Unmap(b core.Buffer) error {
	buf := b.(*Buffer)
	d.Unmaps++
	if !buf.Mapped {
		return errors.New("gfxtest: unmap of unmapped buffer")
	}
	buf.Mapped = false
	return nil
}

func (d *Device) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if d.FailCreateTexture {
		return nil, ErrInjected
	}
	if want := desc.Width * desc.Height * 4; len(desc.Pixels) != want {
		return nil, fmt.Errorf("gfxtest: texture pixels %d, want %d", len(desc.Pixels), want)
	}
	t := &Texture{Desc: desc}
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) DestroyTexture(t core.Texture) {
	d.DestroyedTextures = append(d.DestroyedTextures, t)
}

func (d *Device) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	if d.FailCreatePipeline {
		return nil, ErrInjected
	}
	p := &Pipeline{Desc: desc}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

func (d *Device) DestroyPipeline(p core.Pipeline) {
	d.DestroyedPipelines = append(d.DestroyedPipelines, p)
}

func (d *Device) BindPipeline(_ core.Pipeline, vb, ib core.Buffer, projection [16]float32) {
	d.PipelineBinds++
	d.BoundVB = vb.(*Buffer)
	d.BoundIB = ib.(*Buffer)
	d.Projection = projection
	d.texture = nil
	d.scissor = nil
}

func (d *Device) BindTexture(t core.Texture) {
	d.texture = t
	d.TextureBinds = append(d.TextureBinds, t)
}

func (d *Device) SetScissor(r *core.Rect) {
	d.ScissorChanges++
	if r == nil {
		d.scissor = nil
		return
	}
	c := *r
	d.scissor = &c
}

func (d *Device) DrawIndexed(offset, count int) {
	d.Draws = append(d.Draws, DrawCall{Texture: d.texture, Scissor: d.scissor, Offset: offset, Count: count})
}

func (d *Device) Viewport() (int, int) { return d.W, d.H }
