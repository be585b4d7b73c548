// Package gpubuf streams per-frame geometry into device buffers that are
// discard-mapped and fully rewritten every frame.
package gpubuf

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hubastard/vgrove/engine/core"
)

// DefaultGrowthLimit bounds growth to this multiple of the initial capacity.
const DefaultGrowthLimit = 16

var (
	ErrNotMapped      = errors.New("gpubuf: buffer not mapped")
	ErrAlreadyMapped  = errors.New("gpubuf: buffer already mapped")
	ErrOutOfSpace     = errors.New("gpubuf: allocation past mapped capacity")
	ErrExceedsCeiling = errors.New("gpubuf: required size exceeds capacity ceiling")
	ErrNoBuffer       = errors.New("gpubuf: no device buffer")
)

// PersistentBuffer wraps a write-only device buffer with a write cursor.
//
// Writes are only valid between MapDiscard and Unmap. Contents never survive
// a map or a resize; callers re-upload the whole frame every time.
type PersistentBuffer struct {
	dev     core.Device
	kind    core.BufferKind
	buf     core.Buffer
	cap     int
	ceiling int
	offset  int
	mapped  []byte
	resizes int
}

// New creates a buffer of capacity bytes that may grow up to ceiling bytes.
// A ceiling below capacity means DefaultGrowthLimit × capacity.
func New(dev core.Device, kind core.BufferKind, capacity, ceiling int) (*PersistentBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("gpubuf: invalid %s buffer capacity %d", kind, capacity)
	}
	if ceiling < capacity {
		ceiling = capacity * DefaultGrowthLimit
	}
	b := &PersistentBuffer{dev: dev, kind: kind, ceiling: ceiling}
	if err := b.create(capacity); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *PersistentBuffer) create(capacity int) error {
	buf, err := b.dev.CreateBuffer(core.BufferDesc{Kind: b.kind, Usage: core.UsageDynamic, Capacity: capacity})
	if err != nil {
		return fmt.Errorf("gpubuf: create %s buffer (%d bytes): %w", b.kind, capacity, err)
	}
	b.buf = buf
	b.cap = capacity
	return nil
}

func (b *PersistentBuffer) Kind() core.BufferKind { return b.kind }
func (b *PersistentBuffer) Handle() core.Buffer   { return b.buf }
func (b *PersistentBuffer) Capacity() int         { return b.cap }
func (b *PersistentBuffer) Ceiling() int          { return b.ceiling }
func (b *PersistentBuffer) Offset() int           { return b.offset }
func (b *PersistentBuffer) Mapped() bool          { return b.mapped != nil }

// Resizes reports how many times the buffer was recreated.
func (b *PersistentBuffer) Resizes() int { return b.resizes }

// MapDiscard opens the whole buffer for writing and rewinds the cursor.
func (b *PersistentBuffer) MapDiscard() error {
	if b.mapped != nil {
		return ErrAlreadyMapped
	}
	if b.buf == nil {
		return ErrNoBuffer
	}
	m, err := b.dev.MapDiscard(b.buf)
	if err != nil {
		return fmt.Errorf("gpubuf: map %s buffer: %w", b.kind, err)
	}
	b.mapped = m[:b.cap:b.cap]
	b.offset = 0
	return nil
}

// Allocate reserves n bytes in the mapped window and returns them.
func (b *PersistentBuffer) Allocate(n int) ([]byte, error) {
	if b.mapped == nil {
		return nil, ErrNotMapped
	}
	if n < 0 || b.offset+n > b.cap {
		return nil, fmt.Errorf("%w: %d+%d > %d", ErrOutOfSpace, b.offset, n, b.cap)
	}
	s := b.mapped[b.offset : b.offset+n : b.offset+n]
	b.offset += n
	return s, nil
}

// Write copies src at the cursor.
func (b *PersistentBuffer) Write(src []byte) error {
	dst, err := b.Allocate(len(src))
	if err != nil {
		return err
	}
	copy(dst, src)
	return nil
}

// Unmap closes the write window. Unmapping an unmapped buffer is a no-op.
func (b *PersistentBuffer) Unmap() error {
	if b.mapped == nil {
		return nil
	}
	b.mapped = nil
	if err := b.dev.Unmap(b.buf); err != nil {
		return fmt.Errorf("gpubuf: unmap %s buffer: %w", b.kind, err)
	}
	return nil
}

// ResetOffsets rewinds the write cursor.
func (b *PersistentBuffer) ResetOffsets() { b.offset = 0 }

// NeedsResize reports whether required bytes do not fit.
func (b *PersistentBuffer) NeedsResize(required int) bool { return required > b.cap }

// Resize destroys the device buffer and creates one of newCap bytes.
// Contents are lost. Must not be called while mapped.
func (b *PersistentBuffer) Resize(newCap int) error {
	if b.mapped != nil {
		return ErrAlreadyMapped
	}
	if newCap > b.ceiling {
		return fmt.Errorf("%w: %d > %d", ErrExceedsCeiling, newCap, b.ceiling)
	}
	old := b.cap
	if b.buf != nil {
		b.dev.DestroyBuffer(b.buf)
		b.buf = nil
	}
	if err := b.create(newCap); err != nil {
		b.cap = 0
		return err
	}
	b.offset = 0
	b.resizes++
	core.Logger().Debug("gpu buffer resized", "kind", b.kind.String(), "from", old, "to", newCap)
	return nil
}

// Grow ensures required bytes fit with at most one resize, to
// max(2×capacity, required) clamped to the ceiling. It reports whether the
// buffer was recreated. A requirement above the ceiling fails with
// ErrExceedsCeiling and leaves the buffer untouched.
func (b *PersistentBuffer) Grow(required int) (bool, error) {
	if !b.NeedsResize(required) {
		return false, nil
	}
	if required > b.ceiling {
		return false, fmt.Errorf("%w: %s buffer needs %d > %d", ErrExceedsCeiling, b.kind, required, b.ceiling)
	}
	newCap := min(max(2*b.cap, required), b.ceiling)
	if err := b.Resize(newCap); err != nil {
		return false, err
	}
	return true, nil
}

// Destroy releases the device buffer.
func (b *PersistentBuffer) Destroy() {
	if b.buf == nil {
		return
	}
	_ = b.Unmap()
	b.dev.DestroyBuffer(b.buf)
	b.buf = nil
	b.cap = 0
}

// AsBytes views a slice of plain values as raw bytes for upload.
// T must not contain pointers.
func AsBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	n := len(s) * int(unsafe.Sizeof(s[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n)
}
