package arena

// Arena is an append-only buffer reset every frame instead of being freed.
// Single-threaded usage: one writer, lifetime of one frame.
//
// Slices returned by Alloc are only valid until the next Alloc/Reserve call
// (growth moves the backing array). Indices stay valid until Clear.
type Arena[T any] struct {
	data []T
	size int
}

// New returns an arena with room for capacity elements.
func New[T any](capacity int) *Arena[T] {
	a := &Arena[T]{}
	a.Reserve(capacity)
	return a
}

// Len returns the number of live elements.
func (a *Arena[T]) Len() int { return a.size }

// Cap returns the backing capacity.
func (a *Arena[T]) Cap() int { return len(a.data) }

// Clear resets the logical size to zero without releasing memory.
func (a *Arena[T]) Clear() { a.size = 0 }

// Reserve guarantees Cap() >= n. The logical size is unchanged.
func (a *Arena[T]) Reserve(n int) {
	if n <= len(a.data) {
		return
	}
	nd := make([]T, n)
	copy(nd, a.data[:a.size])
	a.data = nd
}

// Alloc appends n zeroed elements and returns them for writing.
func (a *Arena[T]) Alloc(n int) []T {
	if n <= 0 {
		return nil
	}
	if a.size+n > len(a.data) {
		a.Reserve((a.size + n) * 2)
	}
	s := a.data[a.size : a.size+n : a.size+n]
	clear(s)
	a.size += n
	return s
}

// Push appends a single element.
func (a *Arena[T]) Push(v T) {
	a.Alloc(1)[0] = v
}

// At returns a pointer to element i. Do not retain it across Alloc.
func (a *Arena[T]) At(i int) *T { return &a.data[i] }

// Last returns the last element, or nil when empty.
func (a *Arena[T]) Last() *T {
	if a.size == 0 {
		return nil
	}
	return &a.data[a.size-1]
}

// Slice returns the live elements. Valid until the next Alloc.
func (a *Arena[T]) Slice() []T { return a.data[:a.size:a.size] }
