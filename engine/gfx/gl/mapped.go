package glbackend

import "unsafe"

// unsafeBytes views mapped driver memory as a byte slice. The slice is only
// valid until the buffer is unmapped.
func unsafeBytes(p unsafe.Pointer, n int) []byte {
	return unsafe.Slice((*byte)(p), n)
}
