package storehouse

import (
	"math"
	"unsafe"
)

// zeroSizedBase is handed out as the data pointer of zero-sized element arrays.
var zeroSizedBase uint64

// blobArray is the thin variant of the type-erased buffer: it owns the
// allocation but not the length or capacity, which the owner tracks. Table
// columns use it so every column of a table shares one row count.
type blobArray struct {
	layout Layout
	buf    []byte
	base   unsafe.Pointer
}

func newBlobArray(layout Layout, capacity int) blobArray {
	layout.Validate()
	arr := blobArray{layout: layout}
	if layout.IsZeroSized() {
		arr.base = unsafe.Pointer(&zeroSizedBase)
		return arr
	}
	if capacity > 0 {
		arr.realloc(0, capacity)
	}
	return arr
}

// realloc moves the first length elements into a fresh allocation of
// newCapacity elements. Bytes are copied verbatim.
func (a *blobArray) realloc(length, newCapacity int) {
	if a.layout.IsZeroSized() {
		return
	}
	if uintptr(newCapacity) > (math.MaxInt-a.layout.Align)/a.layout.Size {
		panic(CapacityOverflowError{Layout: a.layout, Capacity: newCapacity})
	}
	size := uintptr(newCapacity) * a.layout.Size
	buf := make([]byte, size+a.layout.Align-1)
	offset := alignOffset(unsafe.Pointer(unsafe.SliceData(buf)), a.layout.Align)
	base := unsafe.Pointer(&buf[offset])
	if length > 0 {
		copyBytes(base, a.base, uintptr(length)*a.layout.Size)
	}
	a.buf = buf
	a.base = base
}

func alignOffset(p unsafe.Pointer, align uintptr) uintptr {
	mis := uintptr(p) & (align - 1)
	if mis == 0 {
		return 0
	}
	return align - mis
}

func (a *blobArray) at(i int) unsafe.Pointer {
	return unsafe.Add(a.base, uintptr(i)*a.layout.Size)
}

func (a *blobArray) initialize(i int, src unsafe.Pointer) {
	copyBytes(a.at(i), src, a.layout.Size)
}

func (a *blobArray) copyWithin(dst, src int) {
	if dst == src {
		return
	}
	copyBytes(a.at(dst), a.at(src), a.layout.Size)
}

func (a *blobArray) dropAt(i int, drop DropFunc) {
	if drop != nil {
		drop(a.at(i))
	}
}

// dropRange runs drop over elements [0, length).
func (a *blobArray) dropRange(length int, drop DropFunc) {
	if drop == nil {
		return
	}
	for i := 0; i < length; i++ {
		drop(a.at(i))
	}
}

// bytes exposes elements [0, length) as one contiguous slice.
func (a *blobArray) bytes(length int) []byte {
	if a.layout.IsZeroSized() || length == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(a.base), uintptr(length)*a.layout.Size)
}

func (a *blobArray) free() {
	a.buf = nil
	if !a.layout.IsZeroSized() {
		a.base = nil
	}
}

func nextCapacity(capacity, additional int) int {
	const minCapacity = 4
	return max(capacity*2, capacity+additional, minCapacity)
}
