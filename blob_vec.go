package storehouse

import "unsafe"

// BlobVec is a growable, type-erased vector of elements sharing one Layout.
// It knows nothing about the element type beyond its layout and optional
// DropFunc. Elements must be relocatable by a plain byte copy and must not
// contain Go pointers.
type BlobVec struct {
	data     blobArray
	drop     DropFunc
	len      int
	capacity int
	swap     []byte
}

func newBlobVec(layout Layout, drop DropFunc, capacity int) *BlobVec {
	vec := &BlobVec{
		data: newBlobArray(layout, capacity),
		drop: drop,
	}
	if layout.IsZeroSized() {
		vec.capacity = maxRows
	} else {
		vec.capacity = max(capacity, 0)
	}
	return vec
}

func (v *BlobVec) Layout() Layout {
	return v.data.layout
}

func (v *BlobVec) Len() int {
	return v.len
}

func (v *BlobVec) Capacity() int {
	return v.capacity
}

func (v *BlobVec) IsEmpty() bool {
	return v.len == 0
}

// Reserve makes room for at least additional more elements.
func (v *BlobVec) Reserve(additional int) {
	if v.capacity-v.len >= additional {
		return
	}
	newCapacity := nextCapacity(v.capacity, v.len+additional-v.capacity)
	v.data.realloc(v.len, newCapacity)
	v.capacity = newCapacity
}

// Push appends one element copied from src.
func (v *BlobVec) Push(src unsafe.Pointer) {
	v.Reserve(1)
	v.data.initialize(v.len, src)
	v.len++
}

// Get returns a pointer to element i, or false if i is out of bounds.
func (v *BlobVec) Get(i int) (unsafe.Pointer, bool) {
	if i < 0 || i >= v.len {
		return nil, false
	}
	return v.data.at(i), true
}

// At returns a pointer to element i and panics if i is out of bounds.
func (v *BlobVec) At(i int) unsafe.Pointer {
	v.checkIndex(i)
	return v.data.at(i)
}

// Replace drops element i and overwrites it with the bytes at src.
func (v *BlobVec) Replace(i int, src unsafe.Pointer) {
	v.checkIndex(i)
	v.data.dropAt(i, v.drop)
	v.data.initialize(i, src)
}

// SwapRemoveAndForget removes element i by moving the last element into
// its place. The removed element is not dropped; its bytes are returned and
// stay valid until the next call that grows or writes the vector.
func (v *BlobVec) SwapRemoveAndForget(i int) unsafe.Pointer {
	v.checkIndex(i)
	last := v.len - 1
	size := v.data.layout.Size
	if i != last && size > 0 {
		if len(v.swap) < int(size) {
			v.swap = make([]byte, size)
		}
		scratch := unsafe.Pointer(unsafe.SliceData(v.swap))
		copyBytes(scratch, v.data.at(i), size)
		v.data.copyWithin(i, last)
		copyBytes(v.data.at(last), scratch, size)
	}
	v.len = last
	return v.data.at(last)
}

// SwapRemoveAndDrop removes element i, dropping it, and moves the last
// element into its place.
func (v *BlobVec) SwapRemoveAndDrop(i int) {
	v.checkIndex(i)
	last := v.len - 1
	v.data.dropAt(i, v.drop)
	v.data.copyWithin(i, last)
	v.len = last
}

// Bytes exposes the live elements as one contiguous byte slice. The slice
// is invalidated by any call that grows the vector.
func (v *BlobVec) Bytes() []byte {
	return v.data.bytes(v.len)
}

// Clear drops every element and keeps the allocation.
func (v *BlobVec) Clear() {
	n := v.len
	v.len = 0
	v.data.dropRange(n, v.drop)
}

// Drop clears the vector and releases its allocation.
func (v *BlobVec) Drop() {
	v.Clear()
	v.data.free()
	v.swap = nil
	if !v.data.layout.IsZeroSized() {
		v.capacity = 0
	}
}

func (v *BlobVec) checkIndex(i int) {
	if i < 0 || i >= v.len {
		panic(RowOutOfBoundsError{Row: i, Len: v.len})
	}
}
