package storehouse

import (
	"reflect"
	"unsafe"
)

// MaxAlign is the largest element alignment the buffers will honour.
const MaxAlign uintptr = 4096

// Layout describes the memory shape of one element in a type-erased buffer.
// Size must be a multiple of Align and Align must be a power of two.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// DropFunc releases whatever an element owns. It receives a pointer to the
// element's bytes and must not retain it.
type DropFunc func(ptr unsafe.Pointer)

// LayoutOf returns the layout of T.
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{
		Size:  unsafe.Sizeof(zero),
		Align: unsafe.Alignof(zero),
	}
}

func (l Layout) IsZeroSized() bool {
	return l.Size == 0
}

// Validate panics with an InvalidLayoutError if the layout cannot back a buffer.
func (l Layout) Validate() {
	switch {
	case l.Align == 0 || l.Align&(l.Align-1) != 0:
		panic(InvalidLayoutError{Layout: l, Reason: "alignment is not a power of two"})
	case l.Align > MaxAlign:
		panic(InvalidLayoutError{Layout: l, Reason: "alignment exceeds MaxAlign"})
	case l.Size%l.Align != 0:
		panic(InvalidLayoutError{Layout: l, Reason: "size is not a multiple of alignment"})
	}
}

// copyBytes moves size bytes verbatim from src to dst.
func copyBytes(dst, src unsafe.Pointer, size uintptr) {
	if size == 0 || dst == src {
		return
	}
	copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
}

// containsPointers reports whether values of t hold Go pointers. Such values
// cannot live in the byte buffers because the collector cannot see them there.
func containsPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.String,
		reflect.Interface, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	case reflect.Array:
		return t.Len() > 0 && containsPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if containsPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
