package storehouse

import (
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/table"
)

// AccessibleComponent pairs a registered component kind with typed access to
// its raw storage. T must be free of Go pointers.
type AccessibleComponent[T any] struct {
	table.ElementType
	id ComponentID
}

func (c AccessibleComponent[T]) ID() ComponentID {
	return c.id
}

// Value wraps v as a ComponentValue for row allocation. The bytes are
// copied, so v may be reused once the call returns.
func (c AccessibleComponent[T]) Value(v *T) ComponentValue {
	return ComponentValue{ID: c.id, Data: unsafe.Pointer(v)}
}

func (c AccessibleComponent[T]) GetFromTable(t *Table, row TableRow) (*T, bool) {
	ptr, ok := t.GetComponent(c.id, row)
	if !ok {
		return nil, false
	}
	return (*T)(ptr), true
}

// SliceFromTable views the table's column for T as a []T. The slice is
// invalidated by any structural change to the table.
func (c AccessibleComponent[T]) SliceFromTable(t *Table) []T {
	col, ok := t.Column(c.id)
	if !ok || t.Len() == 0 {
		return nil
	}
	return unsafe.Slice((*T)(col.data.base), t.Len())
}

func (c AccessibleComponent[T]) GetFromSparseSet(s *SparseSet, e Entity) (*T, bool) {
	ptr, ok := s.Get(e)
	if !ok {
		return nil, false
	}
	return (*T)(ptr), true
}

// InsertIntoSparseSet copies v into s for e and reports whether a previous
// value was replaced.
func (c AccessibleComponent[T]) InsertIntoSparseSet(s *SparseSet, e Entity, v T) bool {
	return s.Insert(e, unsafe.Pointer(&v))
}

// FactoryNewComponent registers T with components and returns a typed handle.
// A Go type maps to one kind per registry: calling it again for the same T
// returns the existing handle, and storageType and drop are ignored.
func FactoryNewComponent[T any](components *Components, storageType StorageType, drop func(*T)) AccessibleComponent[T] {
	typ := reflect.TypeFor[T]()
	if el, ok := components.element(typ); ok {
		return AccessibleComponent[T]{ElementType: el.et, id: el.id}
	}
	if containsPointers(typ) {
		panic(PointerComponentError{Type: typ.String()})
	}
	var dropFn DropFunc
	if drop != nil {
		dropFn = func(ptr unsafe.Pointer) { drop((*T)(ptr)) }
	}
	et := table.FactoryNewElementType[T]()
	id := components.registerElement(et, ComponentDescriptor{
		Name:        typ.String(),
		Layout:      LayoutOf[T](),
		Drop:        dropFn,
		StorageType: storageType,
	})
	return AccessibleComponent[T]{ElementType: et, id: id}
}
