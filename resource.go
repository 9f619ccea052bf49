package storehouse

import (
	"iter"
	"maps"
	"slices"
)

// Resources holds at most one value per resource kind. Two pools exist per
// Storages: a sendable one and one whose values must only ever be touched
// from a single designated goroutine. The pool records which it is; keeping
// to that rule is the caller's job.
type Resources struct {
	sendable bool
	values   map[ComponentID]any
}

func newResources(sendable bool) *Resources {
	return &Resources{
		sendable: sendable,
		values:   make(map[ComponentID]any),
	}
}

func (r *Resources) IsSendable() bool {
	return r.sendable
}

// Insert stores value for id and reports whether a previous value was
// replaced.
func (r *Resources) Insert(id ComponentID, value any) bool {
	if value == nil {
		panic(NilResourceError{Resource: id})
	}
	_, replaced := r.values[id]
	r.values[id] = value
	return replaced
}

func (r *Resources) Get(id ComponentID) (any, bool) {
	v, ok := r.values[id]
	return v, ok
}

func (r *Resources) Contains(id ComponentID) bool {
	_, ok := r.values[id]
	return ok
}

// Remove takes the value for id out of the pool.
func (r *Resources) Remove(id ComponentID) (any, bool) {
	v, ok := r.values[id]
	if ok {
		delete(r.values, id)
	}
	return v, ok
}

func (r *Resources) Len() int {
	return len(r.values)
}

// IDs returns the ids of present resources in ascending order.
func (r *Resources) IDs() iter.Seq[ComponentID] {
	return slices.Values(slices.Sorted(maps.Keys(r.values)))
}

func (r *Resources) Clear() {
	clear(r.values)
}

// ResourceAs returns the resource for id if it is present and of type T.
func ResourceAs[T any](r *Resources, id ComponentID) (T, bool) {
	v, ok := r.values[id]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
