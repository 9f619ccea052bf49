package storehouse

import (
	"iter"
	"unsafe"

	"go.uber.org/zap"
)

const absent int32 = -1

// SparseSet stores one component kind indexed by entity. Values sit densely
// in a BlobVec; a sparse array maps each entity index to its dense slot.
// The sparse array grows with the largest entity index seen.
type SparseSet struct {
	id       ComponentID
	dense    *BlobVec
	entities []Entity
	sparse   []int32
}

func newSparseSet(info *ComponentInfo, capacity int) *SparseSet {
	return &SparseSet{
		id:       info.ID(),
		dense:    newBlobVec(info.Layout(), info.Drop(), capacity),
		entities: make([]Entity, 0, capacity),
	}
}

func (s *SparseSet) ID() ComponentID {
	return s.id
}

func (s *SparseSet) Len() int {
	return len(s.entities)
}

func (s *SparseSet) IsEmpty() bool {
	return len(s.entities) == 0
}

// Entities returns the entities holding a value, in dense order.
func (s *SparseSet) Entities() []Entity {
	return s.entities
}

func (s *SparseSet) denseIndex(e Entity) (int, bool) {
	if int(e.index) >= len(s.sparse) {
		return 0, false
	}
	d := s.sparse[e.index]
	if d == absent || s.entities[d] != e {
		return 0, false
	}
	return int(d), true
}

func (s *SparseSet) Contains(e Entity) bool {
	_, ok := s.denseIndex(e)
	return ok
}

func (s *SparseSet) Get(e Entity) (unsafe.Pointer, bool) {
	d, ok := s.denseIndex(e)
	if !ok {
		return nil, false
	}
	return s.dense.At(d), true
}

// Insert copies the value at src in for e. If e already had a value it is
// dropped and replaced, and Insert reports true.
func (s *SparseSet) Insert(e Entity, src unsafe.Pointer) bool {
	s.growSparse(e.index)
	if d := s.sparse[e.index]; d != absent {
		// The slot may still belong to an older generation of this index.
		replaced := s.entities[d] == e
		s.dense.Replace(int(d), src)
		s.entities[d] = e
		return replaced
	}
	s.sparse[e.index] = int32(len(s.entities))
	s.dense.Push(src)
	s.entities = append(s.entities, e)
	return false
}

// Remove drops the value for e and reports whether there was one.
func (s *SparseSet) Remove(e Entity) bool {
	d, ok := s.denseIndex(e)
	if !ok {
		return false
	}
	s.dense.SwapRemoveAndDrop(d)
	s.swapRemoveEntity(d)
	return true
}

// RemoveAndForget removes the value for e without dropping it and returns
// its bytes, valid until the next write to the set.
func (s *SparseSet) RemoveAndForget(e Entity) (unsafe.Pointer, bool) {
	d, ok := s.denseIndex(e)
	if !ok {
		return nil, false
	}
	ptr := s.dense.SwapRemoveAndForget(d)
	s.swapRemoveEntity(d)
	return ptr, true
}

func (s *SparseSet) swapRemoveEntity(d int) {
	last := len(s.entities) - 1
	s.sparse[s.entities[d].index] = absent
	if d != last {
		moved := s.entities[last]
		s.entities[d] = moved
		s.sparse[moved.index] = int32(d)
	}
	s.entities = s.entities[:last]
}

func (s *SparseSet) growSparse(index uint32) {
	if int(index) < len(s.sparse) {
		return
	}
	n := int(index) + 1 - len(s.sparse)
	for range n {
		s.sparse = append(s.sparse, absent)
	}
}

func (s *SparseSet) All() iter.Seq2[Entity, unsafe.Pointer] {
	return func(yield func(Entity, unsafe.Pointer) bool) {
		for i, e := range s.entities {
			if !yield(e, s.dense.At(i)) {
				return
			}
		}
	}
}

// Clear drops every value. The sparse array keeps its size.
func (s *SparseSet) Clear() {
	s.dense.Clear()
	for _, e := range s.entities {
		s.sparse[e.index] = absent
	}
	s.entities = s.entities[:0]
}

// SparseSets owns the sparse sets of one region, one per component kind.
type SparseSets struct {
	sets  []*SparseSet
	index map[ComponentID]int
}

func newSparseSets() *SparseSets {
	return &SparseSets{index: make(map[ComponentID]int)}
}

// GetOrInsert returns the set for info's kind, creating it if needed.
func (s *SparseSets) GetOrInsert(info *ComponentInfo) *SparseSet {
	if idx, ok := s.index[info.ID()]; ok {
		return s.sets[idx]
	}
	set := newSparseSet(info, Config.sparseCapacity)
	s.index[info.ID()] = len(s.sets)
	s.sets = append(s.sets, set)
	Config.logger.Debug("sparse set created",
		zap.Uint32("component", uint32(info.ID())),
		zap.String("name", info.Name()),
	)
	return set
}

func (s *SparseSets) Get(id ComponentID) (*SparseSet, bool) {
	idx, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.sets[idx], true
}

func (s *SparseSets) Len() int {
	return len(s.sets)
}

func (s *SparseSets) IsEmpty() bool {
	return len(s.sets) == 0
}

func (s *SparseSets) All() iter.Seq2[ComponentID, *SparseSet] {
	return func(yield func(ComponentID, *SparseSet) bool) {
		for _, set := range s.sets {
			if !yield(set.id, set) {
				return
			}
		}
	}
}

// ClearEntities drops every value in every set. The sets remain.
func (s *SparseSets) ClearEntities() {
	for _, set := range s.sets {
		set.Clear()
	}
}
