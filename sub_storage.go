package storehouse

import (
	"iter"
	"math"
	"reflect"

	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/zap"
)

// SubStorageID addresses one region of the storage space. Ids are never
// reused or compacted.
type SubStorageID uint32

const (
	MainStorage       SubStorageID = 0
	InvalidSubStorage SubStorageID = math.MaxUint32
)

// MainStorageKey is the marker type the main region is registered under.
type MainStorageKey struct{}

// SubStorage is one self-contained region: its own tables, sparse sets,
// prepared-bundle cache and empty-archetype marker.
type SubStorage struct {
	id         SubStorageID
	key        reflect.Type
	empty      ArchetypeID
	archetypes []ArchetypeID
	prepared   *roaring.Bitmap
	sparseSets *SparseSets
	tables     *Tables
}

func newSubStorage(id SubStorageID, key reflect.Type, empty ArchetypeID) *SubStorage {
	return &SubStorage{
		id:         id,
		key:        key,
		empty:      empty,
		prepared:   roaring.New(),
		sparseSets: newSparseSets(),
		tables:     newTables(),
	}
}

func (s *SubStorage) ID() SubStorageID {
	return s.id
}

func (s *SubStorage) Key() reflect.Type {
	return s.key
}

// Empty returns the archetype that component-less entities of this region
// belong to.
func (s *SubStorage) Empty() ArchetypeID {
	return s.empty
}

// Archetypes returns the archetypes recorded as living in this region.
func (s *SubStorage) Archetypes() []ArchetypeID {
	return s.archetypes
}

// AddArchetype records that archetype a stores its entities in this region.
func (s *SubStorage) AddArchetype(a ArchetypeID) {
	s.archetypes = append(s.archetypes, a)
}

func (s *SubStorage) SparseSets() *SparseSets {
	return s.sparseSets
}

func (s *SubStorage) Tables() *Tables {
	return s.tables
}

func (s *SubStorage) IsPrepared(bundle BundleID) bool {
	return s.prepared.Contains(uint32(bundle))
}

func (s *SubStorage) PreparedCount() int {
	return int(s.prepared.GetCardinality())
}

// PrepareComponent makes sure backing storage exists for info's kind. Table
// kinds need nothing up front; sparse-set kinds get their set.
func (s *SubStorage) PrepareComponent(info *ComponentInfo) {
	switch info.StorageType() {
	case StorageTable:
	case StorageSparseSet:
		s.sparseSets.GetOrInsert(info)
	}
}

// PrepareBundle prepares every component kind bundle contributes. Repeat
// calls for a bundle are skipped via the prepared cache; skipping is only an
// optimisation since preparation is idempotent.
func (s *SubStorage) PrepareBundle(components *Components, bundle *BundleInfo) {
	if s.IsPrepared(bundle.ID()) {
		return
	}
	for id := range bundle.Contributed() {
		s.PrepareComponent(components.MustInfo(id))
	}
	s.prepared.Add(uint32(bundle.ID()))
	Config.logger.Debug("bundle prepared",
		zap.Uint32("sub_storage", uint32(s.id)),
		zap.Uint32("bundle", uint32(bundle.ID())),
	)
}

// ClearEntities drops all component data held by the region.
func (s *SubStorage) ClearEntities() {
	s.tables.ClearEntities()
	s.sparseSets.ClearEntities()
}

// SubStorages is the append-only collection of regions. Index 0 is always
// the main region, registered under MainStorageKey.
type SubStorages struct {
	regions  keyedIndex[reflect.Type, *SubStorage]
	emptyFor func(SubStorageID) ArchetypeID
}

func newSubStorages(emptyFor func(SubStorageID) ArchetypeID) *SubStorages {
	if emptyFor == nil {
		emptyFor = defaultEmptyArchetype
	}
	subs := &SubStorages{
		regions:  newKeyedIndex[reflect.Type, *SubStorage](),
		emptyFor: emptyFor,
	}
	subs.LookupOrRegister(reflect.TypeFor[MainStorageKey]())
	return subs
}

// defaultEmptyArchetype reserves archetype n as the empty archetype of
// region n.
func defaultEmptyArchetype(id SubStorageID) ArchetypeID {
	return ArchetypeID(id)
}

// Lookup returns the id registered for key.
func (s *SubStorages) Lookup(key reflect.Type) (SubStorageID, bool) {
	idx, ok := s.regions.GetIndex(key)
	if !ok {
		return InvalidSubStorage, false
	}
	return SubStorageID(idx), true
}

// LookupOrRegister returns the id for key, appending a new empty region if
// key has not been seen.
func (s *SubStorages) LookupOrRegister(key reflect.Type) SubStorageID {
	if key == nil {
		panic(InvalidSubStorageError{SubStorage: InvalidSubStorage})
	}
	if id, ok := s.Lookup(key); ok {
		return id
	}
	id := SubStorageID(s.regions.Len())
	if id == InvalidSubStorage {
		panic(InvalidSubStorageError{SubStorage: id})
	}
	s.regions.Register(key, newSubStorage(id, key, s.emptyFor(id)))
	Config.logger.Debug("sub-storage registered",
		zap.Uint32("sub_storage", uint32(id)),
		zap.Stringer("key", key),
	)
	return id
}

func (s *SubStorages) Get(id SubStorageID) (*SubStorage, bool) {
	return s.regions.GetItem(int(id))
}

// Index returns the region for id. Ids only come from this collection, so
// an unknown id is a programming error and panics.
func (s *SubStorages) Index(id SubStorageID) *SubStorage {
	sub, ok := s.Get(id)
	if !ok {
		panic(InvalidSubStorageError{SubStorage: id})
	}
	return sub
}

func (s *SubStorages) Main() *SubStorage {
	return s.regions.items[MainStorage]
}

// GetPair returns two distinct regions at once. a and b must differ.
func (s *SubStorages) GetPair(a, b SubStorageID) (*SubStorage, *SubStorage) {
	s.Index(a)
	s.Index(b)
	pa, pb := pairAt("sub-storage", s.regions.items, int(a), int(b))
	return *pa, *pb
}

func (s *SubStorages) Len() int {
	return s.regions.Len()
}

func (s *SubStorages) All() iter.Seq2[SubStorageID, *SubStorage] {
	return func(yield func(SubStorageID, *SubStorage) bool) {
		for i, sub := range s.regions.items {
			if !yield(SubStorageID(i), sub) {
				return
			}
		}
	}
}

// TransferRow moves row of table srcTable in region src into table dstTable
// of region dst. It follows Table.MoveRowTo's contract for values.
func (s *SubStorages) TransferRow(src SubStorageID, srcTable TableID, dst SubStorageID, dstTable TableID, row TableRow, values ...ComponentValue) MoveResult {
	from, to := s.GetPair(src, dst)
	return from.tables.MustGet(srcTable).MoveRowTo(to.tables.MustGet(dstTable), row, values...)
}

// TransferSparse moves entity e's value of a sparse-set kind from region
// src to region dst without dropping it. It reports false if src held no
// value. A value e already had in dst is replaced.
func (s *SubStorages) TransferSparse(info *ComponentInfo, src, dst SubStorageID, e Entity) bool {
	from, to := s.GetPair(src, dst)
	set, ok := from.sparseSets.Get(info.ID())
	if !ok {
		return false
	}
	ptr, ok := set.RemoveAndForget(e)
	if !ok {
		return false
	}
	to.sparseSets.GetOrInsert(info).Insert(e, ptr)
	return true
}

// RegisterSubStorage returns the region keyed by marker type M, registering
// it on first use.
func RegisterSubStorage[M any](s *SubStorages) SubStorageID {
	return s.LookupOrRegister(reflect.TypeFor[M]())
}

func LookupSubStorage[M any](s *SubStorages) (SubStorageID, bool) {
	return s.Lookup(reflect.TypeFor[M]())
}
