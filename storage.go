package storehouse

import "unsafe"

// Storages is the root of all component and resource data. It is the one
// object the rest of the runtime holds; subsystems that only read get a
// View instead.
type Storages struct {
	subStorages      *SubStorages
	resources        *Resources
	nonSendResources *Resources
}

type StoragesOption func(*storagesOptions)

type storagesOptions struct {
	emptyFor func(SubStorageID) ArchetypeID
}

// WithEmptyArchetypes lets the archetype graph choose each region's empty
// archetype. fn is called once per region as it is registered.
func WithEmptyArchetypes(fn func(SubStorageID) ArchetypeID) StoragesOption {
	return func(o *storagesOptions) {
		o.emptyFor = fn
	}
}

func newStorages(opts ...StoragesOption) *Storages {
	var o storagesOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Storages{
		subStorages:      newSubStorages(o.emptyFor),
		resources:        newResources(true),
		nonSendResources: newResources(false),
	}
}

func (s *Storages) SubStorages() *SubStorages {
	return s.subStorages
}

func (s *Storages) Main() *SubStorage {
	return s.subStorages.Main()
}

func (s *Storages) Resources() *Resources {
	return s.resources
}

// NonSendResources is the pool whose values must stay on one goroutine.
func (s *Storages) NonSendResources() *Resources {
	return s.nonSendResources
}

// PrepareBundle prepares bundle's storage in region.
func (s *Storages) PrepareBundle(region SubStorageID, components *Components, bundle *BundleInfo) {
	s.subStorages.Index(region).PrepareBundle(components, bundle)
}

// ClearEntities drops all component data in every region. Resources are
// kept.
func (s *Storages) ClearEntities() {
	for _, sub := range s.subStorages.All() {
		sub.ClearEntities()
	}
}

func (s *Storages) View() View {
	return storagesView{s: s}
}

var _ View = storagesView{}

type storagesView struct {
	s *Storages
}

func (v storagesView) SubStorageCount() int {
	return v.s.subStorages.Len()
}

func (v storagesView) SubStorage(id SubStorageID) (SubStorageView, bool) {
	sub, ok := v.s.subStorages.Get(id)
	if !ok {
		return nil, false
	}
	return subStorageView{s: sub}, true
}

func (v storagesView) Resources() ResourcesView {
	return resourcesView{r: v.s.resources}
}

func (v storagesView) NonSendResources() ResourcesView {
	return resourcesView{r: v.s.nonSendResources}
}

var _ SubStorageView = subStorageView{}

type subStorageView struct {
	s *SubStorage
}

func (v subStorageView) ID() SubStorageID           { return v.s.id }
func (v subStorageView) Empty() ArchetypeID         { return v.s.empty }
func (v subStorageView) IsPrepared(b BundleID) bool { return v.s.IsPrepared(b) }
func (v subStorageView) TableCount() int            { return v.s.tables.Len() }
func (v subStorageView) SparseSetCount() int        { return v.s.sparseSets.Len() }
func (v subStorageView) TableLen(id TableID) (int, bool) {
	tbl, ok := v.s.tables.Get(id)
	if !ok {
		return 0, false
	}
	return tbl.Len(), true
}

func (v subStorageView) Component(id ComponentID, table TableID, row TableRow) (unsafe.Pointer, bool) {
	tbl, ok := v.s.tables.Get(table)
	if !ok {
		return nil, false
	}
	return tbl.GetComponent(id, row)
}

func (v subStorageView) SparseComponent(id ComponentID, e Entity) (unsafe.Pointer, bool) {
	set, ok := v.s.sparseSets.Get(id)
	if !ok {
		return nil, false
	}
	return set.Get(e)
}

var _ ResourcesView = resourcesView{}

type resourcesView struct {
	r *Resources
}

func (v resourcesView) IsSendable() bool               { return v.r.sendable }
func (v resourcesView) Contains(id ComponentID) bool   { return v.r.Contains(id) }
func (v resourcesView) Get(id ComponentID) (any, bool) { return v.r.Get(id) }
func (v resourcesView) Len() int                       { return v.r.Len() }
