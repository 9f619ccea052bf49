package storehouse

import "unsafe"

// View is read-only access to a Storages, for subsystems that must not
// restructure storage.
type View interface {
	SubStorageCount() int
	SubStorage(id SubStorageID) (SubStorageView, bool)
	Resources() ResourcesView
	NonSendResources() ResourcesView
}

type SubStorageView interface {
	ID() SubStorageID
	Empty() ArchetypeID
	IsPrepared(bundle BundleID) bool
	TableCount() int
	SparseSetCount() int
	TableLen(id TableID) (int, bool)
	Component(id ComponentID, table TableID, row TableRow) (unsafe.Pointer, bool)
	SparseComponent(id ComponentID, e Entity) (unsafe.Pointer, bool)
}

type ResourcesView interface {
	IsSendable() bool
	Contains(id ComponentID) bool
	Get(id ComponentID) (any, bool)
	Len() int
}
