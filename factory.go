package storehouse

type factory struct{}

var Factory factory

func (f factory) NewStorages(opts ...StoragesOption) *Storages {
	return newStorages(opts...)
}

func (f factory) NewComponents() *Components {
	return newComponents()
}

func (f factory) NewBundles() *Bundles {
	return newBundles()
}

// NewTable builds a standalone table outside any region, with id InvalidTable.
func (f factory) NewTable(components *Components, ids ...ComponentID) *Table {
	return newTable(InvalidTable, components, ids, Config.tableCapacity)
}

func (f factory) NewSparseSet(info *ComponentInfo) *SparseSet {
	return newSparseSet(info, Config.sparseCapacity)
}

func (f factory) NewBlobVec(layout Layout, drop DropFunc, capacity int) *BlobVec {
	return newBlobVec(layout, drop, capacity)
}
