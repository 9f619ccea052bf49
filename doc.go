/*
Package storehouse provides the type-erased component storage underneath an
Entity-Component-System (ECS) runtime.

Storehouse stores, relocates and retrieves component data without knowing
component types at compile time. A component kind is described only by its
Layout (size and alignment), an optional DropFunc and a StorageType.

Core Concepts:

  - BlobVec: a growable buffer of same-layout elements, moved by byte copy.
  - Table: one Column per component kind sharing a row index, with
    swap-remove and row migration between tables.
  - SparseSet: a per-kind store indexed by entity, for kinds that should not
    live in tables.
  - Resources: singleton values keyed by kind, in a sendable and a
    non-sendable pool.
  - SubStorage: an independent region with its own tables, sparse sets,
    prepared-bundle cache and empty archetype. Region 0 is the main storage.

Component values are raw bytes to this package. They must be relocatable by
copying and must not contain Go pointers, because the garbage collector does
not scan the buffers. FactoryNewComponent rejects such types.

Basic Usage:

	components := storehouse.Factory.NewComponents()
	position := storehouse.FactoryNewComponent[Position](components, storehouse.StorageTable, nil)

	storages := storehouse.Factory.NewStorages()
	tables := storages.Main().Tables()
	id := tables.GetIDOrInsert([]storehouse.ComponentID{position.ID()}, components)
	tbl := tables.MustGet(id)

	pos := Position{X: 1, Y: 2}
	row := tbl.AllocateRow(storehouse.NewEntity(0, 0), position.Value(&pos))
	p, _ := position.GetFromTable(tbl, row)
	p.X += 1

Storage assumes one mutable owner at a time. Nothing here locks; callers
synchronise if they share a Storages across goroutines.
*/
package storehouse
