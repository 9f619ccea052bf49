package storehouse

import (
	"iter"
	"math"
	"slices"
	"unsafe"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
)

var _ mask.Maskable = &Table{}

// TableID identifies a table within one region's Tables.
type TableID uint32

// TableRow indexes one row of a table.
type TableRow uint32

const (
	EmptyTable   TableID = 0
	InvalidTable TableID = math.MaxUint32

	maxRows = math.MaxInt32
)

// ComponentValue points at the bytes of one component value. The bytes are
// copied into storage; ownership of whatever they reference moves with them.
type ComponentValue struct {
	ID   ComponentID
	Data unsafe.Pointer
}

// MoveResult reports where a moved row landed and which entity, if any, was
// swapped into the vacated source row.
type MoveResult struct {
	NewRow        TableRow
	SwappedEntity Entity
	Swapped       bool
}

// Table stores the rows of one archetype: a Column per component kind plus
// the entity of each row. Every column and the entity list share one length.
type Table struct {
	id       TableID
	mask     mask.Mask
	columns  []Column
	index    map[ComponentID]int
	entities []Entity
	capacity int
}

func newTable(id TableID, components *Components, ids []ComponentID, capacity int) *Table {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	tbl := &Table{
		id:       id,
		columns:  make([]Column, len(sorted)),
		index:    make(map[ComponentID]int, len(sorted)),
		entities: make([]Entity, 0, capacity),
		capacity: capacity,
	}
	for i, cid := range sorted {
		info := tableInfo(components, cid)
		tbl.columns[i] = newColumn(info, capacity)
		tbl.index[cid] = i
		tbl.mask.Mark(info.bit)
	}
	return tbl
}

// tableInfo resolves id and panics unless it names a table-stored kind.
func tableInfo(components *Components, id ComponentID) *ComponentInfo {
	info := components.MustInfo(id)
	if !info.storedInTables() {
		panic(StorageTypeMismatchError{Component: id, Want: StorageTable})
	}
	return info
}

func (t *Table) ID() TableID {
	return t.id
}

// Mask returns the set of component kinds stored in this table, by table
// bit rather than ComponentID.
func (t *Table) Mask() mask.Mask {
	return t.mask
}

func (t *Table) Len() int {
	return len(t.entities)
}

func (t *Table) IsEmpty() bool {
	return len(t.entities) == 0
}

func (t *Table) Capacity() int {
	return t.capacity
}

// Entities returns the entity of each row. The slice is owned by the table.
func (t *Table) Entities() []Entity {
	return t.entities
}

// Components yields the table's component ids in ascending order.
func (t *Table) Components() iter.Seq[ComponentID] {
	return func(yield func(ComponentID) bool) {
		for i := range t.columns {
			if !yield(t.columns[i].id) {
				return
			}
		}
	}
}

func (t *Table) ComponentIDs() []ComponentID {
	return iter_util.Collect(t.Components())
}

func (t *Table) HasColumn(id ComponentID) bool {
	_, ok := t.index[id]
	return ok
}

func (t *Table) Column(id ComponentID) (*Column, bool) {
	idx, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return &t.columns[idx], true
}

// GetComponent returns a pointer to the value of component id at row.
func (t *Table) GetComponent(id ComponentID, row TableRow) (unsafe.Pointer, bool) {
	idx, ok := t.index[id]
	if !ok || int(row) >= len(t.entities) {
		return nil, false
	}
	return t.columns[idx].get(int(row)), true
}

// ColumnBytes exposes the column for id as contiguous bytes, one element
// per row. The slice is invalidated by any structural change.
func (t *Table) ColumnBytes(id ComponentID) ([]byte, bool) {
	idx, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.columns[idx].data.bytes(len(t.entities)), true
}

// SetComponent drops the value at row and replaces it with src.
func (t *Table) SetComponent(id ComponentID, row TableRow, src unsafe.Pointer) {
	t.checkRow(row)
	idx, ok := t.index[id]
	if !ok {
		panic(UnknownComponentError{Component: id})
	}
	t.columns[idx].replace(int(row), src)
}

// Reserve makes room for at least additional more rows in every column.
func (t *Table) Reserve(additional int) {
	length := len(t.entities)
	if t.capacity-length >= additional {
		return
	}
	newCapacity := nextCapacity(t.capacity, length+additional-t.capacity)
	for i := range t.columns {
		t.columns[i].data.realloc(length, newCapacity)
	}
	t.entities = slices.Grow(t.entities, newCapacity-length)
	t.capacity = newCapacity
}

// AllocateRow appends a row for entity. values must hold exactly one value
// per column; the bytes are copied in and the new row index returned.
func (t *Table) AllocateRow(entity Entity, values ...ComponentValue) TableRow {
	if len(values) != len(t.columns) {
		panic(ColumnMismatchError{Table: t.id, Expected: len(t.columns), Got: len(values)})
	}
	var seen mask.Mask
	for _, v := range values {
		idx, ok := t.index[v.ID]
		if !ok {
			panic(ColumnMismatchError{Table: t.id, Expected: len(t.columns), Got: len(values)})
		}
		seen.Mark(t.columns[idx].bit)
	}
	if seen != t.mask {
		panic(ColumnMismatchError{Table: t.id, Expected: len(t.columns), Got: len(values)})
	}

	t.Reserve(1)
	row := len(t.entities)
	for _, v := range values {
		t.columns[t.index[v.ID]].initialize(row, v.Data)
	}
	t.entities = append(t.entities, entity)
	return TableRow(row)
}

// SwapRemoveRow drops every value at row and moves the last row into its
// place. It returns the entity now at row, if the swap moved one.
func (t *Table) SwapRemoveRow(row TableRow) (Entity, bool) {
	t.checkRow(row)
	last := len(t.entities) - 1
	for i := range t.columns {
		t.columns[i].swapRemoveAndDrop(int(row), last)
	}
	return t.swapRemoveEntity(int(row), last)
}

// SwapRemoveRowAndForget is SwapRemoveRow for callers that already took
// ownership of the row's values. Nothing is dropped.
func (t *Table) SwapRemoveRowAndForget(row TableRow) (Entity, bool) {
	t.checkRow(row)
	last := len(t.entities) - 1
	for i := range t.columns {
		t.columns[i].swapRemoveAndForget(int(row), last)
	}
	return t.swapRemoveEntity(int(row), last)
}

// MoveRowTo moves row into dst. Values of kinds both tables store are
// transferred byte for byte without being dropped. Kinds only the source
// stores are dropped. values must supply exactly the kinds only dst stores.
func (t *Table) MoveRowTo(dst *Table, row TableRow, values ...ComponentValue) MoveResult {
	return t.moveRow(dst, row, nil, values)
}

// MoveRowToAndForget is MoveRowTo, except values of kinds only the source
// stores are handed to forget instead of being dropped. The pointer is only
// valid for the duration of the callback.
func (t *Table) MoveRowToAndForget(dst *Table, row TableRow, forget func(ComponentID, unsafe.Pointer), values ...ComponentValue) MoveResult {
	if forget == nil {
		forget = func(ComponentID, unsafe.Pointer) {}
	}
	return t.moveRow(dst, row, forget, values)
}

func (t *Table) moveRow(dst *Table, row TableRow, forget func(ComponentID, unsafe.Pointer), values []ComponentValue) MoveResult {
	if dst == t {
		panic(AliasedPairError{Kind: "table", A: int(t.id), B: int(dst.id)})
	}
	t.checkRow(row)

	var missing, supplied mask.Mask
	need := 0
	for i := range dst.columns {
		if _, ok := t.index[dst.columns[i].id]; !ok {
			missing.Mark(dst.columns[i].bit)
			need++
		}
	}
	for _, v := range values {
		idx, ok := dst.index[v.ID]
		if !ok {
			panic(ColumnMismatchError{Table: dst.id, Expected: need, Got: len(values)})
		}
		supplied.Mark(dst.columns[idx].bit)
	}
	if supplied != missing || len(values) != need {
		panic(ColumnMismatchError{Table: dst.id, Expected: need, Got: len(values)})
	}

	dst.Reserve(1)
	newRow := len(dst.entities)
	last := len(t.entities) - 1
	src := int(row)
	for i := range t.columns {
		col := &t.columns[i]
		if idx, ok := dst.index[col.id]; ok {
			dst.columns[idx].initialize(newRow, col.get(src))
			col.swapRemoveAndForget(src, last)
			continue
		}
		if forget != nil {
			forget(col.id, col.get(src))
			col.swapRemoveAndForget(src, last)
		} else {
			col.swapRemoveAndDrop(src, last)
		}
	}
	for _, v := range values {
		dst.columns[dst.index[v.ID]].initialize(newRow, v.Data)
	}
	dst.entities = append(dst.entities, t.entities[src])
	swapped, ok := t.swapRemoveEntity(src, last)
	return MoveResult{
		NewRow:        TableRow(newRow),
		SwappedEntity: swapped,
		Swapped:       ok,
	}
}

func (t *Table) swapRemoveEntity(row, last int) (Entity, bool) {
	t.entities[row] = t.entities[last]
	t.entities = t.entities[:last]
	if row == last {
		return PlaceholderEntity, false
	}
	return t.entities[row], true
}

// Clear drops every row and keeps the allocation.
func (t *Table) Clear() {
	length := len(t.entities)
	t.entities = t.entities[:0]
	for i := range t.columns {
		t.columns[i].dropAll(length)
	}
}

// Drop clears the table and releases its column allocations.
func (t *Table) Drop() {
	t.Clear()
	for i := range t.columns {
		t.columns[i].data.free()
	}
	t.entities = nil
	t.capacity = 0
}

func (t *Table) checkRow(row TableRow) {
	if int(row) >= len(t.entities) {
		panic(RowOutOfBoundsError{Row: int(row), Len: len(t.entities)})
	}
}
