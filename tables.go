package storehouse

import (
	"iter"

	"github.com/TheBitDrifter/mask"
	"go.uber.org/zap"
)

// Tables owns every table of one region, keyed by component set. Table 0
// is the empty table, which has no columns.
type Tables struct {
	tables keyedIndex[mask.Mask, *Table]
}

func newTables() *Tables {
	tbls := &Tables{tables: newKeyedIndex[mask.Mask, *Table]()}
	var none mask.Mask
	tbls.tables.Register(none, newTable(EmptyTable, nil, nil, Config.tableCapacity))
	return tbls
}

// GetIDOrInsert returns the table storing exactly ids, creating it first if
// needed. The order of ids does not matter.
func (t *Tables) GetIDOrInsert(ids []ComponentID, components *Components) TableID {
	var key mask.Mask
	for _, id := range ids {
		key.Mark(tableInfo(components, id).bit)
	}
	if idx, ok := t.tables.GetIndex(key); ok {
		return TableID(idx)
	}
	id := TableID(t.tables.Len())
	t.tables.Register(key, newTable(id, components, ids, Config.tableCapacity))
	Config.logger.Debug("table created",
		zap.Uint32("table", uint32(id)),
		zap.Int("columns", len(ids)),
	)
	return id
}

func (t *Tables) Get(id TableID) (*Table, bool) {
	return t.tables.GetItem(int(id))
}

func (t *Tables) MustGet(id TableID) *Table {
	tbl, ok := t.Get(id)
	if !ok {
		panic(InvalidTableError{Table: id})
	}
	return tbl
}

// GetPair returns two distinct tables at once, for moving rows between them.
func (t *Tables) GetPair(a, b TableID) (*Table, *Table) {
	t.MustGet(a)
	t.MustGet(b)
	pa, pb := pairAt("table", t.tables.items, int(a), int(b))
	return *pa, *pb
}

func (t *Tables) Len() int {
	return t.tables.Len()
}

func (t *Tables) All() iter.Seq2[TableID, *Table] {
	return func(yield func(TableID, *Table) bool) {
		for i, tbl := range t.tables.items {
			if !yield(TableID(i), tbl) {
				return
			}
		}
	}
}

// ClearEntities drops every row of every table. Tables themselves remain.
func (t *Tables) ClearEntities() {
	for _, tbl := range t.tables.items {
		tbl.Clear()
	}
}
