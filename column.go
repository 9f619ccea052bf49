package storehouse

import "unsafe"

// Column holds the values of one component kind for every row of a table.
// Its length is the owning table's row count.
type Column struct {
	id   ComponentID
	bit  uint32
	data blobArray
	drop DropFunc
}

func newColumn(info *ComponentInfo, capacity int) Column {
	return Column{
		id:   info.ID(),
		bit:  info.bit,
		data: newBlobArray(info.Layout(), capacity),
		drop: info.Drop(),
	}
}

func (c *Column) ID() ComponentID {
	return c.id
}

func (c *Column) Layout() Layout {
	return c.data.layout
}

func (c *Column) get(row int) unsafe.Pointer {
	return c.data.at(row)
}

func (c *Column) initialize(row int, src unsafe.Pointer) {
	c.data.initialize(row, src)
}

func (c *Column) replace(row int, src unsafe.Pointer) {
	c.data.dropAt(row, c.drop)
	c.data.initialize(row, src)
}

// swapRemoveAndDrop drops row and moves last into its place.
func (c *Column) swapRemoveAndDrop(row, last int) {
	c.data.dropAt(row, c.drop)
	c.data.copyWithin(row, last)
}

// swapRemoveAndForget vacates row without dropping it. The caller has taken
// ownership of the bytes that were there.
func (c *Column) swapRemoveAndForget(row, last int) {
	c.data.copyWithin(row, last)
}

func (c *Column) dropAll(length int) {
	c.data.dropRange(length, c.drop)
}
