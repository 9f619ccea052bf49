package storehouse

import (
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// ComponentID is a small dense handle for a component or resource kind.
type ComponentID uint32

// StorageType selects where values of a component kind live. It is fixed for
// the lifetime of the kind.
type StorageType uint8

const (
	StorageTable StorageType = iota
	StorageSparseSet
)

func (s StorageType) String() string {
	switch s {
	case StorageTable:
		return "table"
	case StorageSparseSet:
		return "sparse_set"
	}
	return "unknown"
}

// ComponentDescriptor is everything storage needs to hold a component kind.
type ComponentDescriptor struct {
	Name        string
	Layout      Layout
	Drop        DropFunc
	StorageType StorageType
}

type ComponentInfo struct {
	id       ComponentID
	desc     ComponentDescriptor
	resource bool
	// bit is the kind's position in table masks. Only table-stored kinds
	// have one.
	bit uint32
}

func (i *ComponentInfo) ID() ComponentID {
	return i.id
}

func (i *ComponentInfo) Name() string {
	return i.desc.Name
}

func (i *ComponentInfo) Layout() Layout {
	return i.desc.Layout
}

func (i *ComponentInfo) Drop() DropFunc {
	return i.desc.Drop
}

func (i *ComponentInfo) StorageType() StorageType {
	return i.desc.StorageType
}

func (i *ComponentInfo) IsResource() bool {
	return i.resource
}

func (i *ComponentInfo) storedInTables() bool {
	return !i.resource && i.desc.StorageType == StorageTable
}

type element struct {
	et table.ElementType
	id ComponentID
}

// Components is the component metadata registry. Ids are handed out densely
// in registration order and never reused. Table-stored kinds additionally get
// a dense mask bit, so sparse kinds and resources do not count against
// mask.MaxBits.
type Components struct {
	infos     []*ComponentInfo
	elements  map[reflect.Type]element
	tableBits uint32
}

func newComponents() *Components {
	return &Components{
		elements: make(map[reflect.Type]element),
	}
}

// Register validates the descriptor's layout and assigns a new ComponentID.
// It panics with TooManyComponentsError once mask.MaxBits table-stored kinds
// exist.
func (c *Components) Register(desc ComponentDescriptor) ComponentID {
	desc.Layout.Validate()
	info := &ComponentInfo{id: ComponentID(len(c.infos)), desc: desc}
	if info.storedInTables() {
		if c.tableBits >= mask.MaxBits {
			panic(TooManyComponentsError{Name: desc.Name, Max: mask.MaxBits})
		}
		info.bit = c.tableBits
		c.tableBits++
	}
	c.infos = append(c.infos, info)
	return info.id
}

// RegisterResource assigns a ComponentID to a resource kind.
func (c *Components) RegisterResource(name string) ComponentID {
	id := ComponentID(len(c.infos))
	c.infos = append(c.infos, &ComponentInfo{
		id:       id,
		desc:     ComponentDescriptor{Name: name, Layout: Layout{Align: 1}},
		resource: true,
	})
	return id
}

func (c *Components) element(typ reflect.Type) (element, bool) {
	el, ok := c.elements[typ]
	return el, ok
}

func (c *Components) registerElement(et table.ElementType, desc ComponentDescriptor) ComponentID {
	if el, ok := c.elements[et.Type()]; ok {
		return el.id
	}
	id := c.Register(desc)
	c.elements[et.Type()] = element{et: et, id: id}
	return id
}

// Lookup returns the id registered for the Go type behind et, if any. Any
// element type for the same Go type finds the same id.
func (c *Components) Lookup(et table.ElementType) (ComponentID, bool) {
	el, ok := c.elements[et.Type()]
	return el.id, ok
}

// TableKinds reports how many table-stored kinds are registered.
func (c *Components) TableKinds() int {
	return int(c.tableBits)
}

func (c *Components) Len() int {
	return len(c.infos)
}

func (c *Components) Info(id ComponentID) (*ComponentInfo, bool) {
	if int(id) >= len(c.infos) {
		return nil, false
	}
	return c.infos[id], true
}

// MustInfo is Info for ids that came out of this registry.
func (c *Components) MustInfo(id ComponentID) *ComponentInfo {
	info, ok := c.Info(id)
	if !ok {
		panic(UnknownComponentError{Component: id})
	}
	return info
}

func (c *Components) All() iter.Seq[*ComponentInfo] {
	return func(yield func(*ComponentInfo) bool) {
		for _, info := range c.infos {
			if !yield(info) {
				return
			}
		}
	}
}
