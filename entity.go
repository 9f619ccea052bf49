package storehouse

import (
	"fmt"
	"math"
)

// Entity is an opaque index/generation pair. Entity allocation happens
// outside this package; storage only uses the identity to locate data.
type Entity struct {
	index      uint32
	generation uint32
}

// PlaceholderEntity never refers to live data.
var PlaceholderEntity = Entity{index: math.MaxUint32, generation: math.MaxUint32}

func NewEntity(index, generation uint32) Entity {
	return Entity{index: index, generation: generation}
}

func (e Entity) Index() uint32 {
	return e.index
}

func (e Entity) Generation() uint32 {
	return e.generation
}

func (e Entity) String() string {
	return fmt.Sprintf("%dv%d", e.index, e.generation)
}
