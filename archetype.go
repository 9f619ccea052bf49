package storehouse

import "math"

// ArchetypeID is assigned by the external archetype graph. Storage keeps one
// per region to mark where component-less entities live.
type ArchetypeID uint32

const (
	EmptyArchetype   ArchetypeID = 0
	InvalidArchetype ArchetypeID = math.MaxUint32
)
