package storehouse

import (
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseSetInsertGetRemove(t *testing.T) {
	k := newTestKinds()
	set := Factory.NewSparseSet(k.components.MustInfo(k.position.ID()))
	rng := rand.New(rand.NewSource(7))

	want := make(map[Entity]Position)
	for range 500 {
		e := NewEntity(uint32(rng.Intn(200)), 0)
		switch rng.Intn(3) {
		case 0, 1:
			p := Position{X: rng.Float32(), Y: rng.Float32()}
			_, existed := want[e]
			replaced := k.position.InsertIntoSparseSet(set, e, p)
			assert.Equal(t, existed, replaced)
			want[e] = p
		case 2:
			_, existed := want[e]
			assert.Equal(t, existed, set.Remove(e))
			delete(want, e)
		}
	}

	require.Equal(t, len(want), set.Len())
	for e, p := range want {
		got, ok := k.position.GetFromSparseSet(set, e)
		require.True(t, ok, "entity %v", e)
		assert.Equal(t, p, *got)
	}
	for e := range set.All() {
		_, ok := want[e]
		assert.True(t, ok, "unexpected entity %v", e)
	}
}

func TestSparseSetTagScenario(t *testing.T) {
	k := newTestKinds()
	set := Factory.NewSparseSet(k.components.MustInfo(k.tag.ID()))
	e5 := NewEntity(5, 0)

	assert.False(t, k.tag.InsertIntoSparseSet(set, e5, Tag{}))
	assert.True(t, k.tag.InsertIntoSparseSet(set, e5, Tag{}), "second insert reports a previous value")
	assert.True(t, set.Contains(e5))
	assert.Equal(t, 1, set.Len())
}

func TestSparseSetRemoveFixesMovedEntity(t *testing.T) {
	k := newTestKinds()
	set := Factory.NewSparseSet(k.components.MustInfo(k.position.ID()))
	for i := range uint32(5) {
		k.position.InsertIntoSparseSet(set, NewEntity(i, 0), Position{X: float32(i)})
	}

	require.True(t, set.Remove(NewEntity(1, 0)))
	assert.False(t, set.Contains(NewEntity(1, 0)))
	_, ok := set.Get(NewEntity(1, 0))
	assert.False(t, ok)
	assert.False(t, set.Remove(NewEntity(1, 0)))

	for _, i := range []uint32{0, 2, 3, 4} {
		p, ok := k.position.GetFromSparseSet(set, NewEntity(i, 0))
		require.True(t, ok)
		assert.Equal(t, float32(i), p.X)
	}
	assert.Equal(t, NewEntity(4, 0), set.Entities()[1], "last entity moved into the hole")
}

func TestSparseSetGenerations(t *testing.T) {
	k := newTestKinds()
	set := Factory.NewSparseSet(k.components.MustInfo(k.health.ID()))
	old, fresh := NewEntity(3, 0), NewEntity(3, 1)

	k.health.InsertIntoSparseSet(set, old, Health{Owner: 30})
	assert.False(t, set.Contains(fresh))
	assert.False(t, set.Remove(fresh))

	replaced := k.health.InsertIntoSparseSet(set, fresh, Health{Owner: 31})
	assert.False(t, replaced, "a stale generation is not a previous value")
	assert.Equal(t, 1, k.healthDrop[30])
	assert.False(t, set.Contains(old))
	assert.True(t, set.Contains(fresh))
	assert.Equal(t, 1, set.Len())
}

func TestSparseSetRemoveAndForget(t *testing.T) {
	k := newTestKinds()
	set := Factory.NewSparseSet(k.components.MustInfo(k.health.ID()))
	a, b := NewEntity(0, 0), NewEntity(9, 0)
	k.health.InsertIntoSparseSet(set, a, Health{Owner: 1, Current: 5})
	k.health.InsertIntoSparseSet(set, b, Health{Owner: 2, Current: 6})

	ptr, ok := set.RemoveAndForget(a)
	require.True(t, ok)
	assert.Equal(t, Health{Owner: 1, Current: 5}, *(*Health)(ptr))
	assert.Zero(t, k.healthDrop[1])
	assert.True(t, set.Contains(b))

	_, ok = set.RemoveAndForget(a)
	assert.False(t, ok)

	set.Clear()
	assert.Equal(t, 1, k.healthDrop[2])
	assert.True(t, set.IsEmpty())
	assert.False(t, set.Contains(b))
}

func TestSparseSetsGetOrInsert(t *testing.T) {
	k := newTestKinds()
	sets := newSparseSets()
	info := k.components.MustInfo(k.tag.ID())

	first := sets.GetOrInsert(info)
	second := sets.GetOrInsert(info)
	assert.Same(t, first, second)
	assert.Equal(t, 1, sets.Len())

	got, ok := sets.Get(k.tag.ID())
	require.True(t, ok)
	assert.Same(t, first, got)

	_, ok = sets.Get(k.position.ID())
	assert.False(t, ok)

	first.Insert(NewEntity(1, 0), unsafe.Pointer(&Tag{}))
	sets.ClearEntities()
	assert.True(t, first.IsEmpty())
	assert.Equal(t, 1, sets.Len())
}
