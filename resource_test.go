package storehouse

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameClock struct {
	Frame uint64
}

func TestResourcesInsertGetRemove(t *testing.T) {
	components := Factory.NewComponents()
	clockID := components.RegisterResource("clock")
	otherID := components.RegisterResource("other")
	res := newResources(true)

	assert.False(t, res.Insert(clockID, &frameClock{Frame: 1}))
	assert.True(t, res.Insert(clockID, &frameClock{Frame: 2}), "second insert replaces")
	assert.Equal(t, 1, res.Len())

	clock, ok := ResourceAs[*frameClock](res, clockID)
	require.True(t, ok)
	assert.Equal(t, uint64(2), clock.Frame)
	clock.Frame++

	again, _ := ResourceAs[*frameClock](res, clockID)
	assert.Equal(t, uint64(3), again.Frame)

	_, ok = ResourceAs[string](res, clockID)
	assert.False(t, ok, "wrong type reports absent")

	_, ok = res.Get(otherID)
	assert.False(t, ok)

	res.Insert(otherID, 12)
	assert.Equal(t, []ComponentID{clockID, otherID}, slices.Collect(res.IDs()))

	v, ok := res.Remove(clockID)
	require.True(t, ok)
	assert.Equal(t, uint64(3), v.(*frameClock).Frame)
	assert.False(t, res.Contains(clockID))

	_, ok = res.Remove(clockID)
	assert.False(t, ok)

	res.Clear()
	assert.Equal(t, 0, res.Len())
}

func TestResourcesRejectNil(t *testing.T) {
	res := newResources(false)
	assert.PanicsWithValue(t, NilResourceError{Resource: 3}, func() {
		res.Insert(3, nil)
	})
}

func TestResourcePools(t *testing.T) {
	storages := Factory.NewStorages()
	assert.True(t, storages.Resources().IsSendable())
	assert.False(t, storages.NonSendResources().IsSendable())

	storages.NonSendResources().Insert(0, "window")
	assert.False(t, storages.Resources().Contains(0), "pools are independent")
}
