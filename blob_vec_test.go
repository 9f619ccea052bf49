package storehouse

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64(v uint64) unsafe.Pointer {
	return unsafe.Pointer(&v)
}

func countingDrop(counts map[uint64]int) DropFunc {
	return func(ptr unsafe.Pointer) {
		counts[*(*uint64)(ptr)]++
	}
}

func TestBlobVecDropsEachElementOnce(t *testing.T) {
	drops := make(map[uint64]int)
	vec := Factory.NewBlobVec(LayoutOf[uint64](), countingDrop(drops), 0)

	for i := range uint64(10) {
		vec.Push(u64(i))
	}
	require.Equal(t, 10, vec.Len())

	vec.SwapRemoveAndDrop(2)
	assert.Equal(t, 1, drops[2])
	assert.Equal(t, uint64(9), *(*uint64)(vec.At(2)), "last element fills the hole")

	taken := vec.SwapRemoveAndForget(0)
	assert.Equal(t, uint64(0), *(*uint64)(taken))
	assert.Equal(t, uint64(8), *(*uint64)(vec.At(0)))
	assert.Zero(t, drops[0], "forgotten element must not be dropped")

	vec.Clear()
	assert.Equal(t, 0, vec.Len())
	for i := range uint64(10) {
		if i == 0 {
			assert.Zero(t, drops[i])
			continue
		}
		assert.Equal(t, 1, drops[i], "element %d", i)
	}

	vec.Push(u64(42))
	vec.Drop()
	assert.Equal(t, 1, drops[42])
	assert.Equal(t, 0, vec.Capacity())
}

func TestBlobVecGrowthKeepsBytes(t *testing.T) {
	vec := Factory.NewBlobVec(LayoutOf[uint64](), nil, 0)
	for i := range uint64(100) {
		vec.Push(u64(i * 3))
	}
	require.Equal(t, 100, vec.Len())
	assert.GreaterOrEqual(t, vec.Capacity(), 100)
	for i := range 100 {
		ptr, ok := vec.Get(i)
		require.True(t, ok)
		assert.Equal(t, uint64(i*3), *(*uint64)(ptr))
	}
	assert.Len(t, vec.Bytes(), 100*8)

	_, ok := vec.Get(100)
	assert.False(t, ok)
}

func TestBlobVecReplaceDropsOld(t *testing.T) {
	drops := make(map[uint64]int)
	vec := Factory.NewBlobVec(LayoutOf[uint64](), countingDrop(drops), 4)
	vec.Push(u64(1))
	vec.Replace(0, u64(2))

	assert.Equal(t, 1, drops[1])
	assert.Zero(t, drops[2])
	assert.Equal(t, uint64(2), *(*uint64)(vec.At(0)))
}

func TestBlobVecZeroSized(t *testing.T) {
	vec := Factory.NewBlobVec(Layout{Size: 0, Align: 1}, nil, 0)
	var marker struct{}
	for range 3 {
		vec.Push(unsafe.Pointer(&marker))
	}
	assert.Equal(t, 3, vec.Len())
	_, ok := vec.Get(2)
	assert.True(t, ok)
	assert.Nil(t, vec.Bytes())

	vec.SwapRemoveAndForget(0)
	assert.Equal(t, 2, vec.Len())
}

func TestBlobVecAlignment(t *testing.T) {
	type wide struct{ a, b, c, d, e, f, g, h uint64 }
	layout := Layout{Size: unsafe.Sizeof(wide{}), Align: 64}
	vec := Factory.NewBlobVec(layout, nil, 0)
	for range 9 {
		vec.Push(unsafe.Pointer(&wide{a: 1}))
	}
	for i := range 9 {
		assert.Zero(t, uintptr(vec.At(i))%64, "element %d misaligned", i)
	}
}

func TestBlobVecInvalidLayouts(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
	}{
		{"Zero alignment", Layout{Size: 4, Align: 0}},
		{"Non power of two", Layout{Size: 6, Align: 3}},
		{"Size not multiple of align", Layout{Size: 6, Align: 4}},
		{"Over aligned", Layout{Size: 2 * MaxAlign, Align: 2 * MaxAlign}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, func() {
				Factory.NewBlobVec(tt.layout, nil, 0)
			})
		})
	}
}

func TestBlobVecOutOfBounds(t *testing.T) {
	vec := Factory.NewBlobVec(LayoutOf[uint32](), nil, 0)
	assert.PanicsWithValue(t, RowOutOfBoundsError{Row: 0, Len: 0}, func() {
		vec.At(0)
	})
	assert.Panics(t, func() {
		vec.SwapRemoveAndDrop(-1)
	})
}
