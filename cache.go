package storehouse

// keyedIndex is an append-only registry mapping keys to dense indices.
// Indices are stable for the lifetime of the registry.
type keyedIndex[K comparable, V any] struct {
	items       []V
	itemIndices map[K]int
}

func newKeyedIndex[K comparable, V any]() keyedIndex[K, V] {
	return keyedIndex[K, V]{
		itemIndices: make(map[K]int),
	}
}

func (c *keyedIndex[K, V]) GetIndex(key K) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *keyedIndex[K, V]) GetItem(index int) (V, bool) {
	if index < 0 || index >= len(c.items) {
		var zero V
		return zero, false
	}
	return c.items[index], true
}

// Register appends item under key and returns its index. An existing key is
// left untouched and its index returned.
func (c *keyedIndex[K, V]) Register(key K, item V) int {
	if idx, ok := c.itemIndices[key]; ok {
		return idx
	}
	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx
}

func (c *keyedIndex[K, V]) Len() int {
	return len(c.items)
}
