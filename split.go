package storehouse

// pairAt returns pointers to two distinct elements of items. The slice is
// split at the larger index so each pointer comes from its own half and the
// two cannot overlap, whichever of a and b is larger.
func pairAt[T any](kind string, items []T, a, b int) (*T, *T) {
	if a == b {
		panic(AliasedPairError{Kind: kind, A: a, B: b})
	}
	if a < b {
		lo, hi := items[:b], items[b:]
		return &lo[a], &hi[0]
	}
	lo, hi := items[:a], items[a:]
	return &hi[0], &lo[b]
}
