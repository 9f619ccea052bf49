package storehouse

import (
	"iter"
	"strconv"
	"strings"

	iter_util "github.com/TheBitDrifter/util/iter"
)

// BundleID identifies a registered bundle.
type BundleID uint32

// BundleInfo is the ordered set of component kinds a bundle contributes.
type BundleInfo struct {
	id         BundleID
	components []ComponentID
}

func (b *BundleInfo) ID() BundleID {
	return b.id
}

func (b *BundleInfo) Len() int {
	return len(b.components)
}

func (b *BundleInfo) Contributed() iter.Seq[ComponentID] {
	return func(yield func(ComponentID) bool) {
		for _, id := range b.components {
			if !yield(id) {
				return
			}
		}
	}
}

// ComponentIDs returns a copy of the contributed component ids in order.
func (b *BundleInfo) ComponentIDs() []ComponentID {
	return iter_util.Collect(b.Contributed())
}

// Bundles registers component bundles. Registering the same ordered list of
// components twice yields the same BundleID.
type Bundles struct {
	index keyedIndex[string, *BundleInfo]
}

func newBundles() *Bundles {
	return &Bundles{index: newKeyedIndex[string, *BundleInfo]()}
}

func (b *Bundles) Register(components *Components, ids ...ComponentID) (BundleID, error) {
	seen := make(map[ComponentID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := components.Info(id); !ok {
			return 0, UnknownComponentError{Component: id}
		}
		if _, dup := seen[id]; dup {
			return 0, DuplicateComponentError{Component: id}
		}
		seen[id] = struct{}{}
	}
	key := bundleKey(ids)
	if idx, ok := b.index.GetIndex(key); ok {
		return BundleID(idx), nil
	}
	info := &BundleInfo{
		id:         BundleID(b.index.Len()),
		components: append([]ComponentID(nil), ids...),
	}
	b.index.Register(key, info)
	return info.id, nil
}

func (b *Bundles) Get(id BundleID) (*BundleInfo, bool) {
	return b.index.GetItem(int(id))
}

func (b *Bundles) MustGet(id BundleID) *BundleInfo {
	info, ok := b.Get(id)
	if !ok {
		panic(UnknownBundleError{Bundle: id})
	}
	return info
}

func (b *Bundles) Len() int {
	return b.index.Len()
}

func bundleKey(ids []ComponentID) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return sb.String()
}
