package tree

import (
	"github.com/samber/lo"

	"github.com/kcygo/xtree/lib/infra"
	"github.com/kcygo/xtree/lib/kv"
)

// TreeMap is the ordered map facade over the Red-Black tree, always in
// map mode: the nodes index the keys, the logical values live in an
// external kv store. Callers wanting a custom store pass their own
// through WithMapMode.
type TreeMap[K infra.OrderedKey, V any] struct {
	*RBTree[K, V]
}

func NewTreeMap[K infra.OrderedKey, V any](entries []Entry[K, V], opts ...TreeOpt[K, V]) (*TreeMap[K, V], error) {
	all := make([]TreeOpt[K, V], 0, len(opts)+1)
	all = append(all, WithMapMode[K, V]())
	all = append(all, opts...)
	m := &TreeMap[K, V]{RBTree: NewRBTree[K, V](all...)}
	return m, m.AddMany(entries)
}

// NewTreeMapFrom builds the map from raw elements through a projection
// into key/value pairs.
func NewTreeMapFrom[E any, K infra.OrderedKey, V any](elems []E, fn infra.ToEntryFn[E, K, V], opts ...TreeOpt[K, V]) (*TreeMap[K, V], error) {
	if fn == nil {
		return nil, infra.ErrNilToEntryFn
	}
	entries := lo.Map(elems, func(elem E, _ int) Entry[K, V] {
		k, v := fn(elem)
		return Entry[K, V]{Key: k, Val: v}
	})
	return NewTreeMap(entries, opts...)
}

// Store exposes the backing kv store, read-only use intended.
func (m *TreeMap[K, V]) Store() kv.Storer[K, V] {
	return m.store
}

func (m *TreeMap[K, V]) Clone() *TreeMap[K, V] {
	return &TreeMap[K, V]{RBTree: m.RBTree.Clone()}
}
