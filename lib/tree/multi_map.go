package tree

import (
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/kcygo/xtree/lib/infra"
)

// TreeMultiMap buckets every duplicate insert under its key instead of
// replacing the previous value. Each tree node carries the bucket slice
// as its value and mirrors the bucket length in its count field; the
// map additionally keeps a running total over all buckets, so Count is
// O(1) while GetComputedCount stays available as the traversal-backed
// cross-check.
type TreeMultiMap[K infra.OrderedKey, V comparable] struct {
	*RBTree[K, []V]
	count int64
}

func NewTreeMultiMap[K infra.OrderedKey, V comparable](opts ...TreeOpt[K, []V]) *TreeMultiMap[K, V] {
	return &TreeMultiMap[K, V]{RBTree: NewRBTree[K, []V](opts...)}
}

// NewTreeMultiMapBy buckets raw elements under the sortable projection
// extracted by the `by` function, keeping the elements themselves as
// the bucket values.
func NewTreeMultiMapBy[E comparable, K infra.OrderedKey](elems []E, by infra.SpecifyComparable[E, K], opts ...TreeOpt[K, []E]) (*TreeMultiMap[K, E], error) {
	if by == nil {
		return nil, infra.ErrNilComparable
	}
	m := NewTreeMultiMap[K, E](opts...)
	var merr error
	for _, elem := range elems {
		merr = multierr.Append(merr, m.Add(by(elem), elem))
	}
	return m, merr
}

// Add appends val (plus any extras) to key's bucket, creating the
// bucket on first sight of the key.
func (m *TreeMultiMap[K, V]) Add(key K, val V, extra ...V) error {
	if err := infra.ValidateKey(key); err != nil {
		return err
	}
	vals := append([]V{val}, extra...)
	node := m.search(key)
	if node == nil {
		if err := m.RBTree.Add(key, vals); err != nil {
			return err
		}
		node = m.search(key)
		node.count = int64(len(vals))
	} else {
		bucket := append(m.valOf(node), vals...)
		m.setVal(node, key, bucket)
		node.count += int64(len(vals))
	}
	m.count += int64(len(vals))
	return nil
}

// AddWithHint is the hinted variant of Add: an adjacent hint skips the
// root-to-leaf descent for brand new keys, an equal-key hint appends to
// its bucket in place. Bucket counts and the running total stay
// maintained either way.
func (m *TreeMultiMap[K, V]) AddWithHint(hint TreeNode[K, []V], key K, val V, extra ...V) error {
	if err := infra.ValidateKey(key); err != nil {
		return err
	}
	vals := append([]V{val}, extra...)
	if h, ok := hint.(*xNode[K, []V]); ok && h != nil && h.hasKV && m.kcmp(key, h.key) == 0 {
		m.setVal(h, key, append(m.valOf(h), vals...))
		h.count += int64(len(vals))
		m.count += int64(len(vals))
		return nil
	}
	// A non-equal hint cannot tell an absent key from one stored away
	// from the hint, and the underlying hinted insert replaces buckets
	// on an exact match. Resolve the key first, append when present.
	if node := m.search(key); node != nil {
		m.setVal(node, key, append(m.valOf(node), vals...))
		node.count += int64(len(vals))
		m.count += int64(len(vals))
		return nil
	}
	if err := m.RBTree.AddWithHint(hint, key, vals); err != nil {
		return err
	}
	node := m.search(key)
	node.count = int64(len(vals))
	m.count += int64(len(vals))
	return nil
}

func (m *TreeMultiMap[K, V]) AddMany(entries []Entry[K, V]) error {
	var merr error
	for _, e := range entries {
		merr = multierr.Append(merr, m.Add(e.Key, e.Val))
	}
	return merr
}

// Delete drops key's whole bucket.
func (m *TreeMultiMap[K, V]) Delete(key K) (Entry[K, []V], bool, error) {
	if err := infra.ValidateKey(key); err != nil {
		return Entry[K, []V]{}, false, err
	}
	node := m.search(key)
	if node == nil {
		return Entry[K, []V]{}, false, nil
	}
	n := node.count
	e, ok, err := m.RBTree.Delete(key)
	if ok {
		m.count -= n
	}
	return e, ok, err
}

// DeleteValue drops the first occurrence of val from key's bucket and
// removes the key once its bucket drains empty. Reports whether a
// value was removed.
func (m *TreeMultiMap[K, V]) DeleteValue(key K, val V) (bool, error) {
	if err := infra.ValidateKey(key); err != nil {
		return false, err
	}
	node := m.search(key)
	if node == nil {
		return false, nil
	}
	bucket := m.valOf(node)
	idx := lo.IndexOf(bucket, val)
	if idx < 0 {
		return false, nil
	}
	if len(bucket) == 1 {
		_, _, err := m.RBTree.Delete(key)
		m.count--
		return true, err
	}
	bucket = append(bucket[:idx], bucket[idx+1:]...)
	m.setVal(node, key, bucket)
	node.count--
	m.count--
	return true, nil
}

// Count is the running total of stored values across all buckets.
func (m *TreeMultiMap[K, V]) Count() int64 {
	return m.count
}

// CountOf is the bucket size for one key, zero when absent.
func (m *TreeMultiMap[K, V]) CountOf(key K) int64 {
	if infra.ValidateKey(key) != nil {
		return 0
	}
	node := m.search(key)
	if node == nil {
		return 0
	}
	return node.count
}

// GetComputedCount recounts the total by traversal. It always agrees
// with Count unless OverrideCount was used to detach the two.
func (m *TreeMultiMap[K, V]) GetComputedCount() int64 {
	total := int64(0)
	inorderWalk(m.root, func(node *xNode[K, []V]) bool {
		total += node.count
		return true
	})
	return total
}

// OverrideCount force-sets the running total. Escape hatch for callers
// that mutate buckets through node handles; normal use never needs it.
func (m *TreeMultiMap[K, V]) OverrideCount(n int64) {
	m.count = n
}

func (m *TreeMultiMap[K, V]) PollFirst() (Entry[K, []V], bool) {
	e, ok := m.First()
	if !ok {
		return e, false
	}
	_, _, _ = m.Delete(e.Key)
	return e, true
}

func (m *TreeMultiMap[K, V]) PollLast() (Entry[K, []V], bool) {
	e, ok := m.Last()
	if !ok {
		return e, false
	}
	_, _, _ = m.Delete(e.Key)
	return e, true
}

func (m *TreeMultiMap[K, V]) Clear() {
	m.RBTree.Clear()
	m.count = 0
}

// Clone deep-copies the buckets, later appends through either map
// never alias the other.
func (m *TreeMultiMap[K, V]) Clone() *TreeMultiMap[K, V] {
	cp := &TreeMultiMap[K, V]{RBTree: m.RBTree.Clone(), count: m.count}
	inorderWalk(cp.root, func(node *xNode[K, []V]) bool {
		bucket := cp.valOf(node)
		cp.setVal(node, node.key, append(make([]V, 0, len(bucket)), bucket...))
		return true
	})
	return cp
}
