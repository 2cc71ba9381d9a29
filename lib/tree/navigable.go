package tree

import "github.com/kcygo/xtree/lib/infra"

type rangeOpts struct {
	lowExclusive  bool
	highExclusive bool
}

type RangeOpt func(*rangeOpts)

// WithLowExclusive drops the low bound itself from the range result.
func WithLowExclusive() RangeOpt {
	return func(o *rangeOpts) {
		o.lowExclusive = true
	}
}

// WithHighExclusive drops the high bound itself from the range result.
func WithHighExclusive() RangeOpt {
	return func(o *rangeOpts) {
		o.highExclusive = true
	}
}

func loadRangeOpts(opts []RangeOpt) rangeOpts {
	o := rangeOpts{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// First returns the entry with the least key under the tree's
// comparator. O(log n) on the base tree; the Red-Black tree overrides
// it with an O(1) header lookup.
func (tree *bsTree[K, V]) First() (Entry[K, V], bool) {
	node := tree.root.minimum()
	if node == nil {
		return Entry[K, V]{}, false
	}
	return tree.entryOf(node), true
}

// Last returns the entry with the greatest key under the tree's
// comparator.
func (tree *bsTree[K, V]) Last() (Entry[K, V], bool) {
	node := tree.root.maximum()
	if node == nil {
		return Entry[K, V]{}, false
	}
	return tree.entryOf(node), true
}

// Ceiling returns the entry with the least key >= key.
func (tree *bsTree[K, V]) Ceiling(key K) (Entry[K, V], bool) {
	return tree.boundSearch(key, false, true)
}

// Floor returns the entry with the greatest key <= key.
func (tree *bsTree[K, V]) Floor(key K) (Entry[K, V], bool) {
	return tree.boundSearch(key, false, false)
}

// Higher returns the entry with the least key strictly greater
// than key.
func (tree *bsTree[K, V]) Higher(key K) (Entry[K, V], bool) {
	return tree.boundSearch(key, true, true)
}

// Lower returns the entry with the greatest key strictly less
// than key.
func (tree *bsTree[K, V]) Lower(key K) (Entry[K, V], bool) {
	return tree.boundSearch(key, true, false)
}

// boundSearch descends once from the root, keeping the best candidate
// on the query side seen so far. An equal-key node is the answer
// itself unless the bound is strict.
func (tree *bsTree[K, V]) boundSearch(key K, strict, above bool) (Entry[K, V], bool) {
	if err := infra.ValidateKey(key); err != nil {
		return Entry[K, V]{}, false
	}
	var candidate *xNode[K, V]
	for aux := tree.root; aux != nil; {
		res := tree.kcmp(key, aux.key)
		if res == 0 {
			if !strict {
				return tree.entryOf(aux), true
			}
			if above {
				aux = aux.right
			} else {
				aux = aux.left
			}
			continue
		}
		if res < 0 {
			if above {
				candidate = aux
			}
			aux = aux.left
		} else {
			if !above {
				candidate = aux
			}
			aux = aux.right
		}
	}
	if candidate == nil {
		return Entry[K, V]{}, false
	}
	return tree.entryOf(candidate), true
}

// RangeSearch collects the entries with low <= key <= high in ascending
// key order. Both bounds are inclusive unless relaxed through opts, and
// low/high are read under the tree's comparator, so a descending tree
// expects low to be the greater key. Subtrees fully outside the window
// are pruned, the cost is O(log n + m) for m matches.
func (tree *bsTree[K, V]) RangeSearch(low, high K, opts ...RangeOpt) []Entry[K, V] {
	o := loadRangeOpts(opts)
	res := make([]Entry[K, V], 0, 8)
	if infra.ValidateKey(low) != nil || infra.ValidateKey(high) != nil {
		return res
	}
	if tree.kcmp(low, high) > 0 {
		return res
	}

	inLow := func(key K) bool {
		cl := tree.kcmp(low, key)
		return cl < 0 || cl == 0 && !o.lowExclusive
	}
	inHigh := func(key K) bool {
		ch := tree.kcmp(high, key)
		return ch > 0 || ch == 0 && !o.highExclusive
	}

	var walk func(node *xNode[K, V])
	walk = func(node *xNode[K, V]) {
		if node == nil {
			return
		}
		goLeft := tree.kcmp(low, node.key) < 0
		goRight := tree.kcmp(high, node.key) > 0
		if goLeft {
			walk(node.left)
		}
		if inLow(node.key) && inHigh(node.key) {
			res = append(res, tree.entryOf(node))
		}
		if goRight {
			walk(node.right)
		}
	}
	walk(tree.root)
	return res
}
