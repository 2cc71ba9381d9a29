package tree

import "github.com/kcygo/xtree/lib/infra"

type traverseOpts struct {
	withNils bool
}

type TraverseOpt func(*traverseOpts)

// WithNilNodes keeps a nil placeholder for every absent child met by
// the traversal, so callers can compare tree shapes instead of plain
// key sequences.
func WithNilNodes() TraverseOpt {
	return func(o *traverseOpts) {
		o.withNils = true
	}
}

func loadTraverseOpts(opts []TraverseOpt) traverseOpts {
	o := traverseOpts{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

type dfsFrame[K infra.OrderedKey, V any] struct {
	node *xNode[K, V]
	emit bool
}

// DFS yields the nodes in the requested depth-first order. The
// iterative and the recursive implementation produce identical
// sequences, which one runs is the tree's iteration type knob.
func (tree *bsTree[K, V]) DFS(order DFSOrder, opts ...TraverseOpt) []TreeNode[K, V] {
	o := loadTraverseOpts(opts)
	res := make([]TreeNode[K, V], 0, tree.size)
	if tree.root == nil {
		return res
	}
	visit := func(node *xNode[K, V]) {
		if node == nil {
			if o.withNils {
				res = append(res, nil)
			}
			return
		}
		res = append(res, node)
	}
	if tree.itype == Recursive {
		dfsRecursive(tree.root, order, visit)
	} else {
		dfsIterative(tree.root, order, visit)
	}
	return res
}

func dfsRecursive[K infra.OrderedKey, V any](node *xNode[K, V], order DFSOrder, visit func(*xNode[K, V])) {
	if node == nil {
		visit(nil)
		return
	}
	switch order {
	case PreOrder:
		visit(node)
		dfsRecursive(node.left, order, visit)
		dfsRecursive(node.right, order, visit)
	case InOrder:
		dfsRecursive(node.left, order, visit)
		visit(node)
		dfsRecursive(node.right, order, visit)
	case PostOrder:
		dfsRecursive(node.left, order, visit)
		dfsRecursive(node.right, order, visit)
		visit(node)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[tree] unknown dfs order")
	}
}

// dfsIterative simulates the recursion with an explicit frame stack so
// all three orders, nil placeholders included, share one loop.
func dfsIterative[K infra.OrderedKey, V any](root *xNode[K, V], order DFSOrder, visit func(*xNode[K, V])) {
	stack := make([]dfsFrame[K, V], 0, 16)
	stack = append(stack, dfsFrame[K, V]{node: root})

	for size := len(stack); size > 0; size = len(stack) {
		f := stack[size-1]
		stack = stack[:size-1]
		if f.emit || f.node == nil {
			visit(f.node)
			continue
		}
		// Push in reverse of the wanted visiting order.
		switch order {
		case PreOrder:
			stack = append(stack,
				dfsFrame[K, V]{node: f.node.right},
				dfsFrame[K, V]{node: f.node.left},
				dfsFrame[K, V]{node: f.node, emit: true},
			)
		case InOrder:
			stack = append(stack,
				dfsFrame[K, V]{node: f.node.right},
				dfsFrame[K, V]{node: f.node, emit: true},
				dfsFrame[K, V]{node: f.node.left},
			)
		case PostOrder:
			stack = append(stack,
				dfsFrame[K, V]{node: f.node, emit: true},
				dfsFrame[K, V]{node: f.node.right},
				dfsFrame[K, V]{node: f.node.left},
			)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[tree] unknown dfs order")
		}
	}
}

// BFS yields the nodes level by level, left to right.
func (tree *bsTree[K, V]) BFS(opts ...TraverseOpt) []TreeNode[K, V] {
	res := make([]TreeNode[K, V], 0, tree.size)
	for _, level := range tree.ListLevels(opts...) {
		res = append(res, level...)
	}
	return res
}

// ListLevels groups the nodes of each depth into one slice.
func (tree *bsTree[K, V]) ListLevels(opts ...TraverseOpt) [][]TreeNode[K, V] {
	o := loadTraverseOpts(opts)
	if tree.root == nil {
		return nil
	}
	if tree.itype == Recursive {
		var levels [][]TreeNode[K, V]
		bfsRecursive([]*xNode[K, V]{tree.root}, o.withNils, &levels)
		return levels
	}
	return bfsIterative(tree.root, o.withNils)
}

func bfsIterative[K infra.OrderedKey, V any](root *xNode[K, V], withNils bool) [][]TreeNode[K, V] {
	levels := make([][]TreeNode[K, V], 0, 8)
	queue := []*xNode[K, V]{root}

	for len(queue) > 0 {
		level := make([]TreeNode[K, V], 0, len(queue))
		next := make([]*xNode[K, V], 0, len(queue)<<1)
		for _, node := range queue {
			if node == nil {
				level = append(level, nil)
				continue
			}
			level = append(level, node)
			if node.left != nil || withNils {
				next = append(next, node.left)
			}
			if node.right != nil || withNils {
				next = append(next, node.right)
			}
		}
		levels = append(levels, level)
		queue = next
		if withNils && levelAllNil(queue) {
			break
		}
	}
	return levels
}

func levelAllNil[K infra.OrderedKey, V any](level []*xNode[K, V]) bool {
	for _, node := range level {
		if node != nil {
			return false
		}
	}
	return true
}

func bfsRecursive[K infra.OrderedKey, V any](queue []*xNode[K, V], withNils bool, levels *[][]TreeNode[K, V]) {
	if len(queue) == 0 || levelAllNil(queue) && withNils {
		return
	}
	level := make([]TreeNode[K, V], 0, len(queue))
	next := make([]*xNode[K, V], 0, len(queue)<<1)
	for _, node := range queue {
		if node == nil {
			level = append(level, nil)
			continue
		}
		level = append(level, node)
		if node.left != nil || withNils {
			next = append(next, node.left)
		}
		if node.right != nil || withNils {
			next = append(next, node.right)
		}
	}
	*levels = append(*levels, level)
	bfsRecursive(next, withNils, levels)
}

// Morris visits the nodes in sorted order with O(1) extra space. The
// right pointers of in-order predecessors are threaded to their
// successors temporarily and always unthreaded again, the tree is back
// to its original pointer shape when Morris returns.
func (tree *bsTree[K, V]) Morris() []TreeNode[K, V] {
	res := make([]TreeNode[K, V], 0, tree.size)
	cur := tree.root
	for cur != nil {
		if cur.left == nil {
			res = append(res, cur)
			cur = cur.right
			continue
		}
		pre := cur.left
		for pre.right != nil && pre.right != cur {
			pre = pre.right
		}
		if pre.right == nil {
			pre.right = cur // thread
			cur = cur.left
		} else {
			pre.right = nil // unthread
			res = append(res, cur)
			cur = cur.right
		}
	}
	return res
}

// Foreach visits the entries in ascending key order until action
// returns false.
func (tree *bsTree[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	idx := int64(0)
	if tree.itype == Recursive {
		var rec func(node *xNode[K, V]) bool
		rec = func(node *xNode[K, V]) bool {
			if node == nil {
				return true
			}
			if !rec(node.left) {
				return false
			}
			if !action(idx, node.key, tree.valOf(node)) {
				return false
			}
			idx++
			return rec(node.right)
		}
		rec(tree.root)
		return
	}
	inorderWalk(tree.root, func(node *xNode[K, V]) bool {
		if !action(idx, node.key, tree.valOf(node)) {
			return false
		}
		idx++
		return true
	})
}

// Keys returns a fresh ascending key slice on every call.
func (tree *bsTree[K, V]) Keys() []K {
	keys := make([]K, 0, tree.size)
	tree.Foreach(func(idx int64, key K, val V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (tree *bsTree[K, V]) Values() []V {
	vals := make([]V, 0, tree.size)
	tree.Foreach(func(idx int64, key K, val V) bool {
		vals = append(vals, val)
		return true
	})
	return vals
}

func (tree *bsTree[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, tree.size)
	tree.Foreach(func(idx int64, key K, val V) bool {
		entries = append(entries, Entry[K, V]{Key: key, Val: val})
		return true
	})
	return entries
}

// Iterator walks the entries in ascending key order through the
// successor links. Every Iter call hands out a fresh one and First
// restarts it; mutating the tree while iterating is undefined.
type Iterator[K infra.OrderedKey, V any] struct {
	tree *bsTree[K, V]
	cur  *xNode[K, V]
	done bool
}

func (tree *bsTree[K, V]) Iter() *Iterator[K, V] {
	return &Iterator[K, V]{tree: tree}
}

func (it *Iterator[K, V]) First() bool {
	it.done = false
	it.cur = it.tree.root.minimum()
	if it.cur == nil {
		it.done = true
	}
	return !it.done
}

func (it *Iterator[K, V]) Next() bool {
	if it.done {
		return false
	}
	if it.cur == nil {
		return it.First()
	}
	if it.cur = it.cur.succ(); it.cur == nil {
		it.done = true
	}
	return !it.done
}

func (it *Iterator[K, V]) Valid() bool {
	return !it.done && it.cur != nil
}

func (it *Iterator[K, V]) Key() K {
	return it.cur.key
}

func (it *Iterator[K, V]) Val() V {
	return it.tree.valOf(it.cur)
}

func (it *Iterator[K, V]) Entry() Entry[K, V] {
	return it.tree.entryOf(it.cur)
}

// Filter collects the entries satisfying pred, in ascending key order.
func Filter[K infra.OrderedKey, V any](src Iterable[K, V], pred func(key K, val V) bool) []Entry[K, V] {
	res := make([]Entry[K, V], 0, 8)
	src.Foreach(func(idx int64, key K, val V) bool {
		if pred(key, val) {
			res = append(res, Entry[K, V]{Key: key, Val: val})
		}
		return true
	})
	return res
}

// MapEach projects every entry through fn, in ascending key order.
func MapEach[K infra.OrderedKey, V, R any](src Iterable[K, V], fn func(key K, val V) R) []R {
	res := make([]R, 0, 8)
	src.Foreach(func(idx int64, key K, val V) bool {
		res = append(res, fn(key, val))
		return true
	})
	return res
}

// Reduce folds the entries into init, in ascending key order.
func Reduce[K infra.OrderedKey, V, A any](src Iterable[K, V], init A, fn func(acc A, key K, val V) A) A {
	acc := init
	src.Foreach(func(idx int64, key K, val V) bool {
		acc = fn(acc, key, val)
		return true
	})
	return acc
}
