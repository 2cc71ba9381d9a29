package tree

import (
	"go.uber.org/multierr"

	"github.com/kcygo/xtree/lib/infra"
	"github.com/kcygo/xtree/lib/kv"
)

// xNode is the single node representation shared by every balancing
// policy. The policy owning the tree decides which variant fields are
// interpreted: height for AVL, color for Red-Black, count for the
// multi-value layer. Absent children are plain nil pointers, the
// nil-leaf checks treat them as the black sentinel.
type xNode[K infra.OrderedKey, V any] struct {
	parent *xNode[K, V]
	left   *xNode[K, V]
	right  *xNode[K, V]
	key    K
	val    V
	color  RBColor
	height int32
	count  int64
	hasKV  bool
}

func (node *xNode[K, V]) Key() K {
	return node.key
}

func (node *xNode[K, V]) Val() V {
	return node.val
}

func (node *xNode[K, V]) HasKeyVal() bool {
	if node == nil {
		return false
	}
	return node.hasKV
}

func (node *xNode[K, V]) Color() RBColor {
	return node.color
}

func (node *xNode[K, V]) Height() int32 {
	if node == nil {
		return -1
	}
	return node.height
}

func (node *xNode[K, V]) Count() int64 {
	if node == nil {
		return 0
	}
	return node.count
}

func (node *xNode[K, V]) Left() TreeNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *xNode[K, V]) Right() TreeNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *xNode[K, V]) Parent() TreeNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *xNode[K, V]) isNilLeaf() bool {
	return node == nil || (!node.hasKV && node.parent == nil && node.left == nil && node.right == nil)
}

func (node *xNode[K, V]) isRed() bool {
	return !node.isNilLeaf() && node.color == Red
}

func (node *xNode[K, V]) isBlack() bool {
	return node.isNilLeaf() || node.color == Black
}

func (node *xNode[K, V]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *xNode[K, V]) isLeaf() bool {
	return node != nil && node.parent != nil && node.left.isNilLeaf() && node.right.isNilLeaf()
}

func (node *xNode[K, V]) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[bst] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *xNode[K, V]) sibling() *xNode[K, V] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:

	}
	return nil
}

func (node *xNode[K, V]) hasSibling() bool {
	return !node.isRoot() && node.sibling() != nil
}

func (node *xNode[K, V]) uncle() *xNode[K, V] {
	return node.parent.sibling()
}

func (node *xNode[K, V]) hasUncle() bool {
	return !node.isRoot() && node.parent.hasSibling()
}

func (node *xNode[K, V]) grandpa() *xNode[K, V] {
	return node.parent.parent
}

func (node *xNode[K, V]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *xNode[K, V]) minimum() *xNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *xNode[K, V]) maximum() *xNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (node *xNode[K, V]) pred() *xNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	aux := x
	if aux.left != nil {
		return aux.left.maximum()
	}

	aux = x.parent
	// Backtrack to father node that is the x's pred.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *xNode[K, V]) succ() *xNode[K, V] {
	x := node
	if x == nil {
		return nil
	}

	aux := x
	if aux.right != nil {
		return aux.right.minimum()
	}

	aux = x.parent
	// Backtrack to father node that is the x's succ.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

// bsTree carries the state and the unbalanced primitives shared by all
// tree variants. The balancing policies build their insert and delete
// on top of it, everything else (traversal, navigation, range search,
// clone) works through the node/link contract only.
type bsTree[K infra.OrderedKey, V any] struct {
	root         *xNode[K, V]
	store        kv.Storer[K, V]
	kcmp         infra.OrderedKeyComparator[K]
	size         int64
	itype        IterationType
	mapMode      bool
	rmBorrowSucc bool
}

type TreeOpt[K infra.OrderedKey, V any] func(*bsTree[K, V])

// WithKeyComparator overrides the natural key order.
func WithKeyComparator[K infra.OrderedKey, V any](kcmp infra.OrderedKeyComparator[K]) TreeOpt[K, V] {
	return func(tree *bsTree[K, V]) {
		tree.kcmp = kcmp
	}
}

// WithDescOrder flips the current key order into the descending one.
func WithDescOrder[K infra.OrderedKey, V any]() TreeOpt[K, V] {
	return func(tree *bsTree[K, V]) {
		tree.kcmp = infra.DescKeyComparator(tree.kcmp)
	}
}

func WithIterationType[K infra.OrderedKey, V any](itype IterationType) TreeOpt[K, V] {
	return func(tree *bsTree[K, V]) {
		tree.itype = itype
	}
}

// WithMapMode stores the logical values in the external store instead
// of embedding them in the nodes. Passing no store installs the default
// map backed one.
func WithMapMode[K infra.OrderedKey, V any](store ...kv.Storer[K, V]) TreeOpt[K, V] {
	return func(tree *bsTree[K, V]) {
		tree.mapMode = true
		if len(store) > 0 && store[0] != nil {
			tree.store = store[0]
		} else {
			tree.store = kv.NewMapStore[K, V]()
		}
	}
}

// WithRemoveBorrowSucc makes two-children deletions borrow the in-order
// successor instead of the predecessor.
func WithRemoveBorrowSucc[K infra.OrderedKey, V any]() TreeOpt[K, V] {
	return func(tree *bsTree[K, V]) {
		tree.rmBorrowSucc = true
	}
}

func newBsTree[K infra.OrderedKey, V any](opts ...TreeOpt[K, V]) bsTree[K, V] {
	tree := bsTree[K, V]{
		kcmp:  infra.DefaultKeyComparator[K](),
		itype: Iterative,
	}
	for _, o := range opts {
		if o != nil {
			o(&tree)
		}
	}
	return tree
}

func (tree *bsTree[K, V]) Len() int64 {
	return tree.size
}

func (tree *bsTree[K, V]) Root() TreeNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// setVal routes the logical value either into the node or into the
// external store, depending on the storage mode.
func (tree *bsTree[K, V]) setVal(node *xNode[K, V], key K, val V) {
	if tree.mapMode {
		tree.store.AddOrUpdate(key, val)
		return
	}
	node.val = val
}

func (tree *bsTree[K, V]) valOf(node *xNode[K, V]) V {
	if tree.mapMode {
		val, _ := tree.store.Get(node.key)
		return val
	}
	return node.val
}

func (tree *bsTree[K, V]) entryOf(node *xNode[K, V]) Entry[K, V] {
	return Entry[K, V]{Key: node.key, Val: tree.valOf(node)}
}

func (tree *bsTree[K, V]) search(key K) *xNode[K, V] {
	for aux := tree.root; aux != nil; {
		res := tree.kcmp(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

// insertPositional descends from the root to the empty slot for key and
// links a fresh node there. An exact key match is a replace, the
// existing node is updated in place and no relink happens.
func (tree *bsTree[K, V]) insertPositional(key K, val V) (node *xNode[K, V], existed bool) {
	if tree.root == nil {
		node = &xNode[K, V]{key: key, count: 1, hasKV: true}
		tree.setVal(node, key, val)
		tree.root = node
		tree.size++
		return node, false
	}

	var x, y *xNode[K, V] = tree.root, nil
	res := int64(0)
	for x != nil {
		y = x
		res = tree.kcmp(key, x.key)
		if res == 0 {
			tree.setVal(x, key, val)
			return x, true
		} else if res < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}

	node = &xNode[K, V]{key: key, count: 1, parent: y, hasKV: true}
	tree.setVal(node, key, val)
	if res < 0 {
		y.left = node
	} else {
		y.right = node
	}
	tree.size++
	return node, false
}

// removeNodeBasic physically unlinks z, or, when z has two children,
// borrows its pred/succ (per the configured direction), moves the
// borrowed key/value/metadata into z and unlinks the borrowed node
// instead. Returns the physically removed node with its parent link
// still intact so policies can retrace from it.
func (tree *bsTree[K, V]) removeNodeBasic(z *xNode[K, V]) (y *xNode[K, V]) {
	y = z
	if z.left != nil && z.right != nil {
		if tree.rmBorrowSucc {
			y = z.succ()
		} else {
			y = z.pred()
		}
		z.key, z.val, z.count = y.key, y.val, y.count
	}

	var child *xNode[K, V]
	if y.left != nil {
		child = y.left
	} else {
		child = y.right
	}
	if child != nil {
		child.parent = y.parent
	}

	switch {
	case y.parent == nil:
		tree.root = child
	case y == y.parent.left:
		y.parent.left = child
	default:
		y.parent.right = child
	}
	return y
}

func (tree *bsTree[K, V]) unlink(y *xNode[K, V]) {
	y.parent, y.left, y.right = nil, nil, nil
	y.hasKV = false
}

func (tree *bsTree[K, V]) Get(key K) (V, bool) {
	if node := tree.search(key); node != nil {
		return tree.valOf(node), true
	}
	return *new(V), false
}

func (tree *bsTree[K, V]) GetNode(key K) (TreeNode[K, V], bool) {
	if node := tree.search(key); node != nil {
		return node, true
	}
	return nil, false
}

func (tree *bsTree[K, V]) Has(key K) bool {
	return tree.search(key) != nil
}

func (tree *bsTree[K, V]) Clear() {
	tree.root = nil
	tree.size = 0
	if tree.mapMode {
		tree.store.Purge()
	}
}

func (tree *bsTree[K, V]) LeftMost(from ...TreeNode[K, V]) TreeNode[K, V] {
	start := tree.root
	if len(from) > 0 && from[0] != nil {
		if n, ok := from[0].(*xNode[K, V]); ok {
			start = n
		}
	}
	if node := start.minimum(); node != nil {
		return node
	}
	return nil
}

func (tree *bsTree[K, V]) RightMost(from ...TreeNode[K, V]) TreeNode[K, V] {
	start := tree.root
	if len(from) > 0 && from[0] != nil {
		if n, ok := from[0].(*xNode[K, V]); ok {
			start = n
		}
	}
	if node := start.maximum(); node != nil {
		return node
	}
	return nil
}

func (tree *bsTree[K, V]) Successor(node TreeNode[K, V]) TreeNode[K, V] {
	x, ok := node.(*xNode[K, V])
	if !ok || x == nil {
		return nil
	}
	if s := x.succ(); s != nil {
		return s
	}
	return nil
}

func (tree *bsTree[K, V]) Predecessor(node TreeNode[K, V]) TreeNode[K, V] {
	x, ok := node.(*xNode[K, V])
	if !ok || x == nil {
		return nil
	}
	if p := x.pred(); p != nil {
		return p
	}
	return nil
}

// Height is the O(n) structural query, it never trusts the cached AVL
// heights. Height of the empty tree is -1.
func (tree *bsTree[K, V]) Height() int32 {
	return structHeight(tree.root)
}

func structHeight[K infra.OrderedKey, V any](node *xNode[K, V]) int32 {
	if node == nil {
		return -1
	}
	lh, rh := structHeight(node.left), structHeight(node.right)
	if lh > rh {
		return lh + 1
	}
	return rh + 1
}

// MinHeight is the length of the shortest path from the root down to
// a missing child slot, -1 when the tree is empty.
func (tree *bsTree[K, V]) MinHeight() int32 {
	return structMinHeight(tree.root)
}

func structMinHeight[K infra.OrderedKey, V any](node *xNode[K, V]) int32 {
	if node == nil {
		return -1
	}
	lh, rh := structMinHeight(node.left), structMinHeight(node.right)
	if lh < rh {
		return lh + 1
	}
	return rh + 1
}

// Depth counts the edges from node up to the root.
func (tree *bsTree[K, V]) Depth(node TreeNode[K, V]) int32 {
	x, ok := node.(*xNode[K, V])
	if !ok || x == nil {
		return -1
	}
	depth := int32(0)
	for aux := x; aux.parent != nil; aux = aux.parent {
		depth++
	}
	return depth
}

func (tree *bsTree[K, V]) IsBST() bool {
	valid := true
	var prev *xNode[K, V]
	inorderWalk(tree.root, func(node *xNode[K, V]) bool {
		if prev != nil && tree.kcmp(prev.key, node.key) >= 0 {
			valid = false
			return false
		}
		prev = node
		return true
	})
	return valid
}

func (tree *bsTree[K, V]) IsPerfectlyBalanced() bool {
	return tree.MinHeight()+1 >= tree.Height()
}

func inorderWalk[K infra.OrderedKey, V any](root *xNode[K, V], visit func(*xNode[K, V]) bool) {
	aux := root
	if aux == nil {
		return
	}

	stack := make([]*xNode[K, V], 0, 16)
	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if !visit(aux) {
			return
		}
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

// perfectRebuild relinks the current nodes into the minimum height
// shape, preserving in-order key sequence, values and counts. Cached
// AVL heights are recomputed, Red-Black recoloring is up to the caller.
func (tree *bsTree[K, V]) perfectRebuild() bool {
	if tree.root == nil {
		return false
	}

	nodes := make([]*xNode[K, V], 0, tree.size)
	inorderWalk(tree.root, func(node *xNode[K, V]) bool {
		nodes = append(nodes, node)
		return true
	})

	var build func(lo, hi int) *xNode[K, V]
	build = func(lo, hi int) *xNode[K, V] {
		if lo > hi {
			return nil
		}
		mid := (lo + hi) >> 1
		node := nodes[mid]
		node.left = build(lo, mid-1)
		node.right = build(mid+1, hi)
		node.fixLink()
		node.height = 1 + max32(node.left.Height(), node.right.Height())
		return node
	}
	tree.root = build(0, len(nodes)-1)
	tree.root.parent = nil
	return true
}

func max32(i, j int32) int32 {
	if i > j {
		return i
	}
	return j
}

// cloneSubtree deep copies the node graph below node, preserving the
// exact left/right topology and all balance metadata.
func cloneSubtree[K infra.OrderedKey, V any](node, parent *xNode[K, V]) *xNode[K, V] {
	if node == nil {
		return nil
	}
	cp := &xNode[K, V]{
		parent: parent,
		key:    node.key,
		val:    node.val,
		color:  node.color,
		height: node.height,
		count:  node.count,
		hasKV:  node.hasKV,
	}
	cp.left = cloneSubtree(node.left, cp)
	cp.right = cloneSubtree(node.right, cp)
	return cp
}

// cloneInto copies the whole tree state of src into dst. The two trees
// share no nodes afterwards; in map mode the store entries are copied
// into a fresh store as well.
func (tree *bsTree[K, V]) cloneInto(dst *bsTree[K, V]) {
	dst.kcmp = tree.kcmp
	dst.itype = tree.itype
	dst.rmBorrowSucc = tree.rmBorrowSucc
	dst.size = tree.size
	dst.root = cloneSubtree(tree.root, nil)
	if tree.mapMode {
		dst.mapMode = true
		dst.store = kv.NewMapStore[K, V]()
		for _, key := range tree.store.ListKeys() {
			if val, exists := tree.store.Get(key); exists {
				dst.store.AddOrUpdate(key, val)
			}
		}
	}
}

// BSTree is the unbalanced binary search tree. It keeps the ordering
// invariant only; the AVL and Red-Black variants reuse its primitives
// and add their balancing policies.
type BSTree[K infra.OrderedKey, V any] struct {
	bsTree[K, V]
}

var _ BinaryTree[uint64, struct{}] = (*BSTree[uint64, struct{}])(nil)

func NewBSTree[K infra.OrderedKey, V any](opts ...TreeOpt[K, V]) *BSTree[K, V] {
	return &BSTree[K, V]{bsTree: newBsTree(opts...)}
}

func (tree *BSTree[K, V]) Add(key K, val V) error {
	if err := infra.ValidateKey(key); err != nil {
		return err
	}
	tree.insertPositional(key, val)
	return nil
}

func (tree *BSTree[K, V]) AddMany(entries []Entry[K, V]) error {
	var merr error
	for _, e := range entries {
		merr = multierr.Append(merr, tree.Add(e.Key, e.Val))
	}
	return merr
}

func (tree *BSTree[K, V]) Delete(key K) (Entry[K, V], bool, error) {
	if err := infra.ValidateKey(key); err != nil {
		return Entry[K, V]{}, false, err
	}
	z := tree.search(key)
	if z == nil {
		return Entry[K, V]{}, false, nil
	}
	e := tree.entryOf(z)
	if tree.mapMode {
		tree.store.Delete(key)
	}
	y := tree.removeNodeBasic(z)
	tree.unlink(y)
	tree.size--
	return e, true, nil
}

func (tree *BSTree[K, V]) PollFirst() (Entry[K, V], bool) {
	e, ok := tree.First()
	if !ok {
		return e, false
	}
	_, _, _ = tree.Delete(e.Key)
	return e, true
}

func (tree *BSTree[K, V]) PollLast() (Entry[K, V], bool) {
	e, ok := tree.Last()
	if !ok {
		return e, false
	}
	_, _, _ = tree.Delete(e.Key)
	return e, true
}

func (tree *BSTree[K, V]) PerfectlyBalance() bool {
	return tree.perfectRebuild()
}

func (tree *BSTree[K, V]) Clone() *BSTree[K, V] {
	cp := &BSTree[K, V]{}
	tree.cloneInto(&cp.bsTree)
	return cp
}
