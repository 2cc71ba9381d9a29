package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/kcygo/xtree/lib/infra"
)

var (
	errAVLHeightViolation  = errors.New("[avl] cached height violation")
	errAVLBalanceViolation = errors.New("[avl] balance factor violation")
)

// AVLTree keeps |height(left) - height(right)| <= 1 at every node by
// retracing from the changed position up to the root after each insert
// and delete, rotating where the balance factor leaves [-1, 1].
type AVLTree[K infra.OrderedKey, V any] struct {
	bsTree[K, V]
}

var _ BinaryTree[uint64, struct{}] = (*AVLTree[uint64, struct{}])(nil)

func NewAVLTree[K infra.OrderedKey, V any](opts ...TreeOpt[K, V]) *AVLTree[K, V] {
	return &AVLTree[K, V]{bsTree: newBsTree(opts...)}
}

func (tree *AVLTree[K, V]) updateHeight(x *xNode[K, V]) {
	x.height = 1 + max32(x.left.Height(), x.right.Height())
}

func (tree *AVLTree[K, V]) balanceFactor(x *xNode[K, V]) int32 {
	return x.left.Height() - x.right.Height()
}

/*
	     |                     |
	     X                     Y
	    / \   leftRotate(X)   / \
	   L   Y  ============>  X   R
	      / \               / \
	     C   R             L   C
*/
func (tree *AVLTree[K, V]) leftRotate(x *xNode[K, V]) *xNode[K, V] {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avl] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[avl] unknown node direction to left-rotate")
	}
	y.parent = p

	tree.updateHeight(x)
	tree.updateHeight(y)
	return y
}

/*
	     |                      |
	     X                      Y
	    / \   rightRotate(X)   / \
	   Y   R  =============>  L   X
	  / \                        / \
	 L   C                      C   R
*/
func (tree *AVLTree[K, V]) rightRotate(x *xNode[K, V]) *xNode[K, V] {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avl] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[avl] unknown node direction to right-rotate")
	}
	y.parent = p

	tree.updateHeight(x)
	tree.updateHeight(y)
	return y
}

// rebalanceAt resolves one of the four rotation cases at x, chosen by
// the sign of the child's own balance factor against the parent's.
// Returns the node that took x's place as the subtree root.
func (tree *AVLTree[K, V]) rebalanceAt(x *xNode[K, V], bf int32) *xNode[K, V] {
	if bf > 1 {
		if /* LL */ tree.balanceFactor(x.left) >= 0 {
			return tree.rightRotate(x)
		}
		// LR
		tree.leftRotate(x.left)
		return tree.rightRotate(x)
	}
	if /* RR */ tree.balanceFactor(x.right) <= 0 {
		return tree.leftRotate(x)
	}
	// RL
	tree.rightRotate(x.right)
	return tree.leftRotate(x)
}

// retrace walks from start up to the root, refreshing cached heights
// and fixing every ancestor whose balance factor left [-1, 1].
func (tree *AVLTree[K, V]) retrace(start *xNode[K, V]) {
	for aux := start; aux != nil; {
		tree.updateHeight(aux)
		if bf := tree.balanceFactor(aux); bf > 1 || bf < -1 {
			aux = tree.rebalanceAt(aux, bf)
		}
		aux = aux.parent
	}
}

func (tree *AVLTree[K, V]) Add(key K, val V) error {
	if err := infra.ValidateKey(key); err != nil {
		return err
	}
	node, existed := tree.insertPositional(key, val)
	if existed {
		return nil
	}
	node.height = 0
	tree.retrace(node.parent)
	return nil
}

func (tree *AVLTree[K, V]) AddMany(entries []Entry[K, V]) error {
	var merr error
	for _, e := range entries {
		merr = multierr.Append(merr, tree.Add(e.Key, e.Val))
	}
	return merr
}

func (tree *AVLTree[K, V]) Delete(key K) (Entry[K, V], bool, error) {
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
	start := y.parent
	tree.unlink(y)
	tree.size--
	tree.retrace(start)
	return e, true, nil
}

func (tree *AVLTree[K, V]) PollFirst() (Entry[K, V], bool) {
	e, ok := tree.First()
	if !ok {
		return e, false
	}
	_, _, _ = tree.Delete(e.Key)
	return e, true
}

func (tree *AVLTree[K, V]) PollLast() (Entry[K, V], bool) {
	e, ok := tree.Last()
	if !ok {
		return e, false
	}
	_, _, _ = tree.Delete(e.Key)
	return e, true
}

func (tree *AVLTree[K, V]) PerfectlyBalance() bool {
	return tree.perfectRebuild()
}

func (tree *AVLTree[K, V]) Clone() *AVLTree[K, V] {
	cp := &AVLTree[K, V]{}
	tree.cloneInto(&cp.bsTree)
	return cp
}

// IsAVLBalanced is the full-tree recursive check, usable as a test
// post-condition. It recomputes heights structurally instead of
// trusting the cached ones.
func (tree *AVLTree[K, V]) IsAVLBalanced() bool {
	_, ok := avlCheck(tree.root)
	return ok
}

func avlCheck[K infra.OrderedKey, V any](node *xNode[K, V]) (int32, bool) {
	if node == nil {
		return -1, true
	}
	lh, lok := avlCheck(node.left)
	rh, rok := avlCheck(node.right)
	if !lok || !rok {
		return 0, false
	}
	if d := lh - rh; d > 1 || d < -1 {
		return 0, false
	}
	return max32(lh, rh) + 1, true
}

// AVLViolationValidate reports cached-height drift and balance factor
// violations over the whole tree, aggregated per concern.
func AVLViolationValidate[K infra.OrderedKey, V any](tree *AVLTree[K, V]) error {
	var heightErr, balanceErr error
	var walk func(node *xNode[K, V]) int32
	walk = func(node *xNode[K, V]) int32 {
		if node == nil {
			return -1
		}
		lh, rh := walk(node.left), walk(node.right)
		h := max32(lh, rh) + 1
		if node.height != h {
			heightErr = errAVLHeightViolation
		}
		if d := lh - rh; d > 1 || d < -1 {
			balanceErr = errAVLBalanceViolation
		}
		return h
	}
	walk(tree.root)
	return multierr.Append(heightErr, balanceErr)
}
