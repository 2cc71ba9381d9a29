package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/kcygo/xtree/lib/infra"
)

var (
	errRBRedViolation   = errors.New("[rbtree] red violation")
	errRBBlackViolation = errors.New("[rbtree] black violation")
	errRBRootViolation  = errors.New("[rbtree] root is not black")
)

// rbtree rule validation utilities.

func blackDepthTo[K infra.OrderedKey, V any](target, to *xNode[K, V]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.parent {
		if aux.isBlack() {
			depth++
		}
	}
	return depth
}

// Inorder traversal to validate the rbtree red property: no red node
// owns a red child.
func RedViolationValidate[K infra.OrderedKey, V any](tree *RBTree[K, V]) error {
	var err error
	inorderWalk(tree.root, func(aux *xNode[K, V]) bool {
		if aux.isRed() {
			if (!aux.parent.isRoot() && aux.parent.isRed()) ||
				(aux.left.isRed() || aux.right.isRed()) {
				err = errRBRedViolation
				return false
			}
		}
		return true
	})
	return err
}

// BFS traversal to load all nodes that own at least one nil leaf.
func bfsLeaves[K infra.OrderedKey, V any](tree *RBTree[K, V]) []*xNode[K, V] {
	aux := tree.root
	if aux.isNilLeaf() {
		return nil
	}

	leaves := make([]*xNode[K, V], 0, tree.size>>1+1)
	queue := make([]*xNode[K, V], 0, tree.size>>1)
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.left, aux.right
		if /* nil leaves, keep one */ l.isNilLeaf() || r.isNilLeaf() {
			leaves = append(leaves, aux)
		}
		if !l.isNilLeaf() {
			queue = append(queue, l)
		}
		if !r.isNilLeaf() {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[K infra.OrderedKey, V any](tree *RBTree[K, V]) error {
	leaves := bfsLeaves(tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo(leaves[0], tree.root)
	for i := 1; i < len(leaves); i++ {
		if blackDepthTo(leaves[i], tree.root) != blackDepth {
			return errRBBlackViolation
		}
	}
	return nil
}

// RBViolationValidate aggregates every color property check: black
// root, no red-red pair, equal black depth on all root-to-nil paths.
func RBViolationValidate[K infra.OrderedKey, V any](tree *RBTree[K, V]) error {
	var rootErr error
	if tree.root != nil && tree.root.isRed() {
		rootErr = errRBRootViolation
	}
	return multierr.Combine(
		rootErr,
		RedViolationValidate(tree),
		BlackViolationValidate(tree),
	)
}
