package tree

import (
	"go.uber.org/multierr"

	"github.com/kcygo/xtree/lib/infra"
)

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. (Optional) The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.
// So the shortest path nodes are black nodes. Otherwise,
// the path must contain red node.
// The longest path nodes' number is 2 * shortest path nodes' number.

// RBTree keeps the color invariants through the insert and remove
// rebalance walks. A header record caches the current leftmost and
// rightmost nodes so First and Last answer in O(1).
type RBTree[K infra.OrderedKey, V any] struct {
	bsTree[K, V]
	leftmost  *xNode[K, V]
	rightmost *xNode[K, V]
}

var _ BinaryTree[uint64, struct{}] = (*RBTree[uint64, struct{}])(nil)

func NewRBTree[K infra.OrderedKey, V any](opts ...TreeOpt[K, V]) *RBTree[K, V] {
	return &RBTree[K, V]{bsTree: newBsTree(opts...)}
}

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *RBTree[K, V]) leftRotate(x *xNode[K, V]) {
	if x == nil || x.right.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
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
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *RBTree[K, V]) rightRotate(x *xNode[K, V]) {
	if x == nil || x.left.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
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
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
}

func (tree *RBTree[K, V]) updateHeaderOnInsert(z *xNode[K, V]) {
	if tree.leftmost == nil || tree.kcmp(z.key, tree.leftmost.key) < 0 {
		tree.leftmost = z
	}
	if tree.rightmost == nil || tree.kcmp(z.key, tree.rightmost.key) > 0 {
		tree.rightmost = z
	}
}

func (tree *RBTree[K, V]) refreshHeader() {
	if tree.root == nil {
		tree.leftmost, tree.rightmost = nil, nil
		return
	}
	tree.leftmost = tree.root.minimum()
	tree.rightmost = tree.root.maximum()
}

// i1: Empty rbtree, insert directly, but root node is painted to black.
func (tree *RBTree[K, V]) Add(key K, val V) error {
	if err := infra.ValidateKey(key); err != nil {
		return err
	}

	if /* i1 */ tree.root.isNilLeaf() {
		node := &xNode[K, V]{key: key, count: 1, hasKV: true}
		tree.setVal(node, key, val)
		tree.root = node
		tree.size++
		tree.updateHeaderOnInsert(node)
		return nil
	}

	var x, y *xNode[K, V] = tree.root, nil
	res := int64(0)
	for !x.isNilLeaf() {
		y = x
		res = tree.kcmp(key, x.key)
		if /* equal */ res == 0 {
			tree.setVal(x, key, val)
			return nil
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	if y.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] insert a new value into nil node")
	}

	z := &xNode[K, V]{
		key:    key,
		color:  Red,
		count:  1,
		parent: y,
		hasKV:  true,
	}
	tree.setVal(z, key, val)
	if res < 0 {
		y.left = z
	} else {
		y.right = z
	}

	tree.size++
	tree.insertRebalance(z)
	tree.updateHeaderOnInsert(z)
	return nil
}

func (tree *RBTree[K, V]) AddMany(entries []Entry[K, V]) error {
	var merr error
	for _, e := range entries {
		merr = multierr.Append(merr, tree.Add(e.Key, e.Val))
	}
	return merr
}

// AddWithHint attaches key next to an existing nearby node without the
// full root-to-leaf descent. An equal-key hint updates in place;
// otherwise the correct attach point is looked up through the hint's
// pred/succ, falling back to a plain Add when the hint is not locally
// adjacent to key. The resulting tree satisfies the same invariants as
// an unhinted insert of the same key.
func (tree *RBTree[K, V]) AddWithHint(hint TreeNode[K, V], key K, val V) error {
	if err := infra.ValidateKey(key); err != nil {
		return err
	}
	h, ok := hint.(*xNode[K, V])
	if !ok || h == nil || !h.hasKV {
		return tree.Add(key, val)
	}

	res := tree.kcmp(key, h.key)
	if res == 0 {
		tree.setVal(h, key, val)
		return nil
	}

	var (
		y      *xNode[K, V]
		asLeft bool
	)
	if res > 0 {
		s := h.succ()
		if s != nil {
			cs := tree.kcmp(key, s.key)
			if cs == 0 {
				tree.setVal(s, key, val)
				return nil
			}
			if /* hint not adjacent */ cs > 0 {
				return tree.Add(key, val)
			}
		}
		if h.right == nil {
			y, asLeft = h, false
		} else {
			// s is the leftmost of h.right here, its left slot is free.
			y, asLeft = s, true
		}
	} else {
		p := h.pred()
		if p != nil {
			cp := tree.kcmp(key, p.key)
			if cp == 0 {
				tree.setVal(p, key, val)
				return nil
			}
			if /* hint not adjacent */ cp < 0 {
				return tree.Add(key, val)
			}
		}
		if h.left == nil {
			y, asLeft = h, true
		} else {
			// p is the rightmost of h.left here, its right slot is free.
			y, asLeft = p, false
		}
	}

	z := &xNode[K, V]{
		key:    key,
		color:  Red,
		count:  1,
		parent: y,
		hasKV:  true,
	}
	tree.setVal(z, key, val)
	if asLeft {
		y.left = z
	} else {
		y.right = z
	}

	tree.size++
	tree.insertRebalance(z)
	tree.updateHeaderOnInsert(z)
	return nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: Current node X's parent P is black and P is root, so hold p3 and p4.

im2: Current node X's parent P is red and P is root, repaint P into black.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Recursive to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation may be still red-violation. Here must enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: Handle im4 scenario, current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *RBTree[K, V]) insertRebalance(x *xNode[K, V]) {
	for !x.isNilLeaf() {
		if x.isRoot() {
			if x.isRed() {
				x.color = Black
			}
			return
		}

		if x.parent.isBlack() {
			return
		}

		if /* im1, im2 */ x.parent.isRoot() {
			x.parent.color = Black
			return
		}

		if /* im3 */ x.hasUncle() && x.uncle().isRed() {
			x.parent.color = Black
			x.uncle().color = Black
			gp := x.grandpa()
			gp.color = Red
			x = gp
			continue
		}

		if !x.hasUncle() || x.uncle().isBlack() {
			dir := x.Direction()
			if /* im4 */ dir != x.parent.Direction() {
				p := x.parent
				switch dir {
				case Left:
					tree.rightRotate(p)
				case Right:
					tree.leftRotate(p)
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] insert violate (im4)")
				}
				x = p // enter im5 to fix
			}

			switch /* im5 */ x.parent.Direction() {
			case Left:
				tree.rightRotate(x.grandpa())
			case Right:
				tree.leftRotate(x.grandpa())
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] insert violate (im5)")
			}

			x.parent.color = Black
			x.sibling().color = Red
			return
		}
	}
}

/*
r1: Only a root node, remove directly.

r2: Current node X has left and right node.
Find node X's pred or succ to replace it to be removed.
Swap the key, value and bucket count only.
Both of pred and succ have at most one real child.

Find pred:

	  |                    |
	  X                    L
	 / \                  / \
	L  ..   swap(X, L)   X  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                S  ..

Find succ:

	  |                    |
	  X                    S
	 / \                  / \
	L  ..   swap(X, S)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..

r3: (1) Current node X is a red leaf node, remove directly.

r3: (2) Current node X is a black leaf node, we have to rebalance after remove.
(black-violation)

r4: Current node X is not a leaf node but contains a not nil child node.
The child node must be a red node. (See conclusion. Otherwise, black-violation)
*/
func (tree *RBTree[K, V]) removeNode(z *xNode[K, V]) {
	if /* r1 */ tree.size == 1 && z.isRoot() {
		tree.root = nil
		tree.unlink(z)
		return
	}

	y := z
	if /* r2 */ !y.left.isNilLeaf() && !y.right.isNilLeaf() {
		if tree.rmBorrowSucc {
			y = z.succ() // enter r3-r4
		} else {
			y = z.pred() // enter r3-r4
		}
		// Swap key, value and bucket count.
		z.key, z.val, z.count = y.key, y.val, y.count
		z.hasKV = true
	}

	if /* r3 */ y.isLeaf() {
		if /* r3 (2) */ y.isBlack() {
			tree.removeRebalance(y)
		}
	} else /* r4 */ {
		var replace *xNode[K, V]
		if !y.right.isNilLeaf() {
			replace = y.right
		} else if !y.left.isNilLeaf() {
			replace = y.left
		}

		if replace == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove a leaf node without child, violate (r4)")
		}

		switch y.Direction() {
		case Root:
			tree.root = replace
			tree.root.parent = nil
		case Left:
			y.parent.left = replace
			replace.parent = y.parent
		case Right:
			y.parent.right = replace
			replace.parent = y.parent
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (r4)")
		}

		if y.isBlack() {
			if replace.isRed() {
				replace.color = Black
			} else {
				tree.removeRebalance(replace)
			}
		}
	}

	// Unlink node.
	if !y.isRoot() && y == y.parent.left {
		y.parent.left = nil
	} else if !y.isRoot() && y == y.parent.right {
		y.parent.right = nil
	}
	tree.unlink(y)
}

func (tree *RBTree[K, V]) Delete(key K) (Entry[K, V], bool, error) {
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
	tree.removeNode(z)
	tree.size--
	tree.refreshHeader()
	return e, true, nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

rm1: Current node X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. (Otherwise, red-violation)
(1) X is left node of P, left rotate P
(2) X is right node of P, right rotate P.
(3) repaint S into black, P into red.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [D]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: Current node X's parent P is red, the sibling S, nephew node Sc and Sd
is black.
Repaint S into red and P into black.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: All of current node X's parent P, the sibling S, nephew node Sc and Sd
are black.
Unable to satisfy p3 and p4. We have to paint the S into red to satisfy
p4 locally. Then recursive to handle P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: Current node X's sibling S is black, nephew node Sc is red and Sd
is black. Ignore X's parent P's color (red or black is okay)
Unable to satisfy p3 and p4.
(1) If X is left node of P, right rotate P.
(2) If X is right node of P, left rotate P.
(3) Repaint S into red, Sc into black
Enter into rm5 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: Current node X's sibling S is black, nephew node Sc is black and Sd
is red. Ignore X's parent P's color (red or black is okay)
Unable to satisfy p4 (black-violation)
(1) If X is left node of P, left rotate P.
(2) If X is right node of P, right rotate P.
(3) Swap P and S's color (red-violation)
(4) Repaint Sd into black.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *RBTree[K, V]) removeRebalance(x *xNode[K, V]) {
	for {
		if x.isRoot() {
			return
		}

		sibling := x.sibling()
		dir := x.Direction()
		if /* rm1 */ sibling.isRed() {
			switch dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm1)")
			}
			sibling.color = Black
			x.parent.color = Red // ready to enter rm2
			sibling = x.sibling()
		}

		var sc, sd *xNode[K, V]
		switch /* rm2 */ dir {
		case Left:
			sc, sd = sibling.left, sibling.right
		case Right:
			sc, sd = sibling.right, sibling.left
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (rm2)")
		}

		if sc.isBlack() && sd.isBlack() {
			if /* rm2 */ x.parent.isRed() {
				sibling.color = Red
				x.parent.color = Black
				break
			} else /* rm3 */ {
				sibling.color = Red
				x = x.parent
				continue
			}
		} else {
			if /* rm4 */ !sc.isNilLeaf() && sc.isRed() {
				switch dir {
				case Left:
					tree.rightRotate(sibling)
				case Right:
					tree.leftRotate(sibling)
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] remove violate (rm4)")
				}
				sc.color = Black
				sibling.color = Red
				sibling = x.sibling()
				switch dir {
				case Left:
					sd = sibling.right
				case Right:
					sd = sibling.left
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] remove violate (rm4)")
				}
			}

			switch /* rm5 */ dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm5)")
			}
			sibling.color = x.parent.color
			x.parent.color = Black
			if !sd.isNilLeaf() {
				sd.color = Black
			}
			break
		}
	}
}

// First answers from the header cache in O(1).
func (tree *RBTree[K, V]) First() (Entry[K, V], bool) {
	if tree.leftmost == nil {
		return Entry[K, V]{}, false
	}
	return tree.entryOf(tree.leftmost), true
}

// Last answers from the header cache in O(1).
func (tree *RBTree[K, V]) Last() (Entry[K, V], bool) {
	if tree.rightmost == nil {
		return Entry[K, V]{}, false
	}
	return tree.entryOf(tree.rightmost), true
}

func (tree *RBTree[K, V]) PollFirst() (Entry[K, V], bool) {
	e, ok := tree.First()
	if !ok {
		return e, false
	}
	_, _, _ = tree.Delete(e.Key)
	return e, true
}

func (tree *RBTree[K, V]) PollLast() (Entry[K, V], bool) {
	e, ok := tree.Last()
	if !ok {
		return e, false
	}
	_, _, _ = tree.Delete(e.Key)
	return e, true
}

func (tree *RBTree[K, V]) Clear() {
	tree.bsTree.Clear()
	tree.leftmost, tree.rightmost = nil, nil
}

// PerfectlyBalance rebuilds the minimum height shape and then recolors
// it: every node black except the deepest level, which is painted red
// so all root-to-nil paths keep an equal black depth.
func (tree *RBTree[K, V]) PerfectlyBalance() bool {
	if !tree.perfectRebuild() {
		return false
	}
	maxDepth := structHeight(tree.root)
	var recolor func(node *xNode[K, V], depth int32)
	recolor = func(node *xNode[K, V], depth int32) {
		if node == nil {
			return
		}
		if depth == maxDepth && maxDepth > 0 {
			node.color = Red
		} else {
			node.color = Black
		}
		recolor(node.left, depth+1)
		recolor(node.right, depth+1)
	}
	recolor(tree.root, 0)
	tree.refreshHeader()
	return true
}

func (tree *RBTree[K, V]) Clone() *RBTree[K, V] {
	cp := &RBTree[K, V]{}
	tree.cloneInto(&cp.bsTree)
	cp.refreshHeader()
	return cp
}
