package tree

import "github.com/kcygo/xtree/lib/infra"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

//go:generate stringer -type=DFSOrder
type DFSOrder uint8

const (
	InOrder DFSOrder = iota
	PreOrder
	PostOrder
)

// IterationType selects the traversal implementation. Both settings
// produce identical sequences; the knob only trades call-stack depth
// against an explicit stack allocation.
//
//go:generate stringer -type=IterationType
type IterationType uint8

const (
	Iterative IterationType = iota
	Recursive
)

// Entry is one key/value pair of an ordered tree.
type Entry[K infra.OrderedKey, V any] struct {
	Key K
	Val V
}

// TreeNode is the read-only view over one tree node. The policy owning
// the tree decides which of the variant fields are meaningful: Height
// is maintained by the AVL policy, Color by the Red-Black policy and
// Count by the multi-value layer. In map mode Val returns the zero
// value, the logical value lives in the external store.
type TreeNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	HasKeyVal() bool
	Color() RBColor
	Height() int32
	Count() int64
	Left() TreeNode[K, V]
	Right() TreeNode[K, V]
	Parent() TreeNode[K, V]
}

// BinaryTree is the operation surface shared by the plain BST, the AVL
// tree and the Red-Black tree. The multi-value wrappers consume it as
// well, through their embedded Red-Black tree.
type BinaryTree[K infra.OrderedKey, V any] interface {
	Len() int64
	Root() TreeNode[K, V]
	Add(key K, val V) error
	AddMany(entries []Entry[K, V]) error
	Delete(key K) (Entry[K, V], bool, error)
	Get(key K) (V, bool)
	GetNode(key K) (TreeNode[K, V], bool)
	Has(key K) bool
	Clear()

	Keys() []K
	Values() []V
	Entries() []Entry[K, V]
	Foreach(action func(idx int64, key K, val V) bool)
	Iter() *Iterator[K, V]
	DFS(order DFSOrder, opts ...TraverseOpt) []TreeNode[K, V]
	BFS(opts ...TraverseOpt) []TreeNode[K, V]
	ListLevels(opts ...TraverseOpt) [][]TreeNode[K, V]
	Morris() []TreeNode[K, V]

	RangeSearch(low, high K, opts ...RangeOpt) []Entry[K, V]
	First() (Entry[K, V], bool)
	Last() (Entry[K, V], bool)
	Ceiling(key K) (Entry[K, V], bool)
	Floor(key K) (Entry[K, V], bool)
	Higher(key K) (Entry[K, V], bool)
	Lower(key K) (Entry[K, V], bool)
	PollFirst() (Entry[K, V], bool)
	PollLast() (Entry[K, V], bool)

	LeftMost(from ...TreeNode[K, V]) TreeNode[K, V]
	RightMost(from ...TreeNode[K, V]) TreeNode[K, V]
	Successor(node TreeNode[K, V]) TreeNode[K, V]
	Predecessor(node TreeNode[K, V]) TreeNode[K, V]

	Height() int32
	MinHeight() int32
	Depth(node TreeNode[K, V]) int32
	IsBST() bool
	IsPerfectlyBalanced() bool
	PerfectlyBalance() bool
}

// Iterable is the minimal in-order visiting contract used by the
// package level Filter, MapEach and Reduce helpers.
type Iterable[K infra.OrderedKey, V any] interface {
	Foreach(action func(idx int64, key K, val V) bool)
}
