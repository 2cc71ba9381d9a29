package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/kcygo/xtree/lib/infra"
)

func TestBSTreeKeepsInsertionShape(t *testing.T) {
	tree := NewBSTree[uint64, uint64]()
	for _, key := range []uint64{8, 4, 12, 2, 6, 10, 14} {
		require.NoError(t, tree.Add(key, key))
	}
	// No balancing, the shape mirrors the insertion order.
	require.Equal(t, []uint64{8, 4, 12, 2, 6, 10, 14}, bfsKeys(tree.BFS()))
	require.Equal(t, int32(2), tree.Height())
	require.Equal(t, int32(2), tree.MinHeight())
	require.True(t, tree.IsBST())
	require.True(t, tree.IsPerfectlyBalanced())
}

func TestBSTreeDegenerateChainAndRebuild(t *testing.T) {
	tree := NewBSTree[uint64, uint64]()
	for i := uint64(0); i < 7; i++ {
		require.NoError(t, tree.Add(i, i))
	}
	require.Equal(t, int32(6), tree.Height())
	require.False(t, tree.IsPerfectlyBalanced())
	require.True(t, tree.IsBST())

	require.True(t, tree.PerfectlyBalance())
	require.Equal(t, []uint64{3, 1, 5, 0, 2, 4, 6}, bfsKeys(tree.BFS()))
	require.Equal(t, int32(2), tree.Height())
	require.True(t, tree.IsPerfectlyBalanced())
	require.True(t, tree.IsBST())
	require.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6}, tree.Keys())
}

func TestBSTreeReplaceOnEqualKey(t *testing.T) {
	tree := NewBSTree[uint64, string]()
	require.NoError(t, tree.Add(7, "old"))
	require.NoError(t, tree.Add(7, "new"))
	require.Equal(t, int64(1), tree.Len())
	val, found := tree.Get(7)
	require.True(t, found)
	require.Equal(t, "new", val)
}

func TestBSTreeDelete(t *testing.T) {
	type testcase struct {
		name         string
		rmBorrowSucc bool
		bfsAfter     []uint64
	}
	testcases := []testcase{
		{
			name:     "two children borrow pred",
			bfsAfter: []uint64{6, 4, 12, 2, 10, 14},
		},
		{
			name:         "two children borrow succ",
			rmBorrowSucc: true,
			bfsAfter:     []uint64{10, 4, 12, 2, 6, 14},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			opts := []TreeOpt[uint64, uint64]{}
			if tc.rmBorrowSucc {
				opts = append(opts, WithRemoveBorrowSucc[uint64, uint64]())
			}
			tree := NewBSTree[uint64, uint64](opts...)
			for _, key := range []uint64{8, 4, 12, 2, 6, 10, 14} {
				require.NoError(tt, tree.Add(key, key))
			}

			e, ok, err := tree.Delete(8) // root with two children
			require.NoError(tt, err)
			require.True(tt, ok)
			require.Equal(tt, uint64(8), e.Key)
			require.Equal(tt, tc.bfsAfter, bfsKeys(tree.BFS()))
			require.True(tt, tree.IsBST())

			e, ok, err = tree.Delete(2) // leaf
			require.NoError(tt, err)
			require.True(tt, ok)
			require.Equal(tt, uint64(2), e.Key)
			require.True(tt, tree.IsBST())

			_, ok, err = tree.Delete(4)
			require.NoError(tt, err)
			require.True(tt, ok)
			require.True(tt, tree.IsBST())

			_, ok, err = tree.Delete(404) // absent
			require.NoError(tt, err)
			require.False(tt, ok)
			require.Equal(tt, int64(4), tree.Len())
		})
	}
}

func TestBSTreeNaNKeyRejected(t *testing.T) {
	tree := NewBSTree[float64, uint64]()
	nan := math.NaN()

	require.ErrorIs(t, tree.Add(nan, 1), infra.ErrNaNKey)
	require.Equal(t, int64(0), tree.Len())

	_, _, err := tree.Delete(nan)
	require.ErrorIs(t, err, infra.ErrNaNKey)

	// The valid entries still land, the NaN ones aggregate into the error.
	err = tree.AddMany([]Entry[float64, uint64]{
		{Key: 1.5, Val: 1},
		{Key: nan, Val: 2},
		{Key: 2.5, Val: 3},
		{Key: nan, Val: 4},
	})
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)
	require.Equal(t, int64(2), tree.Len())
	require.Equal(t, []float64{1.5, 2.5}, tree.Keys())

	// Pure lookups answer not-found instead of erroring.
	_, found := tree.Get(nan)
	require.False(t, found)
}

func TestBSTreeMapMode(t *testing.T) {
	tree := NewBSTree[uint64, string](WithMapMode[uint64, string]())
	require.NoError(t, tree.Add(1, "one"))
	require.NoError(t, tree.Add(2, "two"))
	require.NoError(t, tree.Add(2, "two-replaced"))

	val, found := tree.Get(2)
	require.True(t, found)
	require.Equal(t, "two-replaced", val)
	require.Equal(t, tree.Len(), tree.store.Len())

	// In map mode the node itself carries no value.
	node, found := tree.GetNode(2)
	require.True(t, found)
	require.Empty(t, node.Val())

	e, ok, err := tree.Delete(2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two-replaced", e.Val)
	require.Equal(t, int64(1), tree.store.Len())

	tree.Clear()
	require.Equal(t, int64(0), tree.store.Len())
}

func TestBSTreeNavigationLinks(t *testing.T) {
	tree := NewBSTree[uint64, uint64]()
	for _, key := range []uint64{8, 4, 12, 2, 6, 10, 14} {
		require.NoError(t, tree.Add(key, key))
	}

	leftmost := tree.LeftMost()
	require.Equal(t, uint64(2), leftmost.Key())
	rightmost := tree.RightMost()
	require.Equal(t, uint64(14), rightmost.Key())

	sub, _ := tree.GetNode(12)
	require.Equal(t, uint64(10), tree.LeftMost(sub).Key())
	require.Equal(t, uint64(14), tree.RightMost(sub).Key())

	expected := []uint64{2, 4, 6, 8, 10, 12, 14}
	aux := tree.LeftMost()
	for _, key := range expected {
		require.Equal(t, key, aux.Key())
		aux = tree.Successor(aux)
	}
	require.Nil(t, aux)

	aux = tree.RightMost()
	for i := len(expected) - 1; i >= 0; i-- {
		require.Equal(t, expected[i], aux.Key())
		aux = tree.Predecessor(aux)
	}
	require.Nil(t, aux)

	root := tree.Root()
	require.Equal(t, int32(0), tree.Depth(root))
	deep, _ := tree.GetNode(6)
	require.Equal(t, int32(2), tree.Depth(deep))
}

func TestBSTreeCloneIndependence(t *testing.T) {
	tree := NewBSTree[uint64, uint64](WithMapMode[uint64, uint64]())
	for i := uint64(0); i < 50; i++ {
		require.NoError(t, tree.Add(i, i*2))
	}

	cp := tree.Clone()
	require.Equal(t, tree.Keys(), cp.Keys())
	require.Equal(t, tree.Values(), cp.Values())

	_, ok, err := cp.Delete(25)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, tree.Has(25))
	require.False(t, cp.Has(25))

	require.NoError(t, cp.Add(10, 9999))
	val, _ := tree.Get(10)
	require.Equal(t, uint64(20), val)
}
