package tree

import (
	randv2 "math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kcygo/xtree/lib/id"
	"github.com/kcygo/xtree/lib/infra"
)

func bfsKeys[K infra.OrderedKey, V any](nodes []TreeNode[K, V]) []K {
	keys := make([]K, 0, len(nodes))
	for _, node := range nodes {
		keys = append(keys, node.Key())
	}
	return keys
}

func TestAVLTreeSingleRotations(t *testing.T) {
	type testcase struct {
		name    string
		inserts []uint64
		bfs     []uint64
	}
	testcases := []testcase{
		{
			name:    "rr case, left rotate",
			inserts: []uint64{1, 2, 3},
			bfs:     []uint64{2, 1, 3},
		},
		{
			name:    "ll case, right rotate",
			inserts: []uint64{3, 2, 1},
			bfs:     []uint64{2, 1, 3},
		},
		{
			name:    "lr case, double rotate",
			inserts: []uint64{3, 1, 2},
			bfs:     []uint64{2, 1, 3},
		},
		{
			name:    "rl case, double rotate",
			inserts: []uint64{1, 3, 2},
			bfs:     []uint64{2, 1, 3},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewAVLTree[uint64, uint64]()
			for _, key := range tc.inserts {
				require.NoError(tt, tree.Add(key, key))
			}
			require.Equal(tt, tc.bfs, bfsKeys(tree.BFS()))
			require.True(tt, tree.IsAVLBalanced())
			require.NoError(tt, AVLViolationValidate(tree))
		})
	}
}

func TestAVLTreeInsertThenDrainSequence(t *testing.T) {
	tree := NewAVLTree[uint64, uint64]()

	inserts := []uint64{11, 3, 15, 1, 8, 13, 16, 2, 6, 9, 12, 14, 4, 7, 10, 5}
	for _, key := range inserts {
		require.NoError(t, tree.Add(key, key*10))
		require.True(t, tree.IsAVLBalanced())
		require.NoError(t, AVLViolationValidate(tree))
		require.True(t, tree.IsBST())
	}
	require.Equal(t, int64(len(inserts)), tree.Len())

	removes := []uint64{11, 1, 4, 10, 15, 5, 13, 3, 8, 6, 7, 9, 14}
	for _, key := range removes {
		e, ok, err := tree.Delete(key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, key, e.Key)
		require.True(t, tree.IsAVLBalanced())
		require.NoError(t, AVLViolationValidate(tree))
		require.True(t, tree.IsBST())
	}

	require.Equal(t, int64(3), tree.Len())
	require.Equal(t, []uint64{12, 2, 16}, bfsKeys(tree.BFS()))
	require.Equal(t, []uint64{2, 12, 16}, tree.Keys())
}

func avlRandomRunCore(t *testing.T, total uint64, rmBorrowSucc bool, violationCheck bool) {
	insertTotal := uint64(float64(total) * 0.8)
	removeTotal := uint64(float64(total) * 0.2)

	idGen, _ := id.MonotonicNonZeroID()
	insertElements := make([]uint64, 0, insertTotal)
	removeElements := make([]uint64, 0, removeTotal)

	ignore := uint32(0)
	for {
		num := idGen.NumberUUID()
		if ignore > 0 {
			ignore--
			continue
		}
		ignore = randv2.Uint32() % 100
		if ignore&0x1 == 0 && uint64(len(insertElements)) < insertTotal {
			insertElements = append(insertElements, num)
		} else if ignore&0x1 == 1 && uint64(len(removeElements)) < removeTotal {
			removeElements = append(removeElements, num)
		}
		if uint64(len(insertElements)) == insertTotal && uint64(len(removeElements)) == removeTotal {
			break
		}
	}

	opts := []TreeOpt[uint64, uint64]{}
	if rmBorrowSucc {
		opts = append(opts, WithRemoveBorrowSucc[uint64, uint64]())
	}
	tree := NewAVLTree[uint64, uint64](opts...)

	for i := uint64(0); i < insertTotal; i++ {
		require.NoError(t, tree.Add(insertElements[i], i))
		if violationCheck {
			require.NoError(t, AVLViolationValidate(tree))
		}
	}
	sort.Slice(insertElements, func(i, j int) bool {
		return insertElements[i] < insertElements[j]
	})
	tree.Foreach(func(idx int64, key uint64, val uint64) bool {
		require.Equal(t, insertElements[idx], key)
		return true
	})

	for i := uint64(0); i < removeTotal; i++ {
		require.NoError(t, tree.Add(removeElements[i], 1))
	}
	require.NoError(t, AVLViolationValidate(tree))

	for i := uint64(0); i < removeTotal; i++ {
		e, ok, err := tree.Delete(removeElements[i])
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, removeElements[i], e.Key)
		if violationCheck {
			require.NoError(t, AVLViolationValidate(tree))
		}
	}
	require.True(t, tree.IsAVLBalanced())
	tree.Foreach(func(idx int64, key uint64, val uint64) bool {
		require.Equal(t, insertElements[idx], key)
		return true
	})
}

func TestAVLTreeRandomMonotonicNumber(t *testing.T) {
	type testcase struct {
		name           string
		rmBorrowSucc   bool
		total          uint64
		violationCheck bool
	}
	testcases := []testcase{
		{
			name:  "rm by pred 100000",
			total: 100000,
		},
		{
			name:         "rm by succ 100000",
			rmBorrowSucc: true,
			total:        100000,
		},
		{
			name:           "violation check rm by pred 10000",
			total:          10000,
			violationCheck: true,
		},
		{
			name:           "violation check rm by succ 10000",
			rmBorrowSucc:   true,
			total:          10000,
			violationCheck: true,
		},
	}
	t.Parallel()
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			avlRandomRunCore(tt, tc.total, tc.rmBorrowSucc, tc.violationCheck)
		})
	}
}

func TestAVLTreePollBothEnds(t *testing.T) {
	tree := NewAVLTree[uint64, uint64]()
	for i := uint64(0); i < 100; i++ {
		require.NoError(t, tree.Add(i, i))
	}

	lo, hi := uint64(0), uint64(99)
	for tree.Len() > 0 {
		e, ok := tree.PollFirst()
		require.True(t, ok)
		require.Equal(t, lo, e.Key)
		lo++
		require.True(t, tree.IsAVLBalanced())

		if tree.Len() == 0 {
			break
		}
		e, ok = tree.PollLast()
		require.True(t, ok)
		require.Equal(t, hi, e.Key)
		hi--
		require.True(t, tree.IsAVLBalanced())
	}
	_, ok := tree.PollFirst()
	require.False(t, ok)
	_, ok = tree.PollLast()
	require.False(t, ok)
}

func TestAVLTreeClone(t *testing.T) {
	tree := NewAVLTree[uint64, uint64]()
	for i := uint64(0); i < 300; i++ {
		require.NoError(t, tree.Add(i, i))
	}

	cp := tree.Clone()
	require.Equal(t, tree.Len(), cp.Len())
	require.Equal(t, tree.Keys(), cp.Keys())
	require.NoError(t, AVLViolationValidate(cp))

	_, ok, err := cp.Delete(150)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, tree.Has(150))
	require.False(t, cp.Has(150))
}

func TestAVLTreePerfectlyBalance(t *testing.T) {
	tree := NewAVLTree[uint64, uint64]()
	require.False(t, tree.PerfectlyBalance())
	for i := uint64(0); i < 1000; i++ {
		require.NoError(t, tree.Add(i, i))
	}
	require.True(t, tree.PerfectlyBalance())
	require.True(t, tree.IsPerfectlyBalanced())
	require.NoError(t, AVLViolationValidate(tree))
	require.True(t, tree.IsBST())
}
