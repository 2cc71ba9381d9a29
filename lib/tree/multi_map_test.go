package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreeMultiMapCountTracking(t *testing.T) {
	m := NewTreeMultiMap[uint64, uint64]()
	require.NoError(t, m.AddMany([]Entry[uint64, uint64]{
		{Key: 1, Val: 1},
		{Key: 2, Val: 2},
		{Key: 3, Val: 3},
	}))
	require.Equal(t, int64(3), m.Count())

	require.NoError(t, m.Add(3, 33))
	require.Equal(t, int64(4), m.Count())
	require.Equal(t, m.GetComputedCount(), m.Count())
	require.Equal(t, int64(3), m.Len())
	require.Equal(t, int64(2), m.CountOf(3))

	bucket, found := m.Get(3)
	require.True(t, found)
	require.Equal(t, []uint64{3, 33}, bucket)

	node, found := m.GetNode(3)
	require.True(t, found)
	require.Equal(t, int64(2), node.Count())
}

func TestTreeMultiMapAddExtrasAndDelete(t *testing.T) {
	m := NewTreeMultiMap[uint64, string]()
	require.NoError(t, m.Add(7, "a", "b", "c"))
	require.Equal(t, int64(3), m.Count())
	require.Equal(t, int64(1), m.Len())

	e, ok, err := m.Delete(7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "c"}, e.Val)
	require.Equal(t, int64(0), m.Count())
	require.Equal(t, int64(0), m.Len())

	_, ok, err = m.Delete(7)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTreeMultiMapDeleteValue(t *testing.T) {
	m := NewTreeMultiMap[uint64, string]()
	require.NoError(t, m.Add(1, "x"))
	require.NoError(t, m.Add(2, "y", "y", "z"))

	// Removes only the first matching occurrence.
	ok, err := m.DeleteValue(2, "y")
	require.NoError(t, err)
	require.True(t, ok)
	bucket, _ := m.Get(2)
	require.Equal(t, []string{"y", "z"}, bucket)
	require.Equal(t, int64(3), m.Count())
	require.Equal(t, int64(2), m.CountOf(2))

	// Absent value leaves everything untouched.
	ok, err = m.DeleteValue(2, "missing")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, int64(3), m.Count())

	// Draining the bucket removes the key itself.
	ok, err = m.DeleteValue(1, "x")
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, m.Has(1))
	require.Equal(t, int64(1), m.Len())
	require.Equal(t, int64(2), m.Count())
	require.Equal(t, m.GetComputedCount(), m.Count())
}

func TestTreeMultiMapAddWithHintKeepsCounts(t *testing.T) {
	m := NewTreeMultiMap[uint64, uint64]()
	require.NoError(t, m.Add(10, 1))
	require.NoError(t, m.Add(20, 2))

	// A hinted insert of a new key must raise the running total like a
	// plain Add does.
	hint, found := m.GetNode(10)
	require.True(t, found)
	require.NoError(t, m.AddWithHint(hint, 11, 3))
	require.Equal(t, int64(3), m.Count())
	require.Equal(t, m.GetComputedCount(), m.Count())
	require.Equal(t, int64(1), m.CountOf(11))
	require.NoError(t, RBViolationValidate(m.RBTree))

	// An equal-key hint appends to the bucket instead of replacing it.
	hint, found = m.GetNode(11)
	require.True(t, found)
	require.NoError(t, m.AddWithHint(hint, 11, 33, 34))
	bucket, _ := m.Get(11)
	require.Equal(t, []uint64{3, 33, 34}, bucket)
	require.Equal(t, int64(3), m.CountOf(11))
	require.Equal(t, int64(5), m.Count())
	require.Equal(t, m.GetComputedCount(), m.Count())

	// A far hint pointing away from an existing key still appends.
	hint, found = m.GetNode(20)
	require.True(t, found)
	require.NoError(t, m.AddWithHint(hint, 10, 100))
	bucket, _ = m.Get(10)
	require.Equal(t, []uint64{1, 100}, bucket)
	require.Equal(t, int64(6), m.Count())
	require.Equal(t, m.GetComputedCount(), m.Count())
	require.Equal(t, int64(3), m.Len())
}

func TestTreeMultiMapOverrideCount(t *testing.T) {
	m := NewTreeMultiMap[uint64, uint64]()
	require.NoError(t, m.Add(1, 1))
	require.NoError(t, m.Add(1, 11))
	require.Equal(t, int64(2), m.Count())

	// Detaches the running total from the traversal-backed one.
	m.OverrideCount(100)
	require.Equal(t, int64(100), m.Count())
	require.Equal(t, int64(2), m.GetComputedCount())
}

func TestTreeMultiMapOrderingAndPoll(t *testing.T) {
	m := NewTreeMultiMap[uint64, uint64]()
	for _, key := range []uint64{30, 10, 20, 10, 30, 10} {
		require.NoError(t, m.Add(key, key))
	}
	require.Equal(t, []uint64{10, 20, 30}, m.Keys())
	require.Equal(t, int64(6), m.Count())
	require.NoError(t, RBViolationValidate(m.RBTree))

	e, ok := m.PollFirst()
	require.True(t, ok)
	require.Equal(t, uint64(10), e.Key)
	require.Len(t, e.Val, 3)
	require.Equal(t, int64(3), m.Count())

	e, ok = m.PollLast()
	require.True(t, ok)
	require.Equal(t, uint64(30), e.Key)
	require.Len(t, e.Val, 2)
	require.Equal(t, int64(1), m.Count())
	require.Equal(t, m.GetComputedCount(), m.Count())
}

func TestTreeMultiMapClone(t *testing.T) {
	m := NewTreeMultiMap[uint64, uint64]()
	require.NoError(t, m.Add(1, 10, 11))
	require.NoError(t, m.Add(2, 20))

	cp := m.Clone()
	require.Equal(t, m.Count(), cp.Count())
	require.Equal(t, m.Keys(), cp.Keys())

	// Bucket mutations stay on their own side.
	require.NoError(t, cp.Add(1, 12))
	bucket, _ := m.Get(1)
	require.Equal(t, []uint64{10, 11}, bucket)
	cpBucket, _ := cp.Get(1)
	require.Equal(t, []uint64{10, 11, 12}, cpBucket)
	require.Equal(t, int64(3), m.Count())
	require.Equal(t, int64(4), cp.Count())
}

func TestTreeMultiMapBy(t *testing.T) {
	type event struct {
		ts   uint64
		name string
	}
	events := []event{
		{ts: 300, name: "c"},
		{ts: 100, name: "a"},
		{ts: 100, name: "a2"},
		{ts: 200, name: "b"},
	}
	m, err := NewTreeMultiMapBy(events, func(e event) uint64 { return e.ts })
	require.NoError(t, err)
	require.Equal(t, int64(4), m.Count())
	require.Equal(t, []uint64{100, 200, 300}, m.Keys())

	bucket, _ := m.Get(100)
	require.Len(t, bucket, 2)
	require.Equal(t, "a", bucket[0].name)

	_, err = NewTreeMultiMapBy[event, uint64](nil, nil)
	require.Error(t, err)
}

func TestTreeMultiMapClear(t *testing.T) {
	m := NewTreeMultiMap[uint64, uint64]()
	require.NoError(t, m.Add(1, 1, 2, 3))
	m.Clear()
	require.Equal(t, int64(0), m.Len())
	require.Equal(t, int64(0), m.Count())
	require.Nil(t, m.Root())
}
