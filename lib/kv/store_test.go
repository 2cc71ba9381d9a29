package kv

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapStore(t *testing.T) {
	store := NewMapStore[uint64, string]()
	require.Equal(t, int64(0), store.Len())

	store.AddOrUpdate(1, "one")
	store.AddOrUpdate(2, "two")
	store.AddOrUpdate(1, "one-replaced")
	require.Equal(t, int64(2), store.Len())

	val, exists := store.Get(1)
	require.True(t, exists)
	require.Equal(t, "one-replaced", val)

	_, exists = store.Get(404)
	require.False(t, exists)

	val, exists = store.Delete(2)
	require.True(t, exists)
	require.Equal(t, "two", val)
	_, exists = store.Delete(2)
	require.False(t, exists)
	require.Equal(t, int64(1), store.Len())

	store.Purge()
	require.Equal(t, int64(0), store.Len())
}

func TestMapStoreListKeysAndValues(t *testing.T) {
	store := NewMapStore[uint64, string]()
	store.AddOrUpdate(1, "a")
	store.AddOrUpdate(2, "b")
	store.AddOrUpdate(3, "c")

	keys := store.ListKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	require.Equal(t, []uint64{1, 2, 3}, keys)

	odd := store.ListKeys(func(key uint64) bool { return key%2 == 1 })
	sort.Slice(odd, func(i, j int) bool { return odd[i] < odd[j] })
	require.Equal(t, []uint64{1, 3}, odd)

	vals := store.ListValues(1, 3)
	require.Equal(t, []string{"a", "c"}, vals)

	all := store.ListValues()
	require.Len(t, all, 3)
}
