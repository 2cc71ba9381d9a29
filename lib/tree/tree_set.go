package tree

import (
	"github.com/samber/lo"

	"github.com/kcygo/xtree/lib/infra"
)

// TreeSet is the ordered set facade over the Red-Black tree. Duplicate
// inserts collapse, membership and ordering are the whole contract.
type TreeSet[K infra.OrderedKey] struct {
	*RBTree[K, struct{}]
}

func NewTreeSet[K infra.OrderedKey](keys []K, opts ...TreeOpt[K, struct{}]) (*TreeSet[K], error) {
	s := &TreeSet[K]{RBTree: NewRBTree[K, struct{}](opts...)}
	return s, s.AddAll(keys...)
}

func (s *TreeSet[K]) Add(key K) error {
	return s.RBTree.Add(key, struct{}{})
}

func (s *TreeSet[K]) AddAll(keys ...K) error {
	return s.RBTree.AddMany(lo.Map(keys, func(key K, _ int) Entry[K, struct{}] {
		return Entry[K, struct{}]{Key: key}
	}))
}

func (s *TreeSet[K]) Contains(key K) bool {
	return s.Has(key)
}

// Delete reports whether key was a member.
func (s *TreeSet[K]) Delete(key K) (bool, error) {
	_, ok, err := s.RBTree.Delete(key)
	return ok, err
}

func (s *TreeSet[K]) Clone() *TreeSet[K] {
	return &TreeSet[K]{RBTree: s.RBTree.Clone()}
}

// TreeMultiSet keeps every duplicate insert, backed by the multi map
// with empty-struct buckets. Len counts distinct keys, Count counts
// stored occurrences.
type TreeMultiSet[K infra.OrderedKey] struct {
	*TreeMultiMap[K, struct{}]
}

func NewTreeMultiSet[K infra.OrderedKey](keys []K, opts ...TreeOpt[K, []struct{}]) (*TreeMultiSet[K], error) {
	s := &TreeMultiSet[K]{TreeMultiMap: NewTreeMultiMap[K, struct{}](opts...)}
	return s, s.AddAll(keys...)
}

func (s *TreeMultiSet[K]) Add(key K) error {
	return s.TreeMultiMap.Add(key, struct{}{})
}

func (s *TreeMultiSet[K]) AddAll(keys ...K) error {
	return s.TreeMultiMap.AddMany(lo.Map(keys, func(key K, _ int) Entry[K, struct{}] {
		return Entry[K, struct{}]{Key: key}
	}))
}

func (s *TreeMultiSet[K]) Contains(key K) bool {
	return s.Has(key)
}

// DeleteOne drops a single occurrence of key; DeleteAll drops the key
// with every duplicate it holds.
func (s *TreeMultiSet[K]) DeleteOne(key K) (bool, error) {
	return s.DeleteValue(key, struct{}{})
}

func (s *TreeMultiSet[K]) DeleteAll(key K) (int64, error) {
	e, ok, err := s.TreeMultiMap.Delete(key)
	if !ok {
		return 0, err
	}
	return int64(len(e.Val)), err
}

func (s *TreeMultiSet[K]) Clone() *TreeMultiSet[K] {
	return &TreeMultiSet[K]{TreeMultiMap: s.TreeMultiMap.Clone()}
}
