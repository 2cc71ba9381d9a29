package kv

type StoreKeyFilterFunc[K comparable] func(key K) bool

func defaultAllKeysFilter[K comparable](key K) bool {
	return true
}

// Storer is the external key to value store consumed by map-mode trees.
// The tree engine is single threaded, so implementations are not required
// to be safe for concurrent use; the interface only keeps the value
// storage strategy pluggable.
type Storer[K comparable, V any] interface {
	Purge()
	AddOrUpdate(key K, obj V)
	Delete(key K) (item V, exists bool)
	Get(key K) (item V, exists bool)
	Len() int64
	ListKeys(filters ...StoreKeyFilterFunc[K]) []K
	ListValues(keys ...K) (items []V)
}

var _ Storer[string, struct{}] = (*mapStore[string, struct{}])(nil)

type mapStore[K comparable, V any] struct {
	entries map[K]V
}

func (s *mapStore[K, V]) Purge() {
	clear(s.entries)
}

func (s *mapStore[K, V]) AddOrUpdate(key K, obj V) {
	s.entries[key] = obj
}

func (s *mapStore[K, V]) Delete(key K) (item V, exists bool) {
	if item, exists = s.entries[key]; exists {
		delete(s.entries, key)
	}
	return
}

func (s *mapStore[K, V]) Get(key K) (item V, exists bool) {
	item, exists = s.entries[key]
	return
}

func (s *mapStore[K, V]) Len() int64 {
	return int64(len(s.entries))
}

func (s *mapStore[K, V]) ListKeys(filters ...StoreKeyFilterFunc[K]) []K {
	if len(filters) <= 0 {
		filters = []StoreKeyFilterFunc[K]{defaultAllKeysFilter[K]}
	}
	keys := make([]K, 0, len(s.entries))
	for key := range s.entries {
		for _, filter := range filters {
			if filter(key) {
				keys = append(keys, key)
				break
			}
		}
	}
	return keys
}

func (s *mapStore[K, V]) ListValues(keys ...K) (items []V) {
	if len(keys) > 0 {
		items = make([]V, 0, len(keys))
		for _, key := range keys {
			if item, exists := s.entries[key]; exists {
				items = append(items, item)
			}
		}
		return items
	}
	items = make([]V, 0, len(s.entries))
	for _, item := range s.entries {
		items = append(items, item)
	}
	return items
}

func NewMapStore[K comparable, V any]() Storer[K, V] {
	return &mapStore[K, V]{
		entries: make(map[K]V, 8),
	}
}
