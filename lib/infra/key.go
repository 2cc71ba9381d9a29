package infra

import (
	"errors"
	"time"
)

var (
	ErrNaNKey         = errors.New("[key] NaN is not a valid ordered key")
	ErrInvalidTimeKey = errors.New("[key] zero time is not a valid ordered key")
	ErrNilToEntryFn   = errors.New("[key] nil to-entry projection")
	ErrNilComparable  = errors.New("[key] nil comparable projection")
)

// ValidateKey rejects key values that break the total order before any
// structural change happens. The only such value inside the OrderedKey
// constraint is the float NaN, which compares unequal to itself.
func ValidateKey[K OrderedKey](key K) error {
	if key != key {
		return ErrNaNKey
	}
	return nil
}

// ToEntryFn adapts one raw input element into a key/value pair during
// bulk construction. Callers supply it whenever raw elements are not
// already key-like.
type ToEntryFn[E any, K OrderedKey, V any] func(elem E) (K, V)

// SpecifyComparable extracts the sortable projection of a raw element
// when the elements themselves are stored as values.
type SpecifyComparable[E any, K OrderedKey] func(elem E) K

// TimeKey projects a time.Time into an epoch-millisecond ordered key.
// The zero time is rejected the same way NaN is, it carries no usable
// position in the total order.
func TimeKey(t time.Time) (int64, error) {
	if t.IsZero() {
		return 0, ErrInvalidTimeKey
	}
	return t.UnixMilli(), nil
}
