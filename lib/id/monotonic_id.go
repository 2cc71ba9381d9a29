package id

import (
	"strconv"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

const cacheLinePadSize = unsafe.Sizeof(cpu.CacheLinePad{})

// monotonicNonZeroID only increases and skips zero when the counter
// overflows. The counter is padded out to a whole cache line so a hot
// generator does not false-share with neighboring allocations.
type monotonicNonZeroID struct {
	_   [cacheLinePadSize - unsafe.Sizeof(uint64(0))]byte
	val uint64
	_   [cacheLinePadSize - unsafe.Sizeof(uint64(0))]byte
}

func (id *monotonicNonZeroID) next() uint64 {
	var v uint64
	if v = atomic.AddUint64(&id.val, 1); v == 0 {
		v = atomic.AddUint64(&id.val, 1)
	}
	return v
}

// MonotonicNonZeroID hands out strictly increasing non-zero ids within
// one process. The soak tests use it as a cheap unique key source.
func MonotonicNonZeroID() (Generator, error) {
	src := &monotonicNonZeroID{}
	gen := new(defaultID)
	gen.number = func() uint64 {
		return src.next()
	}
	gen.str = func() string {
		return strconv.FormatUint(src.next(), 10)
	}
	return gen, nil
}
