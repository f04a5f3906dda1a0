package robinhood

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Allocator provides the backing buffers of a table.
// Alloc must return a zeroed, word-aligned buffer of exactly n bytes.
// Free is called once for every buffer the table no longer uses.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte)
}

// HeapAllocator allocates buffers on the Go heap.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 || uintptr(n) > math.MaxInt-wordSize {
		return nil, errors.Newf("heap allocation of %d bytes is out of range", n)
	}

	// Backing the buffer with words guarantees the displacement alignment.
	words := make([]uintptr, (uintptr(n)+wordSize-1)/wordSize)

	return wordsAsBytes(words, n), nil
}

func (HeapAllocator) Free([]byte) {}

// LimitAllocator fails allocations once the bytes in use would exceed Limit.
// During a resize both the old and the new buffer are in use.
type LimitAllocator struct {
	Allocator Allocator
	Limit     int

	inUse int
}

func NewLimitAllocator(a Allocator, limit int) *LimitAllocator {
	if a == nil {
		a = HeapAllocator{}
	}

	return &LimitAllocator{Allocator: a, Limit: limit}
}

func (la *LimitAllocator) Alloc(n int) ([]byte, error) {
	if n > la.Limit-la.inUse {
		return nil, errors.Newf("allocation of %d bytes exceeds limit (%d of %d in use)", n, la.inUse, la.Limit)
	}

	b, err := la.Allocator.Alloc(n)
	if err != nil {
		return nil, err
	}

	la.inUse += len(b)

	return b, nil
}

func (la *LimitAllocator) Free(b []byte) {
	la.inUse -= len(b)
	la.Allocator.Free(b)
}

// InUse returns the number of bytes currently handed out.
func (la *LimitAllocator) InUse() int {
	return la.inUse
}

// allocStore obtains a zeroed store of the given capacity.
func allocStore(a Allocator, capacity, stride uintptr) (store, error) {
	slots := capacity + scratchSlots
	if capacity == 0 || stride == 0 || slots > math.MaxInt/stride {
		return store{}, errors.Wrapf(ErrAllocation, "capacity %d with entry size %d overflows", capacity, stride)
	}

	n := int(slots * stride)
	buf, err := a.Alloc(n)
	if err != nil {
		return store{}, errors.WithSecondaryError(errors.Wrapf(ErrAllocation, "allocating %d bytes", n), err)
	}

	if len(buf) != n {
		a.Free(buf)
		return store{}, errors.Wrapf(ErrAllocation, "allocator returned %d bytes, want %d", len(buf), n)
	}

	return newStore(buf, capacity, stride), nil
}
