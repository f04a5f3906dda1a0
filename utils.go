package robinhood

import (
	"math/bits"
	"unsafe"
)

const (
	// wordSize is the alignment of every entry and the size of the
	// displacement word at the head of it.
	wordSize = unsafe.Sizeof(uintptr(0))

	minCapacity = 16
)

// maxCapacity is the largest capacity whose slot index still fits an int.
const maxCapacity = 1 << (bits.UintSize - 2)

// Returns the next power of 2 for the given value `v`.
// Values that would overflow return 0.
func NextPowerOf2(v uint64) uint64 {
	if v <= 1 {
		return 1
	}

	n := bits.Len64(v - 1)
	if n >= 64 {
		return 0
	}

	return uint64(1) << n
}

// Returns the largest power of 2 that is less than or equal to `v`, or 0.
func PrevPowerOf2(v uint64) uint64 {
	if v == 0 {
		return 0
	}

	return uint64(1) << (bits.Len64(v) - 1)
}

// Estimates capacity (number of slots) from the given memory size in bytes.
// The result is the largest valid capacity whose buffer, scratch slots
// included, fits in `size`, or 0 if not even the minimal table fits.
func CapacityFromSize(keySize, valueSize int, size uintptr) int {
	if keySize < 0 || valueSize < 0 {
		return 0
	}

	stride := entryStride(uintptr(keySize), uintptr(valueSize))
	slots := size / stride
	if slots < minCapacity+2 {
		return 0
	}

	return int(min(PrevPowerOf2(uint64(slots-2)), maxCapacity))
}

// normalizeCapacity rounds `hint` up to a valid capacity.
// Returns 0 if `hint` is beyond the maximum capacity.
func normalizeCapacity(hint int) uintptr {
	if hint <= minCapacity {
		return minCapacity
	}

	if hint > maxCapacity {
		return 0
	}

	return uintptr(NextPowerOf2(uint64(hint)))
}

func entryStride(keySize, valueSize uintptr) uintptr {
	return alignUp(wordSize+keySize+valueSize, wordSize)
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// wordsAsBytes reinterprets the first `n` bytes of `words` as a byte slice.
//
//go:nocheckptr
func wordsAsBytes(words []uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), n)
}

// bytesOf returns the memory of `*v` as a byte slice.
func bytesOf[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}
