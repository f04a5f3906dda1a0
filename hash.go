package robinhood

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// HashFunc hashes the bytes of a key.
// Keys that compare equal must hash equally.
type HashFunc func(key []byte) uint64

// CompareFunc compares two keys and returns 0 iff they are equal.
type CompareFunc func(a, b []byte) int

const (
	fnvOffset64 = 0xcbf29ce484222325
	fnvPrime64  = 0x100000001b3
)

// FNV1a64 is the default hash function.
func FNV1a64(key []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range key {
		h = (h ^ uint64(c)) * fnvPrime64
	}

	return h
}

// XXHash hashes the key with xxHash64.
// It's noticeably faster than FNV1a64 for keys longer than a few words.
func XXHash(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// IntegerHash mixes a 4-byte little-endian integer key with the splitmix64
// finalizer. Only the first 4 bytes of the key are hashed, shorter keys are
// zero extended.
func IntegerHash(key []byte) uint64 {
	var b [4]byte
	copy(b[:], key)

	x := uint64(binary.LittleEndian.Uint32(b[:]))
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb

	return x ^ (x >> 31)
}

// StringHash is the djb2 hash. It stops at the first NUL byte, so it suits
// NUL-padded fixed-size string keys.
func StringHash(key []byte) uint64 {
	h := uint64(5381)
	for _, c := range key {
		if c == 0 {
			break
		}

		h = (h << 5) + h + uint64(c)
	}

	return h
}

func (t *Table) hash(key []byte) uint64 {
	if t.hashFunc != nil {
		return t.hashFunc(key)
	}

	return FNV1a64(key)
}

func (t *Table) equal(a, b []byte) bool {
	if t.compareFunc != nil {
		return t.compareFunc(a, b) == 0
	}

	return bytes.Equal(a, b)
}
