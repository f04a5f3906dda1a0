package robinhood

import (
	"iter"
	"unsafe"
)

// Scalar are the fixed-size types without pointers that can be stored in a
// table as raw bytes.
type Scalar interface {
	~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 | ~complex64 | ~complex128
}

// Map is a typed view over a Table. Keys are compared by their bytes, so
// for floating point keys +0 and -0 are distinct and NaN equals itself.
type Map[K, V Scalar] struct {
	t *Table
}

// Returns a new map. The options are those of New.
func NewMap[K, V Scalar](capacity int, opts ...Option) (*Map[K, V], error) {
	var (
		k K
		v V
	)

	t, err := New(int(unsafe.Sizeof(k)), int(unsafe.Sizeof(v)), capacity, opts...)
	if err != nil {
		return nil, err
	}

	return &Map[K, V]{t: t}, nil
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	var v V

	b, ok := m.t.Get(bytesOf(&key))
	if !ok {
		return v, false
	}

	// The value isn't necessarily aligned for V inside the entry.
	copy(bytesOf(&v), b)

	return v, true
}

func (m *Map[K, V]) Set(key K, value V) error {
	return m.t.Set(bytesOf(&key), bytesOf(&value))
}

// Deletes a key from the map, returns whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	return m.t.Remove(bytesOf(&key))
}

func (m *Map[K, V]) Len() int {
	return m.t.Len()
}

func (m *Map[K, V]) Resize(minCapacity int) error {
	return m.t.Resize(minCapacity)
}

func (m *Map[K, V]) Stats() Stats {
	return m.t.Stats()
}

func (m *Map[K, V]) Destroy() {
	m.t.Destroy()
}

// All iterates over the map in slot order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for kb, vb := range m.t.All() {
			var (
				k K
				v V
			)

			copy(bytesOf(&k), kb)
			copy(bytesOf(&v), vb)

			if !yield(k, v) {
				return
			}
		}
	}
}
