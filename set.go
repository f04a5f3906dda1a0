package robinhood

import "unsafe"

// Set is a set of scalar keys. It's a Table with zero-size values, so an
// entry is just the displacement word and the key.
type Set[K Scalar] struct {
	t *Table
}

func NewSet[K Scalar](capacity int, opts ...Option) (*Set[K], error) {
	var k K

	t, err := New(int(unsafe.Sizeof(k)), 0, capacity, opts...)
	if err != nil {
		return nil, err
	}

	return &Set[K]{t: t}, nil
}

func (s *Set[K]) Has(key K) bool {
	return s.t.Has(bytesOf(&key))
}

// Puts a key in the set.
// Returns whether the key is new.
func (s *Set[K]) Put(key K) (bool, error) {
	n := s.t.Len()
	if err := s.t.Set(bytesOf(&key), nil); err != nil {
		return false, err
	}

	return s.t.Len() > n, nil
}

func (s *Set[K]) Delete(key K) bool {
	return s.t.Remove(bytesOf(&key))
}

func (s *Set[K]) Len() int {
	return s.t.Len()
}

func (s *Set[K]) Reset() {
	s.t.Reset()
}

func (s *Set[K]) Destroy() {
	s.t.Destroy()
}
