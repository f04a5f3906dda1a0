package robinhood

import "unsafe"

// Two slots past the end of the table are scratch space for displacement:
// spare holds the candidate being inserted, temp is used for swapping.
const scratchSlots = 2

// store is the flat entry array of a table.
//
// Every entry is `stride` bytes:
//
//	[ displacement (one word) | key (keySize) | value (valueSize) | padding ]
//
// The displacement is the probe distance plus one, so a zero word marks an
// empty slot. The buffer is allocated zeroed, so every slot starts empty.
type store struct {
	buf []byte

	capacity  uintptr
	mask      uintptr
	stride    uintptr
	threshold uintptr
}

func newStore(buf []byte, capacity, stride uintptr) store {
	return store{
		buf:      buf,
		capacity: capacity,
		mask:     capacity - 1,
		stride:   stride,
	}
}

func (s *store) entry(i uintptr) []byte {
	off := i * s.stride
	return s.buf[off : off+s.stride : off+s.stride]
}

func (s *store) dist(i uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(&s.buf[i*s.stride]))
}

func (s *store) setDist(i, d uintptr) {
	*(*uintptr)(unsafe.Pointer(&s.buf[i*s.stride])) = d
}

func (s *store) spare() uintptr { return s.capacity }
func (s *store) temp() uintptr  { return s.capacity + 1 }

// swap exchanges the entries i and j through the temp slot.
func (s *store) swap(i, j uintptr) {
	t := s.entry(s.temp())
	copy(t, s.entry(i))
	copy(s.entry(i), s.entry(j))
	copy(s.entry(j), t)
}

func (s *store) move(dst, src uintptr) {
	copy(s.entry(dst), s.entry(src))
}

func (s *store) erase(i uintptr) {
	clear(s.entry(i))
}

// place inserts the candidate held in the spare slot, starting the walk at
// slot i. The spare's displacement must be the distance of slot i from the
// candidate's home slot plus one.
//
// At every occupied slot a richer resident (smaller displacement) swaps
// places with the candidate and continues the walk in its stead. The walk
// ends at the first empty slot.
func (s *store) place(i uintptr) {
	spare := s.spare()

	for {
		d := s.dist(i)
		if d == 0 {
			s.move(i, spare)
			return
		}

		if s.dist(spare) > d {
			s.swap(i, spare)
		}

		s.setDist(spare, s.dist(spare)+1)
		i = (i + 1) & s.mask
	}
}

// shiftBack removes the entry at slot i by moving the rest of its run back
// by one slot. The run ends at an empty slot or at an entry that already
// sits in its home slot.
func (s *store) shiftBack(i uintptr) {
	for {
		next := (i + 1) & s.mask

		d := s.dist(next)
		if d <= 1 {
			break
		}

		s.move(i, next)
		s.setDist(i, d-1)
		i = next
	}

	s.erase(i)
}
