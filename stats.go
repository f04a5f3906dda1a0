package robinhood

type Stats struct {
	Size      int
	Capacity  int
	Threshold int
	Load      float32

	// Probe distances of the entries, 0 for an entry in its home slot.
	MaxProbe  int
	MeanProbe float32
}

func (t *Table) Stats() Stats {
	s := Stats{
		Size:      int(t.size),
		Capacity:  int(t.capacity),
		Threshold: int(t.threshold),
	}

	if t.capacity == 0 {
		return s
	}

	s.Load = float32(t.size) / float32(t.capacity)

	var total uintptr
	for i := uintptr(0); i < t.capacity; i++ {
		d := t.dist(i)
		if d == 0 {
			continue
		}

		total += d - 1
		s.MaxProbe = max(s.MaxProbe, int(d-1))
	}

	if t.size > 0 {
		s.MeanProbe = float32(total) / float32(t.size)
	}

	return s
}
