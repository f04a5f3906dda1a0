package robinhood

import "github.com/cockroachdb/errors"

var (
	// ErrAllocation is returned when a backing buffer can't be obtained,
	// either because the allocator failed or because the requested size
	// doesn't fit into the address space.
	ErrAllocation = errors.New("robinhood: allocation failed")

	// ErrSizeMismatch is returned when a key or value doesn't have the size
	// the table was created with.
	ErrSizeMismatch = errors.New("robinhood: key or value size mismatch")

	ErrInvalidConfig = errors.New("robinhood: invalid configuration")

	// ErrDestroyed is returned by mutating calls on a destroyed table.
	ErrDestroyed = errors.New("robinhood: table is destroyed")
)
