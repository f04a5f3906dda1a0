//go:build unix

package robinhood

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// MmapAllocator places buffers in anonymous private mappings outside of the
// Go heap. Entries never hold Go pointers, so the garbage collector doesn't
// need to see them. Mappings are page aligned and zero filled by the kernel.
type MmapAllocator struct{}

func (MmapAllocator) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.Newf("mmap of %d bytes", n)
	}

	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %d bytes", n)
	}

	return b, nil
}

// Free unmaps b. Unmapping a buffer obtained from Alloc can't fail, so the
// error is dropped.
func (MmapAllocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}

	_ = unix.Munmap(b)
}
