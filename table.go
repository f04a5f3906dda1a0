package robinhood

import (
	"iter"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const DefaultLoadFactor = 0.6

// DupFunc returns an owned copy of a key or value. The table copies the
// first keySize (or valueSize) bytes of the result into its slot and keeps
// no reference to the returned slice.
type DupFunc func(src []byte) []byte

// FreeFunc releases whatever memory the stored bytes of a key or value
// reference. It's called exactly once per duplicated key or value.
type FreeFunc func(stored []byte)

// Hooks are the ownership callbacks of keys and values that reference
// memory outside of the table.
//
// A dup hook without the matching free hook leaves the duplicate to the
// garbage collector.
type Hooks struct {
	KeyDup    DupFunc
	ValueDup  DupFunc
	KeyFree   FreeFunc
	ValueFree FreeFunc
}

type config struct {
	hashFunc    HashFunc
	compareFunc CompareFunc
	loadFactor  float64
	allocator   Allocator
	logger      *zap.Logger
}

type Option func(c *config)

// Override default hash function.
func WithHashFunc(f HashFunc) Option {
	return func(c *config) {
		c.hashFunc = f
	}
}

// Override default key comparison, which is byte equality.
func WithCompareFunc(f CompareFunc) Option {
	return func(c *config) {
		c.compareFunc = f
	}
}

// Sets the fraction of occupied slots at which the table doubles.
// Must be within (0, 1).
func WithLoadFactor(lf float64) Option {
	return func(c *config) {
		c.loadFactor = lf
	}
}

func WithAllocator(a Allocator) Option {
	return func(c *config) {
		c.allocator = a
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Table is an open addressing hash table with Robin Hood displacement over
// fixed-size byte keys and values.
//
// Entries live inline in a single flat buffer, no per-entry allocations are
// made. A Table isn't safe for concurrent use.
type Table struct {
	store

	size      uintptr
	keySize   uintptr
	valueSize uintptr

	hashFunc    HashFunc
	compareFunc CompareFunc
	hooks       Hooks

	loadFactor float64
	allocator  Allocator
	logger     *zap.Logger
}

// New returns a table for keys of keySize bytes and values of valueSize
// bytes. The capacity is rounded up to a power of two, and is at least 16.
func New(keySize, valueSize, capacity int, opts ...Option) (*Table, error) {
	return NewExtended(keySize, valueSize, capacity, Hooks{}, opts...)
}

// NewExtended is New with ownership hooks for keys and values.
func NewExtended(keySize, valueSize, capacity int, hooks Hooks, opts ...Option) (*Table, error) {
	c := config{
		loadFactor: DefaultLoadFactor,
		allocator:  HeapAllocator{},
	}

	for _, opt := range opts {
		opt(&c)
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	if keySize <= 0 || valueSize < 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "key size %d, value size %d", keySize, valueSize)
	}

	if !(c.loadFactor > 0 && c.loadFactor < 1) {
		return nil, errors.Wrapf(ErrInvalidConfig, "load factor %v is out of (0, 1)", c.loadFactor)
	}

	t := &Table{
		keySize:     uintptr(keySize),
		valueSize:   uintptr(valueSize),
		hashFunc:    c.hashFunc,
		compareFunc: c.compareFunc,
		hooks:       hooks,
		loadFactor:  c.loadFactor,
		allocator:   c.allocator,
		logger:      c.logger,
	}

	normalizedCapacity := normalizeCapacity(capacity)
	if normalizedCapacity == 0 {
		return nil, errors.Wrapf(ErrAllocation, "capacity %d is too large", capacity)
	}

	s, err := t.allocStore(normalizedCapacity)
	if err != nil {
		t.logger.Warn("failed to allocate table",
			zap.Uintptr("capacity", normalizedCapacity), zap.Error(err))

		return nil, err
	}

	t.store = s

	return t, nil
}

func (t *Table) allocStore(capacity uintptr) (store, error) {
	s, err := allocStore(t.allocator, capacity, entryStride(t.keySize, t.valueSize))
	if err != nil {
		return store{}, err
	}

	s.threshold = t.thresholdOf(capacity)

	return s, nil
}

func (t *Table) thresholdOf(capacity uintptr) uintptr {
	return uintptr(float64(capacity) * t.loadFactor)
}

func (t *Table) key(i uintptr) []byte {
	off := i*t.stride + wordSize
	return t.buf[off : off+t.keySize : off+t.keySize]
}

func (t *Table) value(i uintptr) []byte {
	off := i*t.stride + wordSize + t.keySize
	return t.buf[off : off+t.valueSize : off+t.valueSize]
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return int(t.size)
}

// Cap returns the number of slots, which is always a power of two.
func (t *Table) Cap() int {
	return int(t.capacity)
}

// Threshold returns the size at which the next insert grows the table.
func (t *Table) Threshold() int {
	return int(t.threshold)
}

func (t *Table) KeySize() int   { return int(t.keySize) }
func (t *Table) ValueSize() int { return int(t.valueSize) }

// lookup walks the probe sequence of key. It returns the slot holding the
// key, or the first slot at which the key could be inserted together with
// the displacement it would have there.
//
// The walk stops as soon as it reaches a slot whose resident is closer to
// its home than the key would be: had the key been inserted, it would have
// displaced that resident.
func (t *Table) lookup(key []byte) (i uintptr, d uintptr, found bool) {
	i = uintptr(t.hash(key)) & t.mask

	for d = 1; ; d++ {
		sd := t.dist(i)
		if sd == 0 || d > sd {
			return i, d, false
		}

		if t.equal(key, t.key(i)) {
			return i, d, true
		}

		i = (i + 1) & t.mask
	}
}

// Get returns the value stored for key. The returned slice aliases the
// table and is valid until the next mutating call.
func (t *Table) Get(key []byte) ([]byte, bool) {
	if t.size == 0 || uintptr(len(key)) != t.keySize {
		return nil, false
	}

	i, _, found := t.lookup(key)
	if !found {
		return nil, false
	}

	return t.value(i), true
}

// Has reports whether key is present.
func (t *Table) Has(key []byte) bool {
	_, ok := t.Get(key)
	return ok
}

// Set stores value for key, overwriting the value of an existing key.
// It grows the table first if it's at its threshold; if that fails the table
// is left unchanged and an ErrAllocation error is returned.
func (t *Table) Set(key, value []byte) error {
	if t.buf == nil {
		return ErrDestroyed
	}

	if uintptr(len(key)) != t.keySize || uintptr(len(value)) != t.valueSize {
		return errors.Wrapf(ErrSizeMismatch, "got key %d bytes and value %d bytes, want %d and %d",
			len(key), len(value), t.keySize, t.valueSize)
	}

	if t.size >= t.threshold {
		if err := t.resize(t.capacity << 1); err != nil {
			return err
		}
	}

	spare := t.spare()

	if t.hooks.ValueDup != nil {
		copy(t.value(spare), t.hooks.ValueDup(value))
	} else {
		copy(t.value(spare), value)
	}

	i, d, found := t.lookup(key)
	if found {
		if t.hooks.ValueFree != nil {
			t.hooks.ValueFree(t.value(i))
		}

		copy(t.value(i), t.value(spare))

		return nil
	}

	if t.hooks.KeyDup != nil {
		copy(t.key(spare), t.hooks.KeyDup(key))
	} else {
		copy(t.key(spare), key)
	}

	t.setDist(spare, d)
	t.place(i)
	t.size++

	return nil
}

// Remove deletes key and reports whether it was present. Following entries
// are shifted back, no tombstones are left behind.
func (t *Table) Remove(key []byte) bool {
	if t.size == 0 || uintptr(len(key)) != t.keySize {
		return false
	}

	i, _, found := t.lookup(key)
	if !found {
		return false
	}

	t.release(i)
	t.shiftBack(i)
	t.size--

	return true
}

// Resize rehashes the table into the smallest power of two capacity that is
// at least minCapacity and 16, and still holds every entry below the
// threshold. Resizing to the current capacity does nothing.
func (t *Table) Resize(minCapacity int) error {
	if t.buf == nil {
		return ErrDestroyed
	}

	capacity := normalizeCapacity(minCapacity)
	if capacity == 0 {
		return errors.Wrapf(ErrAllocation, "capacity %d is too large", minCapacity)
	}

	for t.thresholdOf(capacity) < t.size {
		capacity <<= 1
	}

	if capacity == t.capacity {
		return nil
	}

	return t.resize(capacity)
}

// resize moves every entry into a new store of the given capacity. Entries
// are relocated byte for byte, dup hooks aren't involved.
func (t *Table) resize(capacity uintptr) error {
	s, err := t.allocStore(capacity)
	if err != nil {
		t.logger.Warn("failed to resize table",
			zap.Uintptr("from", t.capacity),
			zap.Uintptr("to", capacity),
			zap.Uintptr("size", t.size),
			zap.Error(err),
		)

		return err
	}

	spare := s.spare()

	for i := uintptr(0); i < t.capacity; i++ {
		if t.dist(i) == 0 {
			continue
		}

		copy(s.entry(spare), t.entry(i))
		s.setDist(spare, 1)
		s.place(uintptr(t.hash(t.key(i))) & s.mask)
	}

	t.logger.Debug("resized table",
		zap.Uintptr("from", t.capacity),
		zap.Uintptr("to", capacity),
		zap.Uintptr("size", t.size),
	)

	t.allocator.Free(t.buf)
	t.store = s

	return nil
}

// release calls the free hooks on the entry in slot i.
func (t *Table) release(i uintptr) {
	if t.hooks.KeyFree != nil {
		t.hooks.KeyFree(t.key(i))
	}

	if t.hooks.ValueFree != nil {
		t.hooks.ValueFree(t.value(i))
	}
}

func (t *Table) releaseAll() {
	if t.hooks.KeyFree == nil && t.hooks.ValueFree == nil {
		return
	}

	for i := uintptr(0); i < t.capacity; i++ {
		if t.dist(i) != 0 {
			t.release(i)
		}
	}
}

// Reset removes every entry and keeps the capacity.
func (t *Table) Reset() {
	if t.buf == nil {
		return
	}

	t.releaseAll()
	clear(t.buf)
	t.size = 0
}

// Destroy frees every entry and releases the buffer. A destroyed table
// holds nothing and refuses writes.
func (t *Table) Destroy() {
	if t.buf == nil {
		return
	}

	t.releaseAll()
	t.allocator.Free(t.buf)

	t.logger.Debug("destroyed table",
		zap.Uintptr("capacity", t.capacity),
		zap.Uintptr("size", t.size),
	)

	t.store = store{}
	t.size = 0
}

// All iterates over the entries in slot order. The table must not be
// modified during iteration.
func (t *Table) All() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for i := uintptr(0); i < t.capacity; i++ {
			if t.dist(i) == 0 {
				continue
			}

			if !yield(t.key(i), t.value(i)) {
				return
			}
		}
	}
}
