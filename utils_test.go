package robinhood

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextPowerOf2(t *testing.T) {
	tests := []struct {
		input uint64
		want  uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{10, 16},
		{16, 16},
		{17, 32},
		{1 << 40, 1 << 40},
		{1<<40 + 1, 1 << 41},
		{1<<63 + 1, 0},
	}

	for _, tt := range tests {
		require.Equalf(t, tt.want, NextPowerOf2(tt.input), "NextPowerOf2(%d)", tt.input)
	}
}

func TestPrevPowerOf2(t *testing.T) {
	require.Equal(t, uint64(0), PrevPowerOf2(0))
	require.Equal(t, uint64(1), PrevPowerOf2(1))
	require.Equal(t, uint64(16), PrevPowerOf2(31))
	require.Equal(t, uint64(32), PrevPowerOf2(32))
}

func TestNormalizeCapacity(t *testing.T) {
	tests := []struct {
		name string
		hint int
		want uintptr
	}{
		{"negative", -1, 16},
		{"zero", 0, 16},
		{"below minimum", 10, 16},
		{"minimum", 16, 16},
		{"above minimum", 20, 32},
		{"large", 1000, 1024},
		{"too large", maxCapacity + 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, normalizeCapacity(tt.hint))
		})
	}
}

func TestEntryStride(t *testing.T) {
	for _, sizes := range [][2]uintptr{{1, 0}, {4, 4}, {8, 8}, {3, 5}, {16, 1}, {7, 0}} {
		stride := entryStride(sizes[0], sizes[1])

		require.Zero(t, stride%wordSize)
		require.GreaterOrEqual(t, stride, wordSize+sizes[0]+sizes[1])
		require.Less(t, stride, wordSize+sizes[0]+sizes[1]+wordSize)
	}
}

func TestCapacityFromSize(t *testing.T) {
	stride := entryStride(4, 4)

	tests := []struct {
		name string
		size uintptr
		want int
	}{
		{"zero", 0, 0},
		{"less than minimal table", (minCapacity+2)*stride - 1, 0},
		{"exactly minimal table", (minCapacity + 2) * stride, 16},
		{"capacity without scratch slots", 32 * stride, 16},
		{"32 slots", 34 * stride, 32},
		{"1MB", 1024 * 1024, int(PrevPowerOf2(uint64(1024*1024/stride - 2)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CapacityFromSize(4, 4, tt.size))
		})
	}

	t.Run("usage with New", func(t *testing.T) {
		capacity := CapacityFromSize(4, 4, 1024*stride)
		require.Equal(t, 512, capacity)

		la := NewLimitAllocator(nil, int(1024*stride))
		tt, err := New(4, 4, capacity, WithAllocator(la))
		require.NoError(t, err)
		require.Equal(t, 512, tt.Cap())
		require.LessOrEqual(t, la.InUse(), la.Limit)
	})
}
