package deltapack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackDeltaUnpackDeltaRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		values []uint32
	}{
		{"empty", nil},
		{"single", []uint32{42}},
		{"monotone", []uint32{10, 15, 15, 20, 1000}},
		{"non-monotone", []uint32{100, 90, 95, 10, 500}},
		{"full block", fullRun(BlockSize)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scratch := make([]uint32, BlockSize)
			packed := PackDelta(nil, tc.values, scratch)

			got := UnpackDelta(nil, packed, scratch)
			assert.Equal(t, tc.values, got)
		})
	}
}

func fullRun(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i * 7 % 251)
	}
	return out
}

func TestPackDeltaRejectsOversizedBlock(t *testing.T) {
	values := make([]uint32, BlockSize+1)
	scratch := make([]uint32, len(values))
	assert.Panics(t, func() {
		PackDelta(nil, values, scratch)
	})
}

func TestUnpackDeltaRejectsTruncatedHeader(t *testing.T) {
	assert.Panics(t, func() {
		UnpackDelta(nil, []byte{1, 2}, make([]uint32, BlockSize))
	})
}

func TestPackDeltaReusesDstCapacity(t *testing.T) {
	scratch := make([]uint32, BlockSize)
	dst := make([]byte, 0, 4096)
	packed := PackDelta(dst, []uint32{1, 2, 3}, scratch)
	require.LessOrEqual(t, len(packed), cap(dst))

	got := UnpackDelta(nil, packed, scratch)
	assert.Equal(t, []uint32{1, 2, 3}, got)
}

func TestPackDeltaHandlesWideExceptions(t *testing.T) {
	values := []uint32{0, 1, 2, 1 << 20, 3, 4}
	scratch := make([]uint32, len(values))
	packed := PackDelta(nil, values, scratch)

	got := UnpackDelta(nil, packed, scratch)
	assert.Equal(t, values, got)
}
