package phmmscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpSparseMaskRoundTrip(t *testing.T) {
	sm := NewSparseMask()
	sm.Reset(20, 5)
	sm.AddRow(1, []int32{1, 2, 3, 10})
	sm.AddRow(2, nil)
	sm.AddRow(3, []int32{5, 6, 7})
	sm.AddRow(4, []int32{8})
	sm.AddRow(5, []int32{})
	sm.Finalize()

	dump := DumpSparseMask(sm)
	require.NotEmpty(t, dump)

	loaded, err := LoadSparseMaskDump(dump)
	require.NoError(t, err)

	assert.Equal(t, []SparseSegment{{Ia: 1, Ib: 3}, {Ia: 10, Ib: 10}}, loaded[1])
	assert.Equal(t, []SparseSegment{{Ia: 5, Ib: 7}}, loaded[3])
	assert.Equal(t, []SparseSegment{{Ia: 8, Ib: 8}}, loaded[4])
	_, hasEmptyRow := loaded[2]
	assert.False(t, hasEmptyRow, "rows with no retained cells are not encoded at all")
}

func TestLoadSparseMaskDumpRejectsTruncatedInput(t *testing.T) {
	_, err := LoadSparseMaskDump([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestRowRunsCollapsesConsecutiveIndices(t *testing.T) {
	runs := rowRuns([]int32{1, 2, 3, 7, 9, 10})
	assert.Equal(t, []SparseSegment{{Ia: 1, Ib: 3}, {Ia: 7, Ib: 7}, {Ia: 9, Ib: 10}}, runs)
}

func TestRowRunsEmptyRow(t *testing.T) {
	assert.Empty(t, rowRuns(nil))
}
