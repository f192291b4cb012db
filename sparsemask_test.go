package phmmscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparseMaskAddRowFinalizeSegments(t *testing.T) {
	sm := NewSparseMask()
	sm.Reset(20, 6)
	sm.AddRow(1, []int32{1, 2})
	sm.AddRow(2, []int32{2, 3})
	sm.AddRow(3, nil)
	sm.AddRow(4, []int32{4})
	sm.AddRow(5, []int32{4, 5})
	sm.AddRow(6, nil)
	sm.Finalize()

	assert.Equal(t, []SparseSegment{{Ia: 1, Ib: 2}, {Ia: 4, Ib: 5}}, sm.Segments())
	assert.Equal(t, 5, sm.NCell())
}

func TestSparseMaskContainsUsesBinarySearch(t *testing.T) {
	sm := NewSparseMask()
	sm.Reset(20, 1)
	sm.AddRow(1, []int32{2, 5, 9, 14})
	sm.Finalize()

	assert.True(t, sm.Contains(1, 5))
	assert.True(t, sm.Contains(1, 14))
	assert.False(t, sm.Contains(1, 6))
	assert.False(t, sm.Contains(1, 0))
}

func TestSparseMaskSupersetUnderDetectsMissingCell(t *testing.T) {
	big := NewSparseMask()
	big.Reset(10, 2)
	big.AddRow(1, []int32{1, 2, 3})
	big.AddRow(2, []int32{1})
	big.Finalize()

	small := NewSparseMask()
	small.Reset(10, 2)
	small.AddRow(1, []int32{2})
	small.AddRow(2, []int32{1, 5}) // 5 not in big's row 2
	small.Finalize()

	assert.True(t, big.SupersetUnder(big))
	assert.False(t, big.SupersetUnder(small), "small retains node 5 on row 2 that big does not")
}

func TestSparseMaskResetReusesBackingRows(t *testing.T) {
	sm := NewSparseMask()
	sm.Reset(10, 100)
	sm.AddRow(1, []int32{1, 2, 3})
	sm.Reset(10, 5) // shrink
	assert.Equal(t, 0, sm.NCell(), "Reset must clear ncell even when reusing storage")
	assert.Empty(t, sm.Row(1))
}
