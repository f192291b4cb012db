package phmmscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparseMatrixResetSizesMainForNCell(t *testing.T) {
	sm := NewSparseMask()
	sm.Reset(10, 3)
	sm.AddRow(1, []int32{1, 2, 3})
	sm.AddRow(2, []int32{})
	sm.AddRow(3, []int32{5})
	sm.Finalize()

	mx := NewSparseMatrix()
	mx.Reset(sm)

	assert.Same(t, sm, mx.Mask())
	// row 1 has 3 cells, row 3 has 1 cell: indices within range must not panic.
	assert.Len(t, mx.Main(1, 2), numMainStates)
	assert.Len(t, mx.Main(3, 0), numMainStates)
	assert.Len(t, mx.Specials(1), numSpecialCells)
}

func TestSparseMatrixMainWritesAreIndependentPerCell(t *testing.T) {
	sm := NewSparseMask()
	sm.Reset(5, 2)
	sm.AddRow(1, []int32{1, 2})
	sm.AddRow(2, []int32{3})
	sm.Finalize()

	mx := NewSparseMatrix()
	mx.Reset(sm)

	mx.Main(1, 0)[mainML] = 1.5
	mx.Main(1, 1)[mainML] = 2.5
	mx.Main(2, 0)[mainML] = 3.5

	assert.Equal(t, 1.5, mx.Main(1, 0)[mainML])
	assert.Equal(t, 2.5, mx.Main(1, 1)[mainML])
	assert.Equal(t, 3.5, mx.Main(2, 0)[mainML])
}
