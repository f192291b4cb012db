package phmmscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterMatrixGrowToSizesRowsForAllPrecisions(t *testing.T) {
	fx := NewFilterMatrix()
	fx.GrowTo(12, 5)
	assert.Equal(t, 12, fx.M())
	assert.Equal(t, 5, fx.L())

	for i := 0; i <= 5; i++ {
		assert.GreaterOrEqual(t, len(fx.ByteRow(i)), 13)
		assert.GreaterOrEqual(t, len(fx.WordRow(i)), 13*numDPStates)
		assert.GreaterOrEqual(t, len(fx.FloatRow(i)), 13*numDPStates)
	}
}

func TestFilterMatrixGrowToReusesBackingStorageWhenShrinking(t *testing.T) {
	fx := NewFilterMatrix()
	fx.GrowTo(100, 50)
	row := fx.ByteRow(0)
	fx.GrowTo(10, 5)
	assert.Equal(t, &row[0], &fx.ByteRow(0)[0], "shrinking must not reallocate the backing row")
}

func TestFilterMatrixResetClearsLogicalSizeOnly(t *testing.T) {
	fx := NewFilterMatrix()
	fx.GrowTo(20, 10)
	fx.Reset()
	assert.Equal(t, 0, fx.M())
	assert.Equal(t, 0, fx.L())
}

func TestGrowCapacityIsGeometric(t *testing.T) {
	got := growCapacity(10, 11)
	assert.GreaterOrEqual(t, got, 15, "growth must be at least 1.5x when the requirement barely exceeds capacity")

	assert.Equal(t, 10, growCapacity(10, 5), "growCapacity must not shrink when already sufficient")
	assert.Equal(t, 100, growCapacity(0, 100), "growCapacity must satisfy a cold request exactly")
}
