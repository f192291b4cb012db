package phmmscan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteifySaturatesAtFloor(t *testing.T) {
	assert.Equal(t, byte(0), byteify(math.Inf(-1)))
	assert.Equal(t, byte(0), byteify(byteSaturationFloor()-10))
	assert.Equal(t, byte(byteSaturationMax), byteify(1000))
}

func TestByteifyMonotonic(t *testing.T) {
	prev := byteify(-20)
	for s := -19.0; s <= 5; s += 1.0 {
		cur := byteify(s)
		assert.GreaterOrEqual(t, cur, prev, "byteify must be non-decreasing in score")
		prev = cur
	}
}

func TestWordifySaturatesBothEnds(t *testing.T) {
	assert.Equal(t, int16(wordSaturationMin), wordify(math.Inf(-1)))
	assert.Equal(t, int16(wordSaturationMax), wordify(1e6))
	assert.Equal(t, int16(wordSaturationMin), wordify(-1e6))
}

func TestFloatifyIsRawOddsRatio(t *testing.T) {
	assert.Equal(t, float32(0), floatify(math.Inf(-1)))
	assert.InDelta(t, 1.0, float64(floatify(0)), 1e-6)
	assert.InDelta(t, math.E, float64(floatify(1)), 1e-5)
}

func TestDeriveSSVInvariantI2(t *testing.T) {
	// I2: sbv is rbv - bias read as a signed byte, so a byte equal to the
	// bias (rbv==bias) maps to signed 0 at every bias.
	for bias := byte(0); bias < 250; bias += 37 {
		got := deriveSSV(bias, bias)
		assert.Equal(t, byte(0), got, "bias=%d", bias)
	}
}

func TestSubSatU8Floors(t *testing.T) {
	assert.Equal(t, byte(0), subSatU8(5, 10))
	assert.Equal(t, byte(5), subSatU8(10, 5))
}

func TestSSVBiasTracksMaxAbsScore(t *testing.T) {
	b1 := ssvBias(2.0)
	b2 := ssvBias(4.0)
	assert.Greater(t, b2, b1)
}
