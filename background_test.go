package phmmscan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformBackgroundFrequenciesSumToOne(t *testing.T) {
	a := NewAminoAlphabet()
	bg := UniformBackground(a)
	var sum float64
	for x := 0; x < a.K(); x++ {
		sum += bg.Freq(x)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestNewBackgroundPanicsOnLengthMismatch(t *testing.T) {
	a := NewAminoAlphabet()
	assert.Panics(t, func() { NewBackground(a, []float64{0.5, 0.5}) })
}

func TestNullOneScoreZeroLength(t *testing.T) {
	a := NewAminoAlphabet()
	bg := UniformBackground(a)
	assert.Equal(t, 0.0, bg.NullOneScore(0))
}

func TestNullOneScoreMatchesClosedForm(t *testing.T) {
	a := NewAminoAlphabet()
	bg := UniformBackground(a)
	L := 37
	got := bg.NullOneScore(L)
	p1 := float64(L) / float64(L+1)
	want := float64(L)*math.Log(p1) + math.Log(1-p1)
	assert.InDelta(t, want, got, 1e-9)
	assert.Equal(t, L, bg.Length())
}

func TestFreqOutOfRangeIsZero(t *testing.T) {
	a := NewAminoAlphabet()
	bg := UniformBackground(a)
	assert.Equal(t, 0.0, bg.Freq(-1))
	assert.Equal(t, 0.0, bg.Freq(a.K()+5))
	require.True(t, math.IsInf(bg.LogFreq(-1), -1))
}
