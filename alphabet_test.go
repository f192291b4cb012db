package phmmscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabetSizes(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Alphabet
		wantK   int
		wantKp  int
		wantStr string
	}{
		{"dna", NewDNAAlphabet, 4, 15, "DNA"},
		{"rna", NewRNAAlphabet, 4, 15, "RNA"},
		{"amino", NewAminoAlphabet, 20, 26, "amino"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := tc.build()
			assert.Equal(t, tc.wantK, a.K())
			assert.Equal(t, tc.wantKp, a.Kp())
			assert.Equal(t, tc.wantStr, a.Kind().String())
		})
	}
}

func TestAlphabetDigitizeCaseInsensitive(t *testing.T) {
	a := NewAminoAlphabet()
	upper, ok := a.Digitize('A')
	require.True(t, ok)
	lower, ok := a.Digitize('a')
	require.True(t, ok)
	assert.Equal(t, upper, lower)
}

func TestAlphabetDigitizeRejectsUnknown(t *testing.T) {
	a := NewDNAAlphabet()
	_, ok := a.Digitize('Q')
	assert.False(t, ok)
	_, ok = a.Digitize('-')
	assert.False(t, ok)
}

func TestAlphabetSymbolRoundTrip(t *testing.T) {
	a := NewAminoAlphabet()
	for x := 0; x < a.Kp(); x++ {
		sym := a.Symbol(x)
		idx, ok := a.Digitize(sym)
		require.True(t, ok)
		assert.Equal(t, x, idx)
	}
}

func TestDigitalSequenceSentinels(t *testing.T) {
	a := NewAminoAlphabet()
	dsq, err := a.DigitalSequence([]byte("ACDEFG"))
	require.NoError(t, err)
	assert.Equal(t, byte(digitalSentinel), byte(dsq[0]))
	assert.Equal(t, byte(digitalSentinel), byte(dsq[len(dsq)-1]))
	assert.Len(t, dsq, 8)
}

func TestDigitalSequenceRejectsInvalidByte(t *testing.T) {
	a := NewAminoAlphabet()
	_, err := a.DigitalSequence([]byte("AC1EFG"))
	assert.ErrorIs(t, err, ErrInvalidProfile)
}
