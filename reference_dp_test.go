package phmmscan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferenceViterbiSingleResidueSingleNode(t *testing.T) {
	gp := newToyProfile(1)
	dsq := toyDigitalSequence(gp) // len == 3: sentinel, one residue, sentinel

	score, tr := ReferenceViterbi(dsq, gp)
	assert.False(t, math.IsInf(score, 0))
	assert.NotEmpty(t, tr.Steps)
	assert.InDelta(t, score, tr.Score(gp, dsq), 1e-9)
}

func TestReferenceForwardSingleResidue(t *testing.T) {
	gp := newToyProfile(1)
	dsq := toyDigitalSequence(gp)
	total := ReferenceForward(dsq, gp)
	assert.False(t, math.IsInf(total, 0))
}

func TestReferenceViterbiNeverExceedsReferenceForward(t *testing.T) {
	gp := newToyProfile(8)
	dsq := toyDigitalSequence(gp)
	v, _ := ReferenceViterbi(dsq, gp)
	f := ReferenceForward(dsq, gp)
	assert.LessOrEqual(t, v, f+1e-6)
}

func TestNewReferenceDPAllocatesAllCellsNegInf(t *testing.T) {
	gp := newToyProfile(3)
	rd := NewReferenceDP(gp, 4)
	for i := 0; i <= 4; i++ {
		for k := 0; k <= gp.M(); k++ {
			for s := 0; s < refNumStates; s++ {
				assert.True(t, math.IsInf(rd.cells[i][k][s], -1))
				assert.Equal(t, int8(-1), rd.ptrs[i][k][s])
			}
		}
	}
}
