package phmmscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fullSparseMask retains every (i,k) cell, so the sparse DP operations
// become directly comparable to the dense ReferenceDP oracle (spec.md §8's
// cross-check properties assume no cell has been pruned away).
func fullSparseMask(m, l int) *SparseMask {
	sm := NewSparseMask()
	sm.Reset(m, l)
	ks := make([]int32, m)
	for k := 0; k < m; k++ {
		ks[k] = int32(k + 1)
	}
	for i := 1; i <= l; i++ {
		sm.AddRow(i, ks)
	}
	sm.Finalize()
	return sm
}

func TestSparseViterbiMatchesReferenceViterbi(t *testing.T) {
	gp := newToyProfile(8)
	dsq := toyDigitalSequence(gp)
	l := len(dsq) - 2
	sm := fullSparseMask(gp.M(), l)
	mx := NewSparseMatrix()

	sparseScore, strace := SparseViterbi(dsq, gp, sm, mx)
	refScore, rtrace := ReferenceViterbi(dsq, gp)

	assert.InDelta(t, refScore, sparseScore, 1e-6, "SparseViterbi and ReferenceViterbi must agree on the optimal score")
	assert.InDelta(t, refScore, strace.Score(gp, dsq), 1e-6, "the sparse trace's own recomputed score must match the reported optimum")
	assert.InDelta(t, refScore, rtrace.Score(gp, dsq), 1e-6, "the reference trace's own recomputed score must match the reported optimum")
}

func TestSparseForwardMatchesReferenceForward(t *testing.T) {
	gp := newToyProfile(8)
	dsq := toyDigitalSequence(gp)
	l := len(dsq) - 2
	sm := fullSparseMask(gp.M(), l)
	mx := NewSparseMatrix()

	sparseTotal := SparseForward(dsq, gp, sm, mx)
	refTotal := ReferenceForward(dsq, gp)

	assert.InDelta(t, refTotal, sparseTotal, 1e-3)
}

func TestSparseForwardAgreesWithSparseBackward(t *testing.T) {
	// spec.md §8 S3: Forward and Backward must agree on the total score
	// of the same sequence/profile/mask to within 1e-3 nats.
	gp := newToyProfile(10)
	dsq := toyDigitalSequence(gp)
	l := len(dsq) - 2
	sm := fullSparseMask(gp.M(), l)

	fmx := NewSparseMatrix()
	fwdTotal := SparseForward(dsq, gp, sm, fmx)

	bmx := NewSparseMatrix()
	bwdTotal := SparseBackward(dsq, gp, sm, bmx)

	assert.InDelta(t, fwdTotal, bwdTotal, 1e-3)
}

func TestSparseViterbiNeverExceedsSparseForward(t *testing.T) {
	// The single best path can never outscore the sum over all paths.
	gp := newToyProfile(9)
	dsq := toyDigitalSequence(gp)
	l := len(dsq) - 2
	sm := fullSparseMask(gp.M(), l)

	vScore, _ := SparseViterbi(dsq, gp, sm, NewSparseMatrix())
	fScore := SparseForward(dsq, gp, sm, NewSparseMatrix())

	assert.LessOrEqual(t, vScore, fScore+1e-6)
}

func TestReferenceBackwardMatchesReferenceForward(t *testing.T) {
	gp := newToyProfile(7)
	dsq := toyDigitalSequence(gp)

	fwd := ReferenceForward(dsq, gp)
	bwd := ReferenceBackward(dsq, gp)

	assert.InDelta(t, fwd, bwd, 1e-3)
}

func TestSparseDecodingProducesBoundedPosteriors(t *testing.T) {
	gp := newToyProfile(8)
	dsq := toyDigitalSequence(gp)
	l := len(dsq) - 2
	sm := fullSparseMask(gp.M(), l)

	fmx := NewSparseMatrix()
	total := SparseForward(dsq, gp, sm, fmx)
	bmx := NewSparseMatrix()
	SparseBackward(dsq, gp, sm, bmx)

	decoded := SparseDecoding(sm, fmx, bmx, total)
	require := assert.New(t)
	require.NotNil(decoded)
	for _, step := range decoded.Steps {
		require.GreaterOrEqual(step.Posterior, -1e-9)
		require.LessOrEqual(step.Posterior, 1+1e-6)
	}
}

func TestSparseMaskSupersetUnderIsReflexive(t *testing.T) {
	gp := newToyProfile(6)
	dsq := toyDigitalSequence(gp)
	l := len(dsq) - 2
	sm := fullSparseMask(gp.M(), l)
	assert.True(t, sm.SupersetUnder(sm))
}
