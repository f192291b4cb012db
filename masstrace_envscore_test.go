package phmmscan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildFullDP(gp *GenericProfile, dsq []int) (sm *SparseMask, fmx, bmx *SparseMatrix, total float64) {
	l := len(dsq) - 2
	sm = fullSparseMask(gp.M(), l)
	fmx = NewSparseMatrix()
	total = SparseForward(dsq, gp, sm, fmx)
	bmx = NewSparseMatrix()
	SparseBackward(dsq, gp, sm, bmx)
	return sm, fmx, bmx, total
}

func TestMassTraceUpStopsAtSequenceStart(t *testing.T) {
	gp := newToyProfile(6)
	dsq := toyDigitalSequence(gp)
	sm, fmx, bmx, total := buildFullDP(gp, dsq)

	sqFrom, _ := MassTraceUp(sm, fmx, bmx, total, 1, 1, massTraceEpsilon)
	assert.Equal(t, 1, sqFrom, "the envelope cannot extend before the first sequence position")
}

func TestMassTraceDownStopsAtSequenceEnd(t *testing.T) {
	gp := newToyProfile(6)
	dsq := toyDigitalSequence(gp)
	l := len(dsq) - 2
	sm, fmx, bmx, total := buildFullDP(gp, dsq)

	sqTo, _ := MassTraceDown(sm, fmx, bmx, total, l, gp.M(), massTraceEpsilon)
	assert.Equal(t, l, sqTo, "the envelope cannot extend past the last sequence position")
}

func TestMassTraceExpandsAroundAnchor(t *testing.T) {
	gp := newToyProfile(12)
	dsq := toyDigitalSequence(gp)
	l := len(dsq) - 2
	sm, fmx, bmx, total := buildFullDP(gp, dsq)

	anchorI := l / 2
	sqFrom, _ := MassTraceUp(sm, fmx, bmx, total, anchorI, anchorI, massTraceEpsilon)
	sqTo, _ := MassTraceDown(sm, fmx, bmx, total, anchorI, anchorI, massTraceEpsilon)

	assert.LessOrEqual(t, sqFrom, anchorI)
	assert.GreaterOrEqual(t, sqTo, anchorI)
}

func TestApproxEnvScoreAgreesWithSparseEnvScore(t *testing.T) {
	// spec.md §8 S4: approximate and exact envelope scores must agree to
	// within about 1 nat for a clean, unambiguous domain.
	gp := newToyProfile(10)
	dsq := toyDigitalSequence(gp)
	l := len(dsq) - 2
	sm, fmx, bmx, total := buildFullDP(gp, dsq)

	d := Domain{SqFrom: 1, SqTo: l, HMMFrom: 1, HMMTo: gp.M(), AnchorI: l / 2, AnchorK: gp.M() / 2}

	approx := ApproxEnvScore(sm, fmx, bmx, total, d)
	exact := SparseEnvScore(dsq, gp, sm, d)

	assert.InDelta(t, exact, approx, 1.0)
}

func TestApproxEnvScoreEmptySpanIsNegInf(t *testing.T) {
	gp := newToyProfile(5)
	dsq := toyDigitalSequence(gp)
	sm, fmx, bmx, total := buildFullDP(gp, dsq)

	d := Domain{SqFrom: 5, SqTo: 4} // SqTo < SqFrom: empty span
	got := ApproxEnvScore(sm, fmx, bmx, total, d)
	assert.True(t, math.IsInf(got, -1))
}
