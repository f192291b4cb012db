package phmmscan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceScoreHandCountedTwoNodePath(t *testing.T) {
	gp := newToyProfile(3)
	dsq := toyDigitalSequence(gp)

	xbl, _ := gp.EntrySplit()
	tr := &Trace{Steps: []TraceStep{
		{State: mainML, K: 1, I: 1},
		{State: mainML, K: 2, I: 2},
	}}
	got := tr.Score(gp, dsq)
	want := xbl + gp.MatchScore(1, dsq[1]) + gp.TransitionScore(1, TMM) + gp.MatchScore(2, dsq[2])
	assert.InDelta(t, want, got, 1e-9)
}

func TestTraceScoreIncludesInsertTransition(t *testing.T) {
	gp := newToyProfile(4)
	dsq := toyDigitalSequence(gp)
	xbl, _ := gp.EntrySplit()

	tr := &Trace{Steps: []TraceStep{
		{State: mainML, K: 1, I: 1},
		{State: mainIL, K: 1, I: 2},
		{State: mainML, K: 2, I: 3},
	}}
	got := tr.Score(gp, dsq)
	want := xbl + gp.MatchScore(1, dsq[1]) +
		gp.TransitionScore(1, TMI) +
		gp.TransitionScore(1, TIM) +
		gp.MatchScore(2, dsq[3])
	assert.InDelta(t, want, got, 1e-9)
	assert.False(t, math.IsNaN(got))
}

func TestRetractWingsDropsLeadingGlocalDelete(t *testing.T) {
	tr := &Trace{
		Steps: []TraceStep{
			{State: mainDG, K: 1, I: 0},
			{State: mainMG, K: 2, I: 1},
		},
		Domains: []Domain{{SqFrom: 0, SqTo: 1, HMMFrom: 1, HMMTo: 2}},
	}
	tr.RetractWings()
	assert.Equal(t, 2, tr.Domains[0].HMMFrom, "a leading glocal delete should retract the domain's model-start boundary")
}

func TestRetractWingsNoOpWhenStartsOnMatch(t *testing.T) {
	tr := &Trace{
		Steps: []TraceStep{
			{State: mainML, K: 1, I: 1},
		},
		Domains: []Domain{{SqFrom: 1, SqTo: 1, HMMFrom: 1, HMMTo: 1}},
	}
	tr.RetractWings()
	assert.Equal(t, 1, tr.Domains[0].HMMFrom)
}
