package phmmscan

import (
	"fmt"
	"math"
)

// Transition indexes node transition log-probabilities TSC[k,t] (spec.md §3).
type Transition int

const (
	TMM Transition = iota
	TIM
	TDM
	TMD
	TMI
	TII
	TDD
	TLM
	TGM
	numTransitions
)

// SpecialState indexes the special-state transition table XSC[s,d] (spec.md §3).
type SpecialState int

const (
	SpecialE SpecialState = iota
	SpecialN
	SpecialJ
	SpecialB
	SpecialC
	numSpecialStates
)

// SpecialMove selects between the MOVE (exit the loop) and LOOP (stay) arcs
// of a special state's self-transition.
type SpecialMove int

const (
	Move SpecialMove = iota
	Loop
	numSpecialMoves
)

// GenericProfile is a position-specific log-odds scoring model: match
// emissions MSC[k,x], node transitions TSC[k,t], and special-state
// transitions XSC[s,d] (spec.md §3, §4.1).
//
// GP owns its arrays. The Set* methods write them, and ReconfigureLength
// rewrites the length-dependent special-state scores in place (and the
// Background's length through SetLength), so a GP is not read-only while
// either is in use.
type GenericProfile struct {
	alphabet *Alphabet
	bg       *Background

	m int // model length M

	// MSC[k][x], k in [1,M] (index 0 unused), x in [0,Kp)
	msc [][]float64
	// TSC[k][t], k in [1,M] (index 0 unused)
	tsc [][]float64
	// XSC[s][d]
	xsc [numSpecialStates][numSpecialMoves]float64
	// xbl, xbg: log P(B->L), log P(B->G), the local/glocal entry split.
	xbl, xbg float64

	length int

	// EvalueParams are the statistical-significance fit parameters consumed
	// as opaque values; fitting them is out of scope (spec.md §1).
	EvalueParams [3]float64
	// ScoreCutoffs are caller-supplied bit-score gathering/trusted/noise
	// thresholds, passed through unused by the core DP.
	ScoreCutoffs [3]float64
	// Composition is the model's average residue composition, passed through.
	Composition []float64

	Name  string
	Accession string
}

// NewGenericProfile allocates an all-(-Inf) profile of length M over alphabet a.
// Callers populate MSC/TSC/XSC via the Set* methods before calling
// ReconfigureLength and handing the profile to OptimizedProfile.Build.
func NewGenericProfile(a *Alphabet, bg *Background, m int) *GenericProfile {
	if m < 1 {
		panic(fmt.Sprintf("phmmscan: generic profile length M=%d must be >= 1", m))
	}
	gp := &GenericProfile{
		alphabet: a,
		bg:       bg,
		m:        m,
		msc:      make([][]float64, m+1),
		tsc:      make([][]float64, m+1),
		xbl:      math.Log(0.5),
		xbg:      math.Log(0.5),
	}
	for k := 0; k <= m; k++ {
		row := make([]float64, a.Kp())
		for x := range row {
			row[x] = math.Inf(-1)
		}
		gp.msc[k] = row
		trow := make([]float64, numTransitions)
		for t := range trow {
			trow[t] = math.Inf(-1)
		}
		gp.tsc[k] = trow
	}
	for s := range gp.xsc {
		gp.xsc[s][Move] = math.Inf(-1)
		gp.xsc[s][Loop] = math.Inf(-1)
	}
	return gp
}

// M returns the model length.
func (gp *GenericProfile) M() int { return gp.m }

// Alphabet returns the alphabet this profile scores against.
func (gp *GenericProfile) Alphabet() *Alphabet { return gp.alphabet }

// Background returns the null model this profile was built against.
func (gp *GenericProfile) Background() *Background { return gp.bg }

// MatchScore returns MSC[k,x], the match-emission log-odds at node k for
// residue x.
func (gp *GenericProfile) MatchScore(k, x int) float64 { return gp.msc[k][x] }

// SetMatchScore sets MSC[k,x].
func (gp *GenericProfile) SetMatchScore(k, x int, score float64) { gp.msc[k][x] = score }

// TransitionScore returns TSC[k,t].
func (gp *GenericProfile) TransitionScore(k int, t Transition) float64 { return gp.tsc[k][t] }

// SetTransitionScore sets TSC[k,t].
func (gp *GenericProfile) SetTransitionScore(k int, t Transition, score float64) {
	gp.tsc[k][t] = score
}

// SpecialScore returns XSC[s,d].
func (gp *GenericProfile) SpecialScore(s SpecialState, d SpecialMove) float64 {
	return gp.xsc[s][d]
}

// SetSpecialScore sets XSC[s,d].
func (gp *GenericProfile) SetSpecialScore(s SpecialState, d SpecialMove, score float64) {
	gp.xsc[s][d] = score
}

// EntrySplit returns the log-probabilities of local (B->L) and glocal
// (B->G) entry, which the reference DP and sparse DP read directly
// (spec.md §4.4: "L=B+B->L; G=B+B->G").
func (gp *GenericProfile) EntrySplit() (logL, logG float64) { return gp.xbl, gp.xbg }

// SetEntrySplit sets the local/glocal entry split. The two probabilities
// need not be normalized by the caller; SetEntrySplit takes already-logged
// values so mixtures other than 0.5/0.5 can be modeled.
func (gp *GenericProfile) SetEntrySplit(logL, logG float64) { gp.xbl, gp.xbg = logL, logG }

// Length returns the length this profile's special states were last
// configured for.
func (gp *GenericProfile) Length() int { return gp.length }

// ReconfigureLength rewrites only the length-dependent special-state scores
// (N/C/J loop vs move, E->J vs E->C split) for target length L, leaving
// MSC/TSC untouched — spec.md §4.1 "reconfig_length... does not touch
// striped arrays" (the GP-level analog feeding OptimizedProfile.ReconfigureLength).
//
// expectedDomains is the nj parameter of the standard multihit length model:
// the expected number of additional domains once a first is found. 3.0 is
// the common default for multi-domain database search.
func (gp *GenericProfile) ReconfigureLength(L int, expectedDomains float64) {
	gp.length = L
	gp.bg.SetLength(L)

	nj := expectedDomains
	fL := float64(L)
	denom := fL + 2.0 + nj
	pmove := (2.0 + nj) / denom
	ploop := 1.0 - pmove

	logMove := math.Log(pmove)
	logLoop := math.Log(ploop)

	gp.xsc[SpecialN][Move] = logMove
	gp.xsc[SpecialN][Loop] = logLoop
	gp.xsc[SpecialC][Move] = logMove
	gp.xsc[SpecialC][Loop] = logLoop
	gp.xsc[SpecialJ][Move] = logMove
	gp.xsc[SpecialJ][Loop] = logLoop

	// E->C (terminate) vs E->J (loop for another domain), split by nj.
	pTerminate := 1.0 / (nj + 1.0)
	gp.xsc[SpecialE][Move] = math.Log(pTerminate)
	gp.xsc[SpecialE][Loop] = math.Log(1.0 - pTerminate)

	// B has no self-loop; B->L/B->G is carried separately in xbl/xbg.
	gp.xsc[SpecialB][Move] = 0
	gp.xsc[SpecialB][Loop] = math.Inf(-1)
}

// Validate checks structural invariants an OptimizedProfile.Build
// precondition relies on: a positive model length, and at least one finite
// match emission on every node (no all -Inf emission row left from
// NewGenericProfile). Transition and special-state scores are not checked.
func (gp *GenericProfile) Validate() error {
	if gp.m < 1 {
		return fmt.Errorf("%w: model length %d must be >= 1", ErrInvalidProfile, gp.m)
	}
	for k := 1; k <= gp.m; k++ {
		allNegInf := true
		for _, v := range gp.msc[k] {
			if !math.IsInf(v, -1) {
				allNegInf = false
				break
			}
		}
		if allNegInf {
			return fmt.Errorf("%w: node %d has no populated match emissions", ErrInvalidProfile, k)
		}
	}
	return nil
}
