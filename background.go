package phmmscan

import (
	"fmt"
	"math"
)

// Background holds residue background frequencies f[x] for the canonical
// symbols of an alphabet and computes the length-dependent null-model score
// (spec.md §2 item 1, §4.4 "Final = C[L]+C->T" uses the same null baseline
// for bit-score normalization).
//
// A Background's residue frequencies are fixed once built. Its
// length-dependent self-loop parameter is rewritten in place by SetLength,
// which NullOneScore also calls whenever L differs from the current length,
// so a Background is not read-only while sequences are scored against it.
type Background struct {
	alphabet *Alphabet
	f        []float64 // length K, canonical residues only
	logf     []float64
	p1       float64 // null-model residue self-loop probability, set by SetLength
	length   int
}

// UniformBackground builds a Background with uniform residue frequencies,
// the standard default absent composition-derived frequencies from a fitted
// model (model fitting is out of scope, spec.md §1).
func UniformBackground(a *Alphabet) *Background {
	f := make([]float64, a.K())
	u := 1.0 / float64(a.K())
	for i := range f {
		f[i] = u
	}
	return NewBackground(a, f)
}

// NewBackground builds a Background from caller-supplied canonical residue
// frequencies, which must sum to ~1 and have length a.K().
func NewBackground(a *Alphabet, f []float64) *Background {
	if len(f) != a.K() {
		panic(fmt.Sprintf("phmmscan: background frequency vector length %d does not match alphabet K=%d", len(f), a.K()))
	}
	bg := &Background{
		alphabet: a,
		f:        append([]float64(nil), f...),
		logf:     make([]float64, len(f)),
	}
	for i, v := range bg.f {
		bg.logf[i] = math.Log(v)
	}
	bg.SetLength(500) // spec.md §6: L=500 is the standard pre-configuration at load
	return bg
}

// Freq returns the background frequency of canonical residue x.
func (bg *Background) Freq(x int) float64 {
	if x < 0 || x >= len(bg.f) {
		return 0
	}
	return bg.f[x]
}

// LogFreq returns the natural-log background frequency of canonical residue x.
func (bg *Background) LogFreq(x int) float64 {
	if x < 0 || x >= len(bg.logf) {
		return math.Inf(-1)
	}
	return bg.logf[x]
}

// SetLength reconfigures the length-dependent null-model parameter (the
// residue self-loop probability of the one-state null model) for sequence
// length L. Equivalent to p7_bg_SetLength in the reference implementation's
// terminology, generalized here to a simple geometric null model:
// p1 = L/(L+1), giving NullOneScore(L) = L*log(p1) + log(1-p1).
func (bg *Background) SetLength(L int) {
	bg.length = L
	bg.p1 = float64(L) / float64(L+1)
}

// Length returns the length this Background was last configured for.
func (bg *Background) Length() int { return bg.length }

// NullOneScore returns the log-probability (nats) assigned by the
// length-dependent null model to a random sequence of length L, used as the
// baseline every filter's raw score is compared against (spec.md §4.5 step 1).
func (bg *Background) NullOneScore(L int) float64 {
	if L != bg.length {
		bg.SetLength(L)
	}
	if L == 0 {
		return 0
	}
	return float64(L)*math.Log(bg.p1) + math.Log(1-bg.p1)
}
