package phmmscan

import "math"

// newToyProfile builds a small, fully-populated amino-acid GenericProfile
// (M nodes) with mildly favorable match scores at a rotating "native"
// residue per node and a neutral background everywhere else, biased
// transitions that favor the main diagonal (match-match) path. Used across
// this package's tests as a deterministic, hand-checkable fixture -- small
// enough that ReferenceDP's dense O(L*M) oracle and the sparse/filter paths
// can be cross-checked by eye (spec.md §8).
func newToyProfile(m int) *GenericProfile {
	a := NewAminoAlphabet()
	bg := UniformBackground(a)
	gp := NewGenericProfile(a, bg, m)

	for k := 1; k <= m; k++ {
		native := (k - 1) % a.K()
		for x := 0; x < a.Kp(); x++ {
			if x == native {
				gp.SetMatchScore(k, x, 2.0)
			} else {
				gp.SetMatchScore(k, x, -1.0)
			}
		}
		gp.SetTransitionScore(k, TMM, math.Log(0.8))
		gp.SetTransitionScore(k, TMI, math.Log(0.1))
		gp.SetTransitionScore(k, TMD, math.Log(0.1))
		gp.SetTransitionScore(k, TIM, math.Log(0.5))
		gp.SetTransitionScore(k, TII, math.Log(0.5))
		gp.SetTransitionScore(k, TDM, math.Log(0.5))
		gp.SetTransitionScore(k, TDD, math.Log(0.5))
		gp.SetTransitionScore(k, TLM, math.Log(1.0/float64(m)))
		gp.SetTransitionScore(k, TGM, math.Log(1.0/float64(m)))
	}
	gp.SetEntrySplit(math.Log(0.5), math.Log(0.5))
	gp.ReconfigureLength(100, 3.0)
	gp.Name = "toy"
	gp.Accession = "TOY001"
	return gp
}

// toyDigitalSequence builds a 1-indexed digital sequence (with sentinels)
// that walks the toy profile's native residues in order, the sequence a
// toy profile is expected to align to itself along the pure match diagonal.
func toyDigitalSequence(gp *GenericProfile) []int {
	a := gp.Alphabet()
	m := gp.M()
	dsq := make([]int, m+2)
	dsq[0] = digitalSentinel
	dsq[m+1] = digitalSentinel
	for k := 1; k <= m; k++ {
		dsq[k] = (k - 1) % a.K()
	}
	return dsq
}
