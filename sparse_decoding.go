package phmmscan

import "math"

// SparseDecoding combines a SparseForward pass (fmx) and a SparseBackward
// pass (bmx) over the same mask into posterior probabilities for every
// retained cell, P(i,k) = exp(Fwd(i,k)+Bwd(i,k)-total) (spec.md §4.4). The
// posterior-weighted maximum-expected-accuracy path is returned as a Trace
// whose steps carry their posterior alongside (state,k,i); this is
// distinct from SparseViterbi's single best-scoring path.
func SparseDecoding(sm *SparseMask, fmx, bmx *SparseMatrix, total float64) *Trace {
	tr := &Trace{}

	for i := 1; i <= sm.L(); i++ {
		row := sm.Row(i)
		bestPosterior := math.Inf(-1)
		bestState := int8(-1)
		bestK := 0

		for idx, k32 := range row {
			fc := fmx.Main(i, idx)
			bc := bmx.Main(i, idx)
			for _, st := range []int8{mainML, mainMG, mainIL, mainIG, mainDL, mainDG} {
				p := math.Exp(fc[st] + bc[st] - total)
				if p > bestPosterior {
					bestPosterior, bestState, bestK = p, st, int(k32)
				}
			}
		}

		if bestState >= 0 && bestPosterior > 0.5 {
			tr.Steps = append(tr.Steps, TraceStep{State: bestState, K: bestK, I: i, Posterior: bestPosterior})
		}
	}

	return tr
}
