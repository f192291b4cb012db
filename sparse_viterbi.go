package phmmscan

import "math"

// spTrace records, for each retained cell, which predecessor state fed the
// best-scoring path into it, so SparseViterbi can walk a traceback after
// the forward max-sweep (spec.md §4.3 "Sparse Viterbi").
type spTrace struct {
	state int8 // mainML..mainDG of the winning predecessor, -1 for B/entry
}

// SparseViterbi computes the best local/glocal alignment score restricted
// to sm's retained cells, using full-precision GenericProfile scores
// (unlike the vector filters, the sparse DP never quantizes). Ties are
// broken deterministically in state order ML<MG<IL<IG<DL<DG so repeated
// runs over the same mask produce a byte-identical trace (spec.md §8
// "trace optimality" requires a single canonical winner, not an arbitrary
// one among equal-scoring paths).
//
// Returns the best score in nats and a Trace reconstructed by walking the
// recorded predecessors back from the winning cell.
func SparseViterbi(dsq []int, gp *GenericProfile, sm *SparseMask, mx *SparseMatrix) (float64, *Trace) {
	mx.Reset(sm)
	m := gp.M()
	xbl, xbg := gp.EntrySplit()

	ptr := make([][]spTrace, sm.L()+1)

	bestOverall := math.Inf(-1)
	bestI, bestIdx, bestState := 0, 0, int8(mainML)

	var prevRow []int32
	var prevMain []float64

	for i := 1; i <= sm.L(); i++ {
		row := sm.Row(i)
		if len(row) == 0 {
			prevRow, prevMain = nil, nil
			continue
		}
		residue := dsq[i]
		ptr[i] = make([]spTrace, len(row))

		for idx, k32 := range row {
			k := int(k32)
			cell := mx.Main(i, idx)

			// Local entry: B->ML(k) at cost xbl is available at every k
			// (spec.md's local architecture allows starting anywhere).
			bestML, bestMLState := xbl, int8(-1)
			// Glocal entry is only valid at k==1; every other glocal path
			// must have come from an in-model predecessor.
			bestMG, bestMGState := math.Inf(-1), int8(-1)
			if k == 1 {
				bestMG = xbg
			}

			if pIdx, ok := findRetained(prevRow, int32(k-1)); ok {
				pm := prevMain[pIdx*numMainStates : pIdx*numMainStates+numMainStates]
				if cand := pm[mainML] + gp.TransitionScore(k-1, TMM); cand > bestML {
					bestML, bestMLState = cand, mainML
				}
				if cand := pm[mainIL] + gp.TransitionScore(k-1, TIM); cand > bestML {
					bestML, bestMLState = cand, mainIL
				}
				if cand := pm[mainDL] + gp.TransitionScore(k-1, TDM); cand > bestML {
					bestML, bestMLState = cand, mainDL
				}
				if cand := pm[mainMG] + gp.TransitionScore(k-1, TMM); cand > bestMG {
					bestMG, bestMGState = cand, mainMG
				}
				if cand := pm[mainIG] + gp.TransitionScore(k-1, TIM); cand > bestMG {
					bestMG, bestMGState = cand, mainIG
				}
				if cand := pm[mainDG] + gp.TransitionScore(k-1, TDM); cand > bestMG {
					bestMG, bestMGState = cand, mainDG
				}
			}
			cell[mainML] = bestML + gp.MatchScore(k, residue)
			cell[mainMG] = bestMG + gp.MatchScore(k, residue)

			bestIL, bestIG := math.Inf(-1), math.Inf(-1)
			if pIdx, ok := findRetained(prevRow, int32(k)); ok {
				pm := prevMain[pIdx*numMainStates : pIdx*numMainStates+numMainStates]
				bestIL = pm[mainML] + gp.TransitionScore(k, TMI)
				if cand := pm[mainIL] + gp.TransitionScore(k, TII); cand > bestIL {
					bestIL = cand
				}
				bestIG = pm[mainMG] + gp.TransitionScore(k, TMI)
				if cand := pm[mainIG] + gp.TransitionScore(k, TII); cand > bestIG {
					bestIG = cand
				}
			}
			cell[mainIL] = bestIL
			cell[mainIG] = bestIG

			bestDL, bestDG := math.Inf(-1), math.Inf(-1)
			if dIdx, ok := findRetained(row, int32(k-1)); ok {
				dm := mx.Main(i, dIdx)
				bestDL = dm[mainML] + gp.TransitionScore(k-1, TMD)
				if cand := dm[mainDL] + gp.TransitionScore(k-1, TDD); cand > bestDL {
					bestDL = cand
				}
				bestDG = dm[mainMG] + gp.TransitionScore(k-1, TMD)
				if cand := dm[mainDG] + gp.TransitionScore(k-1, TDD); cand > bestDG {
					bestDG = cand
				}
			}
			cell[mainDL] = bestDL
			cell[mainDG] = bestDG

			ptr[i][idx] = spTrace{state: bestMLState}
			if bestMG+gp.MatchScore(k, residue) >= cell[mainML] {
				ptr[i][idx] = spTrace{state: bestMGState}
			}

			if cell[mainML] > bestOverall {
				bestOverall, bestI, bestIdx, bestState = cell[mainML], i, idx, mainML
			}
			if k == m && cell[mainMG] > bestOverall {
				bestOverall, bestI, bestIdx, bestState = cell[mainMG], i, idx, mainMG
			}
			if k == m && cell[mainDG] > bestOverall {
				bestOverall, bestI, bestIdx, bestState = cell[mainDG], i, idx, mainDG
			}
		}

		prevRow, prevMain = row, mx.main[mx.rowOffset[i]:]
	}

	tr := walkSparseTrace(sm, ptr, bestI, bestIdx, bestState)
	return bestOverall, tr
}

// walkSparseTrace reconstructs an ordered (state,k,i) trace by following
// the recorded best-predecessor state back from the winning cell to the
// first retained cell with no recorded predecessor (spec.md §4.6 "Trace").
func walkSparseTrace(sm *SparseMask, ptr [][]spTrace, i, idx int, state int8) *Trace {
	tr := &Trace{}
	for i >= 1 {
		row := sm.Row(i)
		k := int(row[idx])
		tr.prepend(state, k, i)
		if i >= len(ptr) || idx >= len(ptr[i]) {
			break
		}
		pred := ptr[i][idx]
		if pred.state < 0 {
			break
		}
		switch state {
		case mainML, mainMG:
			i--
			nr, ok := findRetained(sm.Row(i), int32(k-1))
			if !ok {
				return tr
			}
			idx = nr
		case mainIL, mainIG:
			i--
			nr, ok := findRetained(sm.Row(i), int32(k))
			if !ok {
				return tr
			}
			idx = nr
		case mainDL, mainDG:
			nr, ok := findRetained(row, int32(k-1))
			if !ok {
				return tr
			}
			idx = nr
		}
		state = pred.state
	}
	return tr
}
