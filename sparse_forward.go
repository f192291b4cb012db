package phmmscan

import "math"

// SparseForward computes the full (sum-over-paths) Forward score restricted
// to sm's retained cells, at full GenericProfile precision (spec.md §4.3).
// Structurally identical to SparseViterbi except logAdd replaces max
// throughout; mx is left populated with each retained cell's forward value
// for SparseDecoding to read back.
func SparseForward(dsq []int, gp *GenericProfile, sm *SparseMask, mx *SparseMatrix) float64 {
	mx.Reset(sm)
	xbl, xbg := gp.EntrySplit()

	var prevRow []int32
	var prevMain []float64
	logE := math.Inf(-1)

	for i := 1; i <= sm.L(); i++ {
		row := sm.Row(i)
		if len(row) == 0 {
			prevRow, prevMain = nil, nil
			continue
		}
		residue := dsq[i]

		for idx, k32 := range row {
			k := int(k32)
			cell := mx.Main(i, idx)

			ml := xbl
			mg := math.Inf(-1)
			if k == 1 {
				mg = xbg
			}
			if pIdx, ok := findRetained(prevRow, int32(k-1)); ok {
				pm := prevMain[pIdx*numMainStates : pIdx*numMainStates+numMainStates]
				ml = logAddN(ml,
					pm[mainML]+gp.TransitionScore(k-1, TMM),
					pm[mainIL]+gp.TransitionScore(k-1, TIM),
					pm[mainDL]+gp.TransitionScore(k-1, TDM),
				)
				mg = logAddN(mg,
					pm[mainMG]+gp.TransitionScore(k-1, TMM),
					pm[mainIG]+gp.TransitionScore(k-1, TIM),
					pm[mainDG]+gp.TransitionScore(k-1, TDM),
				)
			}
			emit := gp.MatchScore(k, residue)
			cell[mainML] = ml + emit
			cell[mainMG] = mg + emit

			var il, ig float64 = math.Inf(-1), math.Inf(-1)
			if pIdx, ok := findRetained(prevRow, int32(k)); ok {
				pm := prevMain[pIdx*numMainStates : pIdx*numMainStates+numMainStates]
				il = logAdd(pm[mainML]+gp.TransitionScore(k, TMI), pm[mainIL]+gp.TransitionScore(k, TII))
				ig = logAdd(pm[mainMG]+gp.TransitionScore(k, TMI), pm[mainIG]+gp.TransitionScore(k, TII))
			}
			cell[mainIL] = il
			cell[mainIG] = ig

			var dl, dg float64 = math.Inf(-1), math.Inf(-1)
			if dIdx, ok := findRetained(row, int32(k-1)); ok {
				dm := mx.Main(i, dIdx)
				dl = logAdd(dm[mainML]+gp.TransitionScore(k-1, TMD), dm[mainDL]+gp.TransitionScore(k-1, TDD))
				dg = logAdd(dm[mainMG]+gp.TransitionScore(k-1, TMD), dm[mainDG]+gp.TransitionScore(k-1, TDD))
			}
			cell[mainDL] = dl
			cell[mainDG] = dg

			logE = logAdd(logE, cell[mainML])
			if k == gp.M() {
				logE = logAddN(logE, cell[mainMG], cell[mainDG])
			}
		}

		prevRow, prevMain = row, mx.main[mx.rowOffset[i]:]
	}

	return logE
}
