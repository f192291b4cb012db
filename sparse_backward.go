package phmmscan

import "math"

// SparseBackward computes the Backward score restricted to sm's retained
// cells, at full GenericProfile precision, populating bmx with each
// retained cell's backward value for SparseDecoding to combine with a
// prior SparseForward pass (spec.md §4.3). Its total should agree with
// SparseForward's within ~1e-3 nats (spec.md §8).
func SparseBackward(dsq []int, gp *GenericProfile, sm *SparseMask, bmx *SparseMatrix) float64 {
	bmx.Reset(sm)
	L := sm.L()

	var nextRow []int32
	var nextMain []float64
	bN := math.Inf(-1)
	xbl, xbg := gp.EntrySplit()

	for i := L; i >= 1; i-- {
		row := sm.Row(i)
		if len(row) == 0 {
			nextRow, nextMain = nil, nil
			continue
		}

		for idx := len(row) - 1; idx >= 0; idx-- {
			k := int(row[idx])
			cell := bmx.Main(i, idx)

			// Exit to E is free from any local match state at every
			// position; glocal exit additionally requires k==gp.M().
			bEFromHere := 0.0 // log(1): reaching E costs nothing extra here
			ml := bEFromHere
			mg := math.Inf(-1)
			if k == gp.M() {
				mg = bEFromHere
			}

			if nIdx, ok := findRetained(nextRow, int32(k+1)); ok {
				nm := nextMain[nIdx*numMainStates : nIdx*numMainStates+numMainStates]
				emit := gp.MatchScore(k+1, dsq[i+1])
				ml = logAdd(ml, gp.TransitionScore(k, TMM)+emit+nm[mainML])
				mg = logAdd(mg, gp.TransitionScore(k, TMM)+emit+nm[mainMG])
			}
			if nIdx, ok := findRetained(nextRow, int32(k)); ok {
				nm := nextMain[nIdx*numMainStates : nIdx*numMainStates+numMainStates]
				ml = logAdd(ml, gp.TransitionScore(k, TMI)+nm[mainIL])
				mg = logAdd(mg, gp.TransitionScore(k, TMI)+nm[mainIG])
			}
			if dIdx, ok := findRetained(row, int32(k+1)); ok {
				dm := bmx.Main(i, dIdx)
				ml = logAdd(ml, gp.TransitionScore(k, TMD)+dm[mainDL])
				mg = logAdd(mg, gp.TransitionScore(k, TMD)+dm[mainDG])
			}
			cell[mainML] = ml
			cell[mainMG] = mg

			// Entry: B->ML(k) at any k, B->MG only at k==1, emitting residue i.
			emitHere := gp.MatchScore(k, dsq[i])
			bN = logAdd(bN, xbl+emitHere+ml)
			if k == 1 {
				bN = logAdd(bN, xbg+emitHere+mg)
			}

			il, ig := math.Inf(-1), math.Inf(-1)
			if nIdx, ok := findRetained(nextRow, int32(k+1)); ok {
				nm := nextMain[nIdx*numMainStates : nIdx*numMainStates+numMainStates]
				emit := gp.MatchScore(k+1, dsq[i+1])
				il = gp.TransitionScore(k, TIM) + emit + nm[mainML]
				ig = gp.TransitionScore(k, TIM) + emit + nm[mainMG]
			}
			if nIdx, ok := findRetained(nextRow, int32(k)); ok {
				nm := nextMain[nIdx*numMainStates : nIdx*numMainStates+numMainStates]
				il = logAdd(il, gp.TransitionScore(k, TII)+nm[mainIL])
				ig = logAdd(ig, gp.TransitionScore(k, TII)+nm[mainIG])
			}
			cell[mainIL] = il
			cell[mainIG] = ig

			dl, dg := math.Inf(-1), math.Inf(-1)
			if k == gp.M() {
				dg = bEFromHere
			}
			if nIdx, ok := findRetained(nextRow, int32(k+1)); ok {
				nm := nextMain[nIdx*numMainStates : nIdx*numMainStates+numMainStates]
				emit := gp.MatchScore(k+1, dsq[i+1])
				dl = logAdd(dl, gp.TransitionScore(k, TDM)+emit+nm[mainML])
				dg = logAdd(dg, gp.TransitionScore(k, TDM)+emit+nm[mainMG])
			}
			if dIdx, ok := findRetained(row, int32(k+1)); ok {
				dm := bmx.Main(i, dIdx)
				dl = logAdd(dl, gp.TransitionScore(k, TDD)+dm[mainDL])
				dg = logAdd(dg, gp.TransitionScore(k, TDD)+dm[mainDG])
			}
			cell[mainDL] = dl
			cell[mainDG] = dg
		}

		nextRow, nextMain = row, bmx.main[bmx.rowOffset[i]:]
	}

	return bN
}
