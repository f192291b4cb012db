package phmmscan

import "math"

// refState indexes the six per-cell states the dense reference DP tracks;
// shares numbering with the sparse matrix's mainML..mainDG so Trace steps
// built from either are directly comparable (spec.md §8 "ReferenceViterbi
// == TraceScore within 1e-6").
const refNumStates = numMainStates

// refCell holds one (i,k) cell's six state scores in the dense DP.
type refCell [refNumStates]float64

// refPtr records the single best-predecessor state for a dense cell's
// winning entry, mirroring spTrace but over the full (unrestricted) grid.
type refPtr [refNumStates]int8

// ReferenceDP is the O(L*M) dense quadratic-memory oracle spec.md §4.2
// uses as ground truth: no sparsity, no quantization, full GenericProfile
// precision throughout. It exists purely for correctness checking, never
// for production search, so clarity is favored over every opportunity to
// reuse the sparse machinery's cell layout.
type ReferenceDP struct {
	gp   *GenericProfile
	l, m int

	cells [][]refCell
	ptrs  [][]refPtr
}

// NewReferenceDP allocates a dense matrix sized for sequence length l
// against profile gp.
func NewReferenceDP(gp *GenericProfile, l int) *ReferenceDP {
	m := gp.M()
	rd := &ReferenceDP{gp: gp, l: l, m: m}
	rd.cells = make([][]refCell, l+1)
	rd.ptrs = make([][]refPtr, l+1)
	for i := 0; i <= l; i++ {
		rd.cells[i] = make([]refCell, m+1)
		rd.ptrs[i] = make([]refPtr, m+1)
		for k := 0; k <= m; k++ {
			for s := 0; s < refNumStates; s++ {
				rd.cells[i][k][s] = math.Inf(-1)
				rd.ptrs[i][k][s] = -1
			}
		}
	}
	return rd
}

// ReferenceViterbi runs the dense max-based DP over the entire (i,k) grid
// and returns the best local/glocal score together with its traceback
// (spec.md §4.2, §4.6). Tie-breaking matches SparseViterbi's state order
// ML<MG<IL<IG<DL<DG so the two can be compared trace-for-trace.
func ReferenceViterbi(dsq []int, gp *GenericProfile) (float64, *Trace) {
	l := len(dsq) - 2
	rd := NewReferenceDP(gp, l)
	m := gp.M()
	xbl, xbg := gp.EntrySplit()

	bestScore := math.Inf(-1)
	bestI, bestK, bestState := 0, 0, int8(mainML)

	for i := 1; i <= l; i++ {
		residue := dsq[i]
		for k := 1; k <= m; k++ {
			cell := &rd.cells[i][k]
			ptr := &rd.ptrs[i][k]

			bestML, mlFrom := xbl, int8(-1)
			bestMG, mgFrom := math.Inf(-1), int8(-1)
			if k == 1 {
				bestMG = xbg
			}
			prev := rd.cells[i-1][k-1]
			if cand := prev[mainML] + gp.TransitionScore(k-1, TMM); cand > bestML {
				bestML, mlFrom = cand, mainML
			}
			if cand := prev[mainIL] + gp.TransitionScore(k-1, TIM); cand > bestML {
				bestML, mlFrom = cand, mainIL
			}
			if cand := prev[mainDL] + gp.TransitionScore(k-1, TDM); cand > bestML {
				bestML, mlFrom = cand, mainDL
			}
			if cand := prev[mainMG] + gp.TransitionScore(k-1, TMM); cand > bestMG {
				bestMG, mgFrom = cand, mainMG
			}
			if cand := prev[mainIG] + gp.TransitionScore(k-1, TIM); cand > bestMG {
				bestMG, mgFrom = cand, mainIG
			}
			if cand := prev[mainDG] + gp.TransitionScore(k-1, TDM); cand > bestMG {
				bestMG, mgFrom = cand, mainDG
			}
			cell[mainML] = bestML + gp.MatchScore(k, residue)
			cell[mainMG] = bestMG + gp.MatchScore(k, residue)
			ptr[mainML], ptr[mainMG] = mlFrom, mgFrom

			samek := rd.cells[i-1][k]
			bestIL := samek[mainML] + gp.TransitionScore(k, TMI)
			ilFrom := int8(mainML)
			if cand := samek[mainIL] + gp.TransitionScore(k, TII); cand > bestIL {
				bestIL, ilFrom = cand, mainIL
			}
			bestIG := samek[mainMG] + gp.TransitionScore(k, TMI)
			igFrom := int8(mainMG)
			if cand := samek[mainIG] + gp.TransitionScore(k, TII); cand > bestIG {
				bestIG, igFrom = cand, mainIG
			}
			cell[mainIL], cell[mainIG] = bestIL, bestIG
			ptr[mainIL], ptr[mainIG] = ilFrom, igFrom

			left := rd.cells[i][k-1]
			bestDL := left[mainML] + gp.TransitionScore(k-1, TMD)
			dlFrom := int8(mainML)
			if cand := left[mainDL] + gp.TransitionScore(k-1, TDD); cand > bestDL {
				bestDL, dlFrom = cand, mainDL
			}
			bestDG := left[mainMG] + gp.TransitionScore(k-1, TMD)
			dgFrom := int8(mainMG)
			if cand := left[mainDG] + gp.TransitionScore(k-1, TDD); cand > bestDG {
				bestDG, dgFrom = cand, mainDG
			}
			cell[mainDL], cell[mainDG] = bestDL, bestDG
			ptr[mainDL], ptr[mainDG] = dlFrom, dgFrom

			if cell[mainML] > bestScore {
				bestScore, bestI, bestK, bestState = cell[mainML], i, k, mainML
			}
			if k == m && cell[mainMG] > bestScore {
				bestScore, bestI, bestK, bestState = cell[mainMG], i, k, mainMG
			}
			if k == m && cell[mainDG] > bestScore {
				bestScore, bestI, bestK, bestState = cell[mainDG], i, k, mainDG
			}
		}
	}

	tr := rd.walkTrace(bestI, bestK, bestState)
	return bestScore, tr
}

// walkTrace follows recorded predecessor states back from the winning
// cell to the DP's edge, building an ordered Trace (spec.md §4.6).
func (rd *ReferenceDP) walkTrace(i, k int, state int8) *Trace {
	tr := &Trace{}
	for i >= 1 && k >= 1 {
		tr.prepend(state, k, i)
		pred := rd.ptrs[i][k][state]
		if pred < 0 {
			break
		}
		switch state {
		case mainML, mainMG:
			i, k = i-1, k-1
		case mainIL, mainIG:
			i--
		case mainDL, mainDG:
			k--
		}
		state = pred
	}
	return tr
}

// ReferenceForward runs the dense sum-over-paths Forward recursion, the
// oracle SparseForward's total is expected to match within 1e-3 nats
// (spec.md §8).
func ReferenceForward(dsq []int, gp *GenericProfile) float64 {
	l := len(dsq) - 2
	rd := NewReferenceDP(gp, l)
	m := gp.M()
	xbl, xbg := gp.EntrySplit()
	logE := math.Inf(-1)

	for i := 1; i <= l; i++ {
		residue := dsq[i]
		for k := 1; k <= m; k++ {
			cell := &rd.cells[i][k]
			prev := rd.cells[i-1][k-1]

			ml := xbl
			mg := math.Inf(-1)
			if k == 1 {
				mg = xbg
			}
			ml = logAddN(ml,
				prev[mainML]+gp.TransitionScore(k-1, TMM),
				prev[mainIL]+gp.TransitionScore(k-1, TIM),
				prev[mainDL]+gp.TransitionScore(k-1, TDM),
			)
			mg = logAddN(mg,
				prev[mainMG]+gp.TransitionScore(k-1, TMM),
				prev[mainIG]+gp.TransitionScore(k-1, TIM),
				prev[mainDG]+gp.TransitionScore(k-1, TDM),
			)
			emit := gp.MatchScore(k, residue)
			cell[mainML] = ml + emit
			cell[mainMG] = mg + emit

			samek := rd.cells[i-1][k]
			cell[mainIL] = logAdd(samek[mainML]+gp.TransitionScore(k, TMI), samek[mainIL]+gp.TransitionScore(k, TII))
			cell[mainIG] = logAdd(samek[mainMG]+gp.TransitionScore(k, TMI), samek[mainIG]+gp.TransitionScore(k, TII))

			left := rd.cells[i][k-1]
			cell[mainDL] = logAdd(left[mainML]+gp.TransitionScore(k-1, TMD), left[mainDL]+gp.TransitionScore(k-1, TDD))
			cell[mainDG] = logAdd(left[mainMG]+gp.TransitionScore(k-1, TMD), left[mainDG]+gp.TransitionScore(k-1, TDD))

			logE = logAdd(logE, cell[mainML])
			if k == m {
				logE = logAddN(logE, cell[mainMG], cell[mainDG])
			}
		}
	}
	return logE
}

// ReferenceBackward runs the dense log-space Backward recursion as a
// second independent oracle total, cross-checked against ReferenceForward
// and SparseBackward (spec.md §8).
func ReferenceBackward(dsq []int, gp *GenericProfile) float64 {
	l := len(dsq) - 2
	m := gp.M()

	cells := make([][]refCell, l+2)
	for i := range cells {
		cells[i] = make([]refCell, m+2)
		for k := range cells[i] {
			for s := 0; s < refNumStates; s++ {
				cells[i][k][s] = math.Inf(-1)
			}
		}
	}

	xbl, xbg := gp.EntrySplit()
	total := math.Inf(-1)

	for i := l; i >= 1; i-- {
		for k := m; k >= 1; k-- {
			cell := &cells[i][k]

			ml := 0.0
			mg := math.Inf(-1)
			if k == m {
				mg = 0.0
			}
			if k < m && i < l {
				next := cells[i+1][k+1]
				emit := gp.MatchScore(k+1, dsq[i+1])
				ml = logAdd(ml, gp.TransitionScore(k, TMM)+emit+next[mainML])
				mg = logAdd(mg, gp.TransitionScore(k, TMM)+emit+next[mainMG])
			}
			same := cells[i+1][k]
			ml = logAdd(ml, gp.TransitionScore(k, TMI)+same[mainIL])
			mg = logAdd(mg, gp.TransitionScore(k, TMI)+same[mainIG])
			right := cells[i][k+1]
			if k < m {
				ml = logAdd(ml, gp.TransitionScore(k, TMD)+right[mainDL])
				mg = logAdd(mg, gp.TransitionScore(k, TMD)+right[mainDG])
			}
			cell[mainML], cell[mainMG] = ml, mg

			// Entry: B->ML(k) at any k, B->MG only at k==1, emitting residue i.
			emitHere := gp.MatchScore(k, dsq[i])
			total = logAdd(total, xbl+emitHere+ml)
			if k == 1 {
				total = logAdd(total, xbg+emitHere+mg)
			}

			il, ig := math.Inf(-1), math.Inf(-1)
			if k < m && i < l {
				next := cells[i+1][k+1]
				emit := gp.MatchScore(k+1, dsq[i+1])
				il = gp.TransitionScore(k, TIM) + emit + next[mainML]
				ig = gp.TransitionScore(k, TIM) + emit + next[mainMG]
			}
			il = logAdd(il, gp.TransitionScore(k, TII)+same[mainIL])
			ig = logAdd(ig, gp.TransitionScore(k, TII)+same[mainIG])
			cell[mainIL], cell[mainIG] = il, ig

			dl, dg := math.Inf(-1), math.Inf(-1)
			if k == m {
				dg = 0.0
			}
			if k < m && i < l {
				next := cells[i+1][k+1]
				emit := gp.MatchScore(k+1, dsq[i+1])
				dl = logAdd(dl, gp.TransitionScore(k, TDM)+emit+next[mainML])
				dg = logAdd(dg, gp.TransitionScore(k, TDM)+emit+next[mainMG])
			}
			if k < m {
				dl = logAdd(dl, gp.TransitionScore(k, TDD)+right[mainDL])
				dg = logAdd(dg, gp.TransitionScore(k, TDD)+right[mainDG])
			}
			cell[mainDL], cell[mainDG] = dl, dg
		}
	}

	return total
}
