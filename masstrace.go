package phmmscan

import "math"

// massTraceEpsilon is the default cumulative-posterior-mass threshold the
// envelope expansion stops at (spec.md §4.5, SPEC_FULL.md §4.8).
const massTraceEpsilon = 0.1

// MassTraceUp walks backward (decreasing i) from the anchor cell,
// accumulating 1-posterior "escape mass" at each row until it exceeds
// epsilon, and returns the first row it had NOT yet crossed -- the
// domain's upstream sequence/model envelope boundary (spec.md §4.5).
func MassTraceUp(sm *SparseMask, fmx, bmx *SparseMatrix, total float64, anchorI, anchorK int, epsilon float64) (sqFrom, hmmFrom int) {
	sqFrom, hmmFrom = anchorI, anchorK
	mass := 0.0
	for i := anchorI; i >= 1; i-- {
		row := sm.Row(i)
		idx, ok := findRetained(row, int32(nearestK(row, hmmFrom)))
		if !ok {
			break
		}
		fc := fmx.Main(i, idx)
		bc := bmx.Main(i, idx)
		p := math.Exp(fc[mainML]+bc[mainML]-total) + math.Exp(fc[mainMG]+bc[mainMG]-total)
		mass += 1 - p
		sqFrom, hmmFrom = i, int(row[idx])
		if mass > epsilon {
			break
		}
		if idx > 0 {
			hmmFrom = int(row[idx-1])
		}
	}
	return sqFrom, hmmFrom
}

// MassTraceDown is MassTraceUp's mirror, walking forward (increasing i)
// from the anchor to find the domain's downstream envelope boundary.
func MassTraceDown(sm *SparseMask, fmx, bmx *SparseMatrix, total float64, anchorI, anchorK int, epsilon float64) (sqTo, hmmTo int) {
	sqTo, hmmTo = anchorI, anchorK
	mass := 0.0
	for i := anchorI; i <= sm.L(); i++ {
		row := sm.Row(i)
		idx, ok := findRetained(row, int32(nearestK(row, hmmTo)))
		if !ok {
			break
		}
		fc := fmx.Main(i, idx)
		bc := bmx.Main(i, idx)
		p := math.Exp(fc[mainML]+bc[mainML]-total) + math.Exp(fc[mainMG]+bc[mainMG]-total)
		mass += 1 - p
		sqTo, hmmTo = i, int(row[idx])
		if mass > epsilon {
			break
		}
		if idx+1 < len(row) {
			hmmTo = int(row[idx+1])
		}
	}
	return sqTo, hmmTo
}

// nearestK finds the retained node in row closest to target, used because
// the anchor's exact node may not survive onto every neighboring row.
func nearestK(row []int32, target int) int {
	if len(row) == 0 {
		return target
	}
	best := row[0]
	bestDist := absInt(int(best) - target)
	for _, k := range row[1:] {
		if d := absInt(int(k) - target); d < bestDist {
			best, bestDist = k, d
		}
	}
	return int(best)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
