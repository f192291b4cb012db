package phmmscan

import "math"

// sbvSaturationMax/Min are the signed-byte range the SSV view's lane values
// and running accumulator live in (spec.md §3 invariant I2).
const (
	sbvSaturationMax = 127
	sbvSaturationMin = -128
)

// SSVFilter is a cheaper variant of MSVFilter that scans the signed-byte SSV
// view directly, avoiding the bias add/subtract MSV needs (spec.md §4.2).
// Same semantics: saturation of the running diagonal accumulator is
// detected and reported as +Inf.
func SSVFilter(dsq []int, op *OptimizedProfile, fx *FilterMatrix) float64 {
	L := len(dsq) - 2
	m := op.m
	fx.GrowTo(m, L)

	overflowed := false
	xE := sbvSaturationMin

	prevDiag := make([]int, m+1)

	for i := 1; i <= L; i++ {
		rowDiag := make([]int, m+1)
		sbv := op.sbv[dsq[i]]
		rowE := sbvSaturationMin

		for k := 1; k <= m; k++ {
			q, z := stripeCoord(k, op.qb)
			best := prevDiag[k-1]
			sum := best + int(int8(sbv[q*op.zb+z]))
			if sum > sbvSaturationMax {
				overflowed = true
				sum = sbvSaturationMax
			}
			if sum < 0 {
				sum = 0 // a diagonal may always restart fresh from the B state at 0 cost
			}
			rowDiag[k] = sum
			if sum > rowE {
				rowE = sum
			}
		}
		if rowE > xE {
			xE = rowE
		}
		prevDiag = rowDiag
	}

	if overflowed {
		return math.Inf(1)
	}
	return float64(xE) / scaleB
}
