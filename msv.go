package phmmscan

import "math"

// MSVFilter finds the best single ungapped diagonal under the local
// multihit architecture using saturating byte arithmetic (spec.md §4.2).
// It is the cheapest and first gate of the cascade.
//
// Overflow of the 8-bit accumulator is expected and detected: when the
// running diagonal score would exceed the byte range, MSVFilter returns
// +Inf, which the pipeline controller treats as an automatic pass to the
// next stage rather than an error (spec.md §4.2, §7 NumericSaturation).
func MSVFilter(dsq []int, op *OptimizedProfile, fx *FilterMatrix) float64 {
	L := len(dsq) - 2
	m := op.m
	fx.GrowTo(m, L)

	overflowed := false

	xN := int(baseB) // the bias-zero baseline: "0 nats so far"
	xJ := 0
	xB := xN
	xC := 0

	prev := fx.ByteRow(0)
	for k := range prev {
		prev[k] = 0
	}

	for i := 1; i <= L; i++ {
		row := fx.ByteRow(i)
		row[0] = 0
		rbv := op.rbv[dsq[i]]
		xE := 0

		for k := 1; k <= m; k++ {
			q, z := stripeCoord(k, op.qb)
			best := int(prev[k-1])
			if xB > best {
				best = xB
			}
			// best already carries the base_b offset, and so does rbv;
			// take it off once so a cell stays base_b + scaled score.
			sum := best + int(rbv[q*op.zb+z]) - int(baseB)
			if sum > byteSaturationMax {
				overflowed = true
				sum = byteSaturationMax
			}
			row[k] = byte(sum)
			if sum > xE {
				xE = sum
			}
		}

		if xE > xJ {
			xJ = xE
		}
		if xE > xC {
			xC = xE
		}
		if xJ > xN {
			xB = xJ
		} else {
			xB = xN
		}

		prev = row
	}

	if overflowed {
		return math.Inf(1)
	}
	return (float64(xC) - float64(baseB)) / scaleB
}
