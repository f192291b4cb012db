package phmmscan

import "math"

// ForwardFilter computes the full (not best-path) Forward score in nats
// over the striped float odds-ratio layer (spec.md §4.2).
//
// The M/I/D cell arrays are kept in a per-row-rescaled probability domain
// (spec.md §4.2 "Rescaling: at each row, all cells on the row may be
// multiplied by a per-row normalizer whose log is accumulated into the
// returned score") so they stay within float32 dynamic range; the O(1)
// special states are tracked in full-precision log space instead, since
// there is no SIMD-width benefit to rescaling four scalars and doing so in
// log space sidesteps any question of which row's scale they are
// expressed in. vecExpf performs the per-row log->probability conversion
// this hybrid needs (spec.md §2 "numeric primitives: ... vector-expf").
func ForwardFilter(dsq []int, op *OptimizedProfile, fx *FilterMatrix) float64 {
	L := len(dsq) - 2
	m := op.m
	fx.GrowTo(m, L)

	prevRow := fx.FloatRow(0)
	for k := 0; k <= m; k++ {
		prevRow[k*numDPStates+0] = 0
		prevRow[k*numDPStates+1] = 0
		prevRow[k*numDPStates+2] = 0
	}

	logN := 0.0 // log P(N at time 0) = log 1
	logJ := math.Inf(-1)
	logC := math.Inf(-1)
	logScale := 0.0

	fwdAt, fwdTwv := op.floatAccessors()

	for i := 1; i <= L; i++ {
		residue := dsq[i]
		rfv := op.rfv[residue]
		curRow := fx.FloatRow(i)
		curRow[0], curRow[1], curRow[2] = 0, 0, 0

		logB := logAdd(logN+float64(op.xscFloatLog(SpecialN, Move)), logJ+float64(op.xscFloatLog(SpecialJ, Move)))
		xBscaled := float64(vecExpf(logB - logScale))

		for k := 1; k <= m; k++ {
			q, z := stripeCoord(k, op.qf)
			qPrev, zPrev := stripeCoord(k-1, op.qf)

			mPrevK1 := float64(prevRow[(k-1)*numDPStates+0])
			iPrevK1 := float64(prevRow[(k-1)*numDPStates+1])
			dPrevK1 := float64(prevRow[(k-1)*numDPStates+2])

			// MM/IM/DM/BM live rotated at k's own stripe slot (see
			// ViterbiFilter); only MD/DD (below) are read at the
			// predecessor's coordinate.
			var bestIn float64
			if k == 1 {
				bestIn = xBscaled * fwdTwv(q, z, opBM)
			} else {
				bestIn = mPrevK1*fwdTwv(q, z, opMM) +
					iPrevK1*fwdTwv(q, z, opIM) +
					dPrevK1*fwdTwv(q, z, opDM) +
					xBscaled*fwdTwv(q, z, opBM)
			}
			mVal := bestIn * float64(rfv[q*op.zf+z])
			curRow[k*numDPStates+0] = float32(mVal)

			mPrevK := float64(prevRow[k*numDPStates+0])
			iPrevK := float64(prevRow[k*numDPStates+1])
			iVal := mPrevK*fwdTwv(q, z, opMI) + iPrevK*fwdTwv(q, z, opII)
			curRow[k*numDPStates+1] = float32(iVal)

			mCurK1 := float64(curRow[(k-1)*numDPStates+0]) // M[i,k-1], already written this row
			dCurK1 := float64(curRow[(k-1)*numDPStates+2]) // D[i,k-1], already written this row
			dOut := mCurK1*fwdTwv(qPrev, zPrev, opMD) + dCurK1*fwdAt(qPrev, zPrev)
			curRow[k*numDPStates+2] = float32(dOut)
		}

		var rawE, normalizer float64
		for k := 1; k <= m; k++ {
			mk := float64(curRow[k*numDPStates+0])
			ik := float64(curRow[k*numDPStates+1])
			rawE += mk
			normalizer += mk + ik
		}
		if normalizer <= 0 {
			normalizer = 1e-300
		}
		for k := 0; k <= m; k++ {
			curRow[k*numDPStates+0] = float32(float64(curRow[k*numDPStates+0]) / normalizer)
			curRow[k*numDPStates+1] = float32(float64(curRow[k*numDPStates+1]) / normalizer)
			curRow[k*numDPStates+2] = float32(float64(curRow[k*numDPStates+2]) / normalizer)
		}

		actualELog := math.Log(rawE) + logScale
		logJ = logAdd(logJ+float64(op.xscFloatLog(SpecialJ, Loop)), actualELog+float64(op.xscFloatLog(SpecialE, Loop)))
		logC = logAdd(logC+float64(op.xscFloatLog(SpecialC, Loop)), actualELog+float64(op.xscFloatLog(SpecialE, Move)))
		logN = logN + float64(op.xscFloatLog(SpecialN, Loop))

		logScale += math.Log(normalizer)

		prevRow = curRow
	}

	return logC + op.xscFloatLog(SpecialC, Move)
}

// floatAccessors returns closures over op's float transition vector so
// ForwardFilter/BackwardFilter can index it without repeating the stripe
// arithmetic at every call site. fwdAt returns the DD transition at
// (q,z); fwdTwv returns any of the seven interleaved transitions.
func (op *OptimizedProfile) floatAccessors() (func(q, z int) float64, func(q, z int, t opTransition) float64) {
	ddBase := int(numInterleavedOPTransitions) * op.qf * op.zf
	dd := func(q, z int) float64 {
		return float64(op.tfv[ddBase+q*op.zf+z])
	}
	other := func(q, z int, t opTransition) float64 {
		return float64(op.tfv[(q*int(numInterleavedOPTransitions)+int(t))*op.zf+z])
	}
	return dd, other
}

// xscFloatLog returns the natural-log special-state transition score,
// recovering it from the profile's retained nats table rather than
// re-logging xscFloat (which stores the probability domain value).
func (op *OptimizedProfile) xscFloatLog(s SpecialState, d SpecialMove) float64 {
	return op.xscNats[s][d]
}
