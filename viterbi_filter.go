package phmmscan

import "math"

// negInfWord is a safely-addable stand-in for "unreachable" in the word
// domain: far enough below the real score range that a handful of additions
// cannot wrap it back into a plausible score, without risking true int16
// overflow semantics the way -32768 would (spec.md §3 padding sentinel is
// -32768 for stored cells; this is only used for transient accumulators).
const negInfWord = math.MinInt32 / 2

// ViterbiFilter computes the best local alignment score under 16-bit
// striped Viterbi, with the lazy-F DD-exit optimization: after each row's
// main M/I/D-open pass, up to W/2 additional DD-propagation passes run,
// terminating early once no lane's DD chain improves by more than
// ddbound_w (spec.md §4.2, invariant I5).
//
// Row i's M/I/D cells are kept in fx.WordRow(i), the shared scratch buffer
// fx also lends to MSVFilter's byte row and ForwardFilter/BackwardFilter's
// float rows (spec.md §3 "Filter Matrix"); only the current and previous
// rows are ever read; GrowTo's capacity already covers i-1 and i.
//
// Specials are updated per row with NN=CC=JJ hard-wired to 0 (invariant I4);
// the pipeline controller applies the compensating -3.0 nat correction to
// the returned score, not this function.
func ViterbiFilter(dsq []int, op *OptimizedProfile, fx *FilterMatrix) float64 {
	L := len(dsq) - 2
	m := op.m
	fx.GrowTo(m, L)

	prevRow := fx.WordRow(0)
	for k := 0; k <= m; k++ {
		prevRow[k*numDPStates+0] = wordSaturationMin
		prevRow[k*numDPStates+1] = wordSaturationMin
		prevRow[k*numDPStates+2] = wordSaturationMin
	}

	xN := int(baseW)
	xJ := negInfWord
	xC := negInfWord
	xB := xN + int(op.xscWord[SpecialN][Move])

	ddbound := int(op.ddboundW)

	twvAt := func(q, z int, t opTransition) int {
		return int(op.twv[(q*int(numInterleavedOPTransitions)+int(t))*op.zw+z])
	}
	ddAt := func(q, z int) int {
		base := int(numInterleavedOPTransitions) * op.qw * op.zw
		return int(op.twv[base+q*op.zw+z])
	}

	for i := 1; i <= L; i++ {
		residue := dsq[i]
		rwv := op.rwv[residue]
		xE := negInfWord

		curRow := fx.WordRow(i)
		curRow[0], curRow[1], curRow[2] = wordSaturationMin, wordSaturationMin, wordSaturationMin

		mAt := func(row []int16, k int) int { return int(row[k*numDPStates+0]) }
		iAt := func(row []int16, k int) int { return int(row[k*numDPStates+1]) }

		for k := 1; k <= m; k++ {
			q, z := stripeCoord(k, op.qw)
			qPrev, zPrev := stripeCoord(k-1, op.qw)

			// MM/IM/DM/BM are stored rotated to k's own stripe slot (spec.md
			// §4.1: co-located with k's emission for a single aligned read),
			// so they're read at (q,z), not the predecessor's coordinate.
			var bestIn int
			if k == 1 {
				bestIn = xB + twvAt(q, z, opBM)
			} else {
				bestIn = maxInt(
					mAt(prevRow, k-1)+twvAt(q, z, opMM),
					maxInt(iAt(prevRow, k-1)+twvAt(q, z, opIM), int(prevRow[(k-1)*numDPStates+2])+twvAt(q, z, opDM)),
				)
				bestIn = maxInt(bestIn, xB+twvAt(q, z, opBM))
			}
			mVal := bestIn + int(rwv[q*op.zw+z])
			curRow[k*numDPStates+0] = int16(clampWord(mVal))

			iVal := maxInt(mAt(prevRow, k)+twvAt(q, z, opMI), iAt(prevRow, k)+twvAt(q, z, opII))
			curRow[k*numDPStates+1] = int16(clampWord(iVal))

			// D-open: ignore the DD chain on this first pass (lazy-F).
			dOpen := negInfWord
			if k > 1 {
				dOpen = mAt(curRow, k-1) + twvAt(qPrev, zPrev, opMD)
			}
			curRow[k*numDPStates+2] = int16(clampWord(dOpen))

			if mVal > xE {
				xE = mVal
			}
		}

		// Lazy-F DD-exit passes.
		for pass := 0; pass < op.zw; pass++ {
			maxDelta := negInfWord
			for k := 2; k <= m; k++ {
				q, z := stripeCoord(k-1, op.qw)
				dPrevK := int(curRow[(k-1)*numDPStates+2])
				dCurK := int(curRow[k*numDPStates+2])
				cand := dPrevK + ddAt(q, z)
				if cand > dCurK {
					delta := cand - dCurK
					curRow[k*numDPStates+2] = int16(clampWord(cand))
					if delta > maxDelta {
						maxDelta = delta
					}
				}
			}
			if maxDelta <= ddbound {
				break
			}
		}

		xJ = maxInt(xJ+int(op.xscWord[SpecialJ][Loop]), xE+int(op.xscWord[SpecialE][Loop]))
		xB = maxInt(xN+int(op.xscWord[SpecialN][Move]), xJ+int(op.xscWord[SpecialJ][Move]))
		xC = maxInt(xC+int(op.xscWord[SpecialC][Loop]), xE+int(op.xscWord[SpecialE][Move]))
		xN = xN + int(op.xscWord[SpecialN][Loop])

		prevRow = curRow
	}

	final := xC + int(op.xscWord[SpecialC][Move])
	return (float64(final) - float64(baseW)) / scaleW
}

// clampWord keeps an accumulator within the range int16 can represent
// before it is written back into a word scratch row; negInfWord itself is
// far too negative to store directly but only ever participates in max()
// comparisons before being clamped, never read back as a stored cell.
func clampWord(v int) int {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
