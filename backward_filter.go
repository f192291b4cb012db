package phmmscan

import "math"

// BackwardFilter runs the float Backward recursion coupled with on-the-fly
// posterior decoding (spec.md §4.2). Unlike ForwardFilter, which works in a
// per-row-rescaled probability domain for SIMD-friendly arithmetic,
// Backward here is computed directly in log space: the emission and
// transition lookups still come from the striped float layer (rfv/tfv),
// recovered via math.Log since floatify stores exp(score), but the DP
// itself accumulates with logAdd. This sidesteps synchronizing two
// independently-rescaled passes while still exercising the same striped
// layout ForwardFilter uses, and is the formulation SparseBackward (the
// dense-memory analog over the retained cells) follows too.
//
// At each row i, the posterior probability of cell (i,k),
// exp(Fwd(i,k)+Bwd(i,k)-Fwd(L)), is compared against tauSparse; each row's
// retained nodes are stored with AddRow as the sweep reaches it (from L down
// to 1), and sm.Finalize is called once the sweep completes. Returns the Backward total score in
// nats, which should agree with ForwardFilter's returned score to within a
// small tolerance (spec.md §8).
func BackwardFilter(dsq []int, op *OptimizedProfile, fx *FilterMatrix, tauSparse float64, sm *SparseMask) float64 {
	L := len(dsq) - 2
	m := op.m
	fx.GrowTo(m, L)
	sm.Reset(m, L)

	fwdM, totalLog := forwardLogRows(dsq, op)

	logTsc := func(q, z int, t opTransition) float64 {
		return math.Log(float64(op.tfv[(q*int(numInterleavedOPTransitions)+int(t))*op.zf+z]))
	}
	ddBase := int(numInterleavedOPTransitions) * op.qf * op.zf
	logDD := func(q, z int) float64 {
		return math.Log(float64(op.tfv[ddBase+q*op.zf+z]))
	}
	logEmit := func(k, residue int) float64 {
		q, z := stripeCoord(k, op.qf)
		return math.Log(float64(op.rfv[residue][q*op.zf+z]))
	}

	bM := make([]float64, m+2)
	bI := make([]float64, m+2)
	bD := make([]float64, m+2)
	bMNext := make([]float64, m+2)
	bINext := make([]float64, m+2)
	for k := range bMNext {
		bMNext[k], bINext[k] = math.Inf(-1), math.Inf(-1)
	}

	logEMove := op.xscFloatLog(SpecialE, Move)
	logELoop := op.xscFloatLog(SpecialE, Loop)
	logJMove := op.xscFloatLog(SpecialJ, Move)
	logJLoop := op.xscFloatLog(SpecialJ, Loop)
	logNMove := op.xscFloatLog(SpecialN, Move)
	logNLoop := op.xscFloatLog(SpecialN, Loop)
	logCMove := op.xscFloatLog(SpecialC, Move)
	logCLoop := op.xscFloatLog(SpecialC, Loop)

	bC := logCMove // bC at i=L: only option left is End immediately.
	bJ := math.Inf(-1)
	bN := math.Inf(-1)

	retained := make([]int32, 0, m)

	for i := L; i >= 1; i-- {
		bE := logAdd(logELoop+bJ, logEMove+bC)

		// D has no row-to-row dependency (it never advances i), so it is
		// recomputed fully each row from this row's D values and the next
		// row's M values; D has no exit to E, since forwardLogRows' E sums
		// M cells only. Walking k from m downto 1 makes bD[k+1] already
		// current when bD[k] is computed.
		for k := m; k >= 1; k-- {
			var dDD, dDM float64 = math.Inf(-1), math.Inf(-1)
			if k < m {
				q, z := stripeCoord(k, op.qf)
				dDD = logDD(q, z) + bD[k+1]
				if i < L {
					qNext, zNext := stripeCoord(k+1, op.qf)
					dDM = logTsc(qNext, zNext, opDM) + logEmit(k+1, dsq[i+1]) + bMNext[k+1]
				}
			}
			bD[k] = logAdd(dDD, dDM)
		}

		for k := m; k >= 1; k-- {
			q, z := stripeCoord(k, op.qf)

			// Exit to E is free from any match state (spec.md §4.2 local
			// single-hit architecture); continuing in-model requires a
			// residue at i+1 for the M/I successors.
			var viaMM, viaMI, viaMD float64 = math.Inf(-1), math.Inf(-1), math.Inf(-1)
			if i < L && k < m {
				qNext, zNext := stripeCoord(k+1, op.qf)
				viaMM = logTsc(qNext, zNext, opMM) + logEmit(k+1, dsq[i+1]) + bMNext[k+1]
			}
			if i < L {
				viaMI = logTsc(q, z, opMI) + bINext[k]
			}
			if k < m {
				viaMD = logTsc(q, z, opMD) + bD[k+1]
			}
			bM[k] = logAddN(bE, viaMM, viaMI, viaMD)

			// I(i,k) moves on to M(i+1,k+1) via IM or loops via II.
			var viaIM, viaII float64 = math.Inf(-1), math.Inf(-1)
			if i < L && k < m {
				qNext, zNext := stripeCoord(k+1, op.qf)
				viaIM = logTsc(qNext, zNext, opIM) + logEmit(k+1, dsq[i+1]) + bMNext[k+1]
			}
			if i < L {
				viaII = logTsc(q, z, opII) + bINext[k]
			}
			bI[k] = logAdd(viaIM, viaII)
		}

		bFromHere := bMFromB(bM, op, i, dsq, logEmit, logTsc)
		bJ = logAdd(logJLoop+bJ, logJMove+bFromHere)
		bN = logAdd(logNLoop+bN, logNMove+bFromHere)
		bC = bC + logCLoop

		retained = retained[:0]
		for k := 1; k <= m; k++ {
			posterior := fwdM[i][k] + bM[k] - totalLog
			if posterior >= math.Log(tauSparse) {
				retained = append(retained, int32(k))
			}
		}
		sm.AddRow(i, retained)

		bMNext, bM = bM, bMNext
		bINext, bI = bI, bINext
	}

	sm.Finalize()
	// bN at i=0 (N has emitted nothing yet) is the Backward total: every
	// alignment starts in N before consuming any residue.
	return bN
}

// bMFromB computes the B-state's backward value for row i-1: entry into
// every node k at position i through k's opBM slot, summed over k, the same
// per-node entry forwardLogRows takes from logB at every k.
func bMFromB(bM []float64, op *OptimizedProfile, i int, dsq []int, logEmit func(int, int) float64, logTsc func(int, int, opTransition) float64) float64 {
	acc := math.Inf(-1)
	for k := 1; k <= op.m; k++ {
		q, z := stripeCoord(k, op.qf)
		acc = logAdd(acc, logTsc(q, z, opBM)+logEmit(k, dsq[i])+bM[k])
	}
	return acc
}

// forwardLogRows recomputes ForwardFilter's recursion in plain log space
// (no rescaling) so BackwardFilter can read per-cell forward values
// directly; returned alongside is the total forward log-score, which
// should match ForwardFilter's rescaled-domain result to within a small
// tolerance (spec.md §8).
func forwardLogRows(dsq []int, op *OptimizedProfile) (fwdM [][]float64, total float64) {
	L := len(dsq) - 2
	m := op.m
	fwdM = make([][]float64, L+1)
	fwdI := make([][]float64, L+1)
	for i := range fwdM {
		fwdM[i] = make([]float64, m+1)
		fwdI[i] = make([]float64, m+1)
		for k := range fwdM[i] {
			fwdM[i][k] = math.Inf(-1)
			fwdI[i][k] = math.Inf(-1)
		}
	}

	logTsc := func(q, z int, t opTransition) float64 {
		return math.Log(float64(op.tfv[(q*int(numInterleavedOPTransitions)+int(t))*op.zf+z]))
	}
	ddBase := int(numInterleavedOPTransitions) * op.qf * op.zf
	logDD := func(q, z int) float64 {
		return math.Log(float64(op.tfv[ddBase+q*op.zf+z]))
	}
	logEmit := func(k, residue int) float64 {
		q, z := stripeCoord(k, op.qf)
		return math.Log(float64(op.rfv[residue][q*op.zf+z]))
	}

	logN := 0.0
	logJ := math.Inf(-1)
	logC := math.Inf(-1)

	logEMove := op.xscFloatLog(SpecialE, Move)
	logELoop := op.xscFloatLog(SpecialE, Loop)
	logJMove := op.xscFloatLog(SpecialJ, Move)
	logJLoop := op.xscFloatLog(SpecialJ, Loop)
	logNMove := op.xscFloatLog(SpecialN, Move)
	logNLoop := op.xscFloatLog(SpecialN, Loop)
	logCMove := op.xscFloatLog(SpecialC, Move)
	logCLoop := op.xscFloatLog(SpecialC, Loop)

	dCur := make([]float64, m+1)
	for i := range dCur {
		dCur[i] = math.Inf(-1)
	}

	for i := 1; i <= L; i++ {
		residue := dsq[i]
		logB := logAdd(logN+logNMove, logJ+logJMove)

		dPrev := dCur
		dCur = make([]float64, m+1)
		dCur[0] = math.Inf(-1)

		for k := 1; k <= m; k++ {
			q, z := stripeCoord(k, op.qf)
			qPrev, zPrev := stripeCoord(k-1, op.qf)

			var bestIn float64
			if k == 1 {
				bestIn = logTsc(q, z, opBM) + logB
			} else {
				bestIn = logAddN(
					fwdM[i-1][k-1]+logTsc(q, z, opMM),
					fwdI[i-1][k-1]+logTsc(q, z, opIM),
					dPrev[k-1]+logTsc(q, z, opDM),
					logTsc(q, z, opBM)+logB,
				)
			}
			fwdM[i][k] = bestIn + logEmit(k, residue)
			fwdI[i][k] = logAddN(fwdM[i-1][k]+logTsc(q, z, opMI), fwdI[i-1][k]+logTsc(q, z, opII))
			if k > 1 {
				dCur[k] = logAddN(fwdM[i][k-1]+logTsc(qPrev, zPrev, opMD), dCur[k-1]+logDD(qPrev, zPrev))
			} else {
				dCur[k] = math.Inf(-1)
			}
		}

		var logE float64 = math.Inf(-1)
		for k := 1; k <= m; k++ {
			logE = logAdd(logE, fwdM[i][k])
		}

		logJ = logAdd(logJ+logJLoop, logE+logELoop)
		logC = logAdd(logC+logCLoop, logE+logEMove)
		logN = logN + logNLoop
	}

	total = logC + logCMove
	return fwdM, total
}
