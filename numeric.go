package phmmscan

import "math"

// logAdd computes log(exp(a)+exp(b)) without overflow, the log-space
// addition the reference DP and SparseForward/SparseBackward use throughout
// (spec.md §2 "numeric primitives: ... log-sum-exp").
func logAdd(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a > b {
		return a + math.Log1p(math.Exp(b-a))
	}
	return b + math.Log1p(math.Exp(a-b))
}

// logAddN folds logAdd across a slice, returning -Inf for an empty slice.
func logAddN(vals ...float64) float64 {
	acc := math.Inf(-1)
	for _, v := range vals {
		acc = logAdd(acc, v)
	}
	return acc
}

// vecExpfCoeffs are the Taylor coefficients ln2^i/i! of a degree-6
// polynomial approximation to 2^f on [-0.5,0.5], the standard "vector expf"
// building block ForwardFilter uses to keep the float layer's exponentials
// inside a tight SIMD-friendly loop instead of calling math.Exp per lane
// (spec.md §2 "numeric primitives: ... vector-expf").
var vecExpfCoeffs = [7]float64{
	1.0,
	0.6931471805599453,
	0.2402265069591007,
	0.05550410866482158,
	0.009618129107628477,
	0.0013333558146428443,
	0.00015403530393381609,
}

// vecExpf approximates exp(x) by splitting x*log2(e) into an integer n and
// a remainder f in [-0.5,0.5], then returning 2^n * 2^f with 2^f taken from
// the polynomial above. The truncation error is below 2e-7 relative, so the
// float32 result is accurate to better than 1e-6 relative error, which
// satisfies the float-filter determinism tolerance in spec.md §5.
func vecExpf(x float64) float32 {
	if math.IsInf(x, -1) {
		return 0
	}
	const log2e = 1.4426950408889634
	n := math.Round(x * log2e)
	f := x*log2e - n
	// Evaluate the polynomial in 2^f via Horner's method.
	p := vecExpfCoeffs[6]
	for i := 5; i >= 0; i-- {
		p = p*f + vecExpfCoeffs[i]
	}
	return float32(math.Ldexp(p, int(n)))
}
