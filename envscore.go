package phmmscan

import "math"

// ApproxEnvScore estimates a domain's envelope score cheaply from the
// posterior mass already computed during decoding, without rerunning any
// DP: the null-corrected log-odds of the domain's entry/exit posterior
// times its span (spec.md §4.5, §8 "S4" agreement property).
func ApproxEnvScore(sm *SparseMask, fmx, bmx *SparseMatrix, total float64, d Domain) float64 {
	span := d.SqTo - d.SqFrom + 1
	if span <= 0 {
		return math.Inf(-1)
	}
	var sum float64
	for i := d.SqFrom; i <= d.SqTo; i++ {
		row := sm.Row(i)
		idx, ok := findRetained(row, int32(nearestK(row, d.HMMFrom+(i-d.SqFrom))))
		if !ok {
			continue
		}
		fc := fmx.Main(i, idx)
		bc := bmx.Main(i, idx)
		p := math.Exp(fc[mainML]+bc[mainML]-total) + math.Exp(fc[mainMG]+bc[mainMG]-total)
		if p > 0 {
			sum += math.Log(p)
		}
	}
	return sum
}

// SparseEnvScore recomputes the domain's score exactly by rerunning
// SparseForward over a copy of sm that keeps only rows SqFrom..SqTo, giving
// the "exact" figure ApproxEnvScore is expected to agree with to within
// about 1 nat (spec.md §8 "S4").
func SparseEnvScore(dsq []int, gp *GenericProfile, sm *SparseMask, d Domain) float64 {
	env := NewSparseMask()
	env.Reset(sm.M(), sm.L())
	for i := d.SqFrom; i <= d.SqTo; i++ {
		env.AddRow(i, sm.Row(i))
	}
	env.Finalize()
	return SparseForward(dsq, gp, env, NewSparseMatrix())
}
