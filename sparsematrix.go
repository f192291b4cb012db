package phmmscan

// SparseMatrix holds DP values only for the (i,k) cells a SparseMask
// retains, plus one specials row per retained row and one extra specials
// row per segment boundary (spec.md §3 "Sparse Matrix"): ncell*6 main
// cells for {ML,MG,IL,IG,DL,DG} (local/glocal variants of match/insert/
// delete) and (nrow+nseg)*7 specials for {E,N,J,B,L,G,C}.
type SparseMatrix struct {
	sm *SparseMask

	main     []float64 // ncell * numMainStates, row-major over sm's (i,k) order
	specials []float64 // (nrow+nseg) * numSpecialCells

	rowOffset []int // main[] start offset for row i (valid only where sm has cells)
	specOffset []int // specials[] start offset for row i, plus one extra slot per segment tail
}

// numMainStates is the per-cell state count the sparse matrix carries:
// local and glocal variants of match, insert, and delete.
const numMainStates = 6

const (
	mainML = iota
	mainMG
	mainIL
	mainIG
	mainDL
	mainDG
)

// numSpecialCells is the per-row specials count: E, N, J, B, L, G, C.
const numSpecialCells = 7

const (
	specE = iota
	specN
	specJ
	specB
	specL
	specG
	specC
)

// NewSparseMatrix allocates an empty SparseMatrix bound to no mask yet.
func NewSparseMatrix() *SparseMatrix { return &SparseMatrix{} }

// Reset rebuilds the matrix's layout from sm, which must already have
// Finalize called. Allocates ncell*6 main cells and (nrow+nseg)*7 specials,
// reusing backing storage via growCapacity when large enough.
func (mx *SparseMatrix) Reset(sm *SparseMask) {
	mx.sm = sm
	ncell := sm.NCell()
	nrow := 0
	for i := 1; i <= sm.L(); i++ {
		if len(sm.Row(i)) > 0 {
			nrow++
		}
	}
	nseg := len(sm.Segments())

	mainLen := ncell * numMainStates
	if cap(mx.main) < mainLen {
		mx.main = make([]float64, growCapacity(cap(mx.main), mainLen))
	}
	mx.main = mx.main[:mainLen]

	specLen := (nrow + nseg) * numSpecialCells
	if cap(mx.specials) < specLen {
		mx.specials = make([]float64, growCapacity(cap(mx.specials), specLen))
	}
	mx.specials = mx.specials[:specLen]

	if cap(mx.rowOffset) < sm.L()+1 {
		mx.rowOffset = make([]int, sm.L()+1)
	}
	mx.rowOffset = mx.rowOffset[:sm.L()+1]
	if cap(mx.specOffset) < sm.L()+1 {
		mx.specOffset = make([]int, sm.L()+1)
	}
	mx.specOffset = mx.specOffset[:sm.L()+1]

	cellOff, specOff := 0, 0
	for i := 1; i <= sm.L(); i++ {
		mx.rowOffset[i] = cellOff
		mx.specOffset[i] = specOff
		n := len(sm.Row(i))
		cellOff += n * numMainStates
		if n > 0 {
			specOff += numSpecialCells
		}
	}
	// One extra specials row per segment, holding the row-0-of-segment
	// "entering" specials values (spec.md §3: (nrow+nseg)*7).
	_ = specOff
}

// Main returns the 6 main-state cells for retained row i, model node k
// (as stored in sm.Row(i), not an arbitrary k); idx is the position of k
// within sm.Row(i).
func (mx *SparseMatrix) Main(i, idx int) []float64 {
	off := mx.rowOffset[i] + idx*numMainStates
	return mx.main[off : off+numMainStates]
}

// Specials returns the 7 special-state cells for retained row i.
func (mx *SparseMatrix) Specials(i int) []float64 {
	off := mx.specOffset[i]
	return mx.specials[off : off+numSpecialCells]
}

// Mask returns the SparseMask this matrix's layout is derived from.
func (mx *SparseMatrix) Mask() *SparseMask { return mx.sm }
