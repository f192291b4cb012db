package phmmscan

// SparseMask records, per sequence position i, which model nodes k carry
// posterior probability >= tau_sparse under the full Forward/Backward
// decoding, plus the row-span segmentation the Sparse Matrix allocator and
// sparse DP operations walk (spec.md §3 "Sparse Mask").
//
// Built once per sequence by BackwardFilter's coupled decoding pass, then
// read (never mutated) by SparseMatrix, SparseViterbi/Forward/Backward,
// SparseDecoding, and mass-trace envelope expansion.
type SparseMask struct {
	m, l int

	// k[i] lists the retained model nodes for row i, ascending.
	k [][]int32

	// segments lists maximal runs of consecutive rows that have at least
	// one retained cell, as (ia,ib) inclusive row bounds, ascending.
	segments []SparseSegment

	ncell int
}

// SparseSegment is an inclusive run of sequence rows [Ia,Ib] that all have
// at least one retained cell (spec.md §3).
type SparseSegment struct {
	Ia, Ib int
}

// NewSparseMask allocates an empty SparseMask; call Reset before reuse.
func NewSparseMask() *SparseMask { return &SparseMask{} }

// Reset clears the mask for the next sequence without freeing the row
// slices, matching FilterMatrix's logical-clear convention (spec.md §5).
func (sm *SparseMask) Reset(m, l int) {
	sm.m, sm.l = m, l
	if cap(sm.k) < l+1 {
		grown := growCapacity(cap(sm.k), l+1)
		rows := make([][]int32, grown)
		copy(rows, sm.k)
		sm.k = rows
	}
	sm.k = sm.k[:l+1]
	for i := range sm.k {
		sm.k[i] = sm.k[i][:0]
	}
	sm.segments = sm.segments[:0]
	sm.ncell = 0
}

// AddRow stores row i's ascending retained-node list. Each row is stored
// independently, so rows may be added in any order; BackwardFilter calls
// this once per sequence position, from L down to 1, as its right-to-left
// decoding pass reaches each row.
func (sm *SparseMask) AddRow(i int, ks []int32) {
	if cap(sm.k[i]) < len(ks) {
		sm.k[i] = make([]int32, len(ks))
	} else {
		sm.k[i] = sm.k[i][:len(ks)]
	}
	copy(sm.k[i], ks)
	sm.ncell += len(ks)
}

// Finalize derives the segment list from the rows already added. Must be
// called once after the last AddRow and before the mask is read by any
// sparse DP operation.
func (sm *SparseMask) Finalize() {
	sm.segments = sm.segments[:0]
	inRun := false
	var ia int
	for i := 1; i <= sm.l; i++ {
		nonEmpty := len(sm.k[i]) > 0
		switch {
		case nonEmpty && !inRun:
			ia = i
			inRun = true
		case !nonEmpty && inRun:
			sm.segments = append(sm.segments, SparseSegment{Ia: ia, Ib: i - 1})
			inRun = false
		}
	}
	if inRun {
		sm.segments = append(sm.segments, SparseSegment{Ia: ia, Ib: sm.l})
	}
}

// M and L report the mask's logical sizing.
func (sm *SparseMask) M() int { return sm.m }
func (sm *SparseMask) L() int { return sm.l }

// Row returns the ascending retained-node list for row i.
func (sm *SparseMask) Row(i int) []int32 { return sm.k[i] }

// Segments returns the maximal non-empty row runs, ascending.
func (sm *SparseMask) Segments() []SparseSegment { return sm.segments }

// NCell returns the total number of retained (i,k) cells across all rows.
func (sm *SparseMask) NCell() int { return sm.ncell }

// Contains reports whether node k is retained on row i.
func (sm *SparseMask) Contains(i int, k int32) bool {
	row := sm.k[i]
	lo, hi := 0, len(row)
	for lo < hi {
		mid := (lo + hi) / 2
		if row[mid] < k {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(row) && row[lo] == k
}

// SupersetUnder reports whether sm retains at least every cell other does,
// the monotonicity-under-decreasing-tau property spec.md §8 S2 tests: a
// mask built with a smaller tau_sparse is always a superset of one built
// with a larger tau_sparse over the same sequence and profile.
func (sm *SparseMask) SupersetUnder(other *SparseMask) bool {
	if sm.l != other.l {
		return false
	}
	for i := 1; i <= sm.l; i++ {
		for _, k := range other.k[i] {
			if !sm.Contains(i, k) {
				return false
			}
		}
	}
	return true
}
