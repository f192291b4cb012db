package phmmscan

// FilterMatrix is the single reusable aligned scratch buffer the MSV, SSV,
// ViterbiFilter, ForwardFilter, and BackwardFilter vector filters share
// (spec.md §2 item 4, §3 "Filter Matrix"). It grows on demand and is reset
// (not freed) between sequences by the pipeline controller.
//
// A FilterMatrix is owned by exactly one worker; it is never shared across
// goroutines (spec.md §5).
type FilterMatrix struct {
	m, l int // current logical sizing: M nodes x L rows

	allocM, allocL int // current backing capacity

	// byteRows/wordRows/floatRows hold one row per sequence position
	// i in [0,L], each row sized for the widest precision currently in use.
	byteRows  [][]byte
	wordRows  [][]int16
	floatRows [][]float32
}

// NewFilterMatrix allocates an empty FilterMatrix; call GrowTo before use.
func NewFilterMatrix() *FilterMatrix { return &FilterMatrix{} }

// growCapacity implements spec.md §5's "geometric growth >=1.5x" resource
// policy, shared by FilterMatrix, SparseMask, and SparseMatrix so the
// guarantee lives in one place (SPEC_FULL.md §4.8).
func growCapacity(have, want int) int {
	if have >= want {
		return have
	}
	grown := have + have/2
	if grown < want {
		grown = want
	}
	return grown
}

// GrowTo resizes the matrix to at least (m nodes, l rows), reusing existing
// backing storage when it is already large enough. Rows are NOT cleared;
// callers write every cell they read within a row before reading it (the
// filters always do, since they sweep row i left to right).
func (fx *FilterMatrix) GrowTo(m, l int) {
	fx.m, fx.l = m, l
	newAllocM := growCapacity(fx.allocM, m+1)
	newAllocL := growCapacity(fx.allocL, l+1)

	if newAllocL > len(fx.byteRows) {
		rows := make([][]byte, newAllocL)
		copy(rows, fx.byteRows)
		fx.byteRows = rows
	}
	if newAllocL > len(fx.wordRows) {
		rows := make([][]int16, newAllocL)
		copy(rows, fx.wordRows)
		fx.wordRows = rows
	}
	if newAllocL > len(fx.floatRows) {
		rows := make([][]float32, newAllocL)
		copy(rows, fx.floatRows)
		fx.floatRows = rows
	}

	for i := 0; i <= l; i++ {
		if cap(fx.byteRows[i]) < newAllocM {
			fx.byteRows[i] = make([]byte, newAllocM)
		} else {
			fx.byteRows[i] = fx.byteRows[i][:newAllocM]
		}
		if cap(fx.wordRows[i]) < newAllocM*numDPStates {
			fx.wordRows[i] = make([]int16, newAllocM*numDPStates)
		} else {
			fx.wordRows[i] = fx.wordRows[i][:newAllocM*numDPStates]
		}
		if cap(fx.floatRows[i]) < newAllocM*numDPStates {
			fx.floatRows[i] = make([]float32, newAllocM*numDPStates)
		} else {
			fx.floatRows[i] = fx.floatRows[i][:newAllocM*numDPStates]
		}
	}

	fx.allocM, fx.allocL = newAllocM, newAllocL
}

// Reset logically clears the matrix for reuse on the next sequence without
// freeing memory (spec.md §5).
func (fx *FilterMatrix) Reset() { fx.m, fx.l = 0, 0 }

// M and L report the matrix's current logical sizing.
func (fx *FilterMatrix) M() int { return fx.m }
func (fx *FilterMatrix) L() int { return fx.l }

// numDPStates is the per-cell state count the word/float rows must carry:
// M, I, D per node, used by the vector filters that keep running per-state
// maxima/sums (MSV only needs the byte row; Viterbi/Forward/Backward need
// the wider per-state rows).
const numDPStates = 3

// ByteRow returns the byte-precision scratch row for sequence position i,
// sized for at least M+1 nodes.
func (fx *FilterMatrix) ByteRow(i int) []byte { return fx.byteRows[i] }

// WordRow returns the word-precision scratch row for position i, 3 int16s
// per node (M/I/D).
func (fx *FilterMatrix) WordRow(i int) []int16 { return fx.wordRows[i] }

// FloatRow returns the float-precision scratch row for position i, 3
// float32s per node (M/I/D).
func (fx *FilterMatrix) FloatRow(i int) []float32 { return fx.floatRows[i] }
