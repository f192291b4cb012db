package phmmscan

import (
	"encoding/binary"

	"github.com/mhr3/streamvbyte"
)

// DumpSparseMask serializes a SparseMask's per-row retained-node runs as
// StreamVByte-encoded monotone integers, a debugging artifact only (spec.md
// §4.1, §6: "dumps... are debugging artifacts only", never part of the core
// DP). Row column bounds are near-monotonic across a segment -- consecutive
// rows of a hit typically shift by a handful of nodes -- exactly the shape
// StreamVByte targets, so this gives the mask dumper a compact wire form
// without inventing a bespoke codec (SPEC_FULL.md §4.7).
//
// Layout: for every non-empty row, a little-endian uint32 value count, a
// little-endian uint32 encoded-byte length, then that many StreamVByte-
// encoded uint32s: the row index, then each retained run as a (ka,kb) pair.
func DumpSparseMask(sm *SparseMask) []byte {
	var out []byte
	var hdr [8]byte

	for i := 1; i <= sm.L(); i++ {
		row := sm.Row(i)
		if len(row) == 0 {
			continue
		}
		runs := rowRuns(row)

		vals := make([]uint32, 0, 1+2*len(runs))
		vals = append(vals, uint32(i))
		for _, r := range runs {
			vals = append(vals, uint32(r.Ia), uint32(r.Ib))
		}

		encoded := streamvbyte.EncodeUint32(vals, nil)
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(vals)))
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(encoded)))
		out = append(out, hdr[:]...)
		out = append(out, encoded...)
	}
	return out
}

// LoadSparseMaskDump decodes a dump produced by DumpSparseMask back into a
// plain row -> []SparseSegment map, for offline inspection tooling; it does
// not reconstruct a live SparseMask (the dump intentionally does not carry
// enough information to rebuild ncell/segments without re-running
// BackwardFilter, per spec.md's "debugging artifact only" scoping).
func LoadSparseMaskDump(dump []byte) (map[int][]SparseSegment, error) {
	out := make(map[int][]SparseSegment)
	pos := 0
	for pos < len(dump) {
		if pos+8 > len(dump) {
			return nil, ErrNotLoaded
		}
		count := int(binary.LittleEndian.Uint32(dump[pos : pos+4]))
		encLen := int(binary.LittleEndian.Uint32(dump[pos+4 : pos+8]))
		pos += 8
		if pos+encLen > len(dump) {
			return nil, ErrNotLoaded
		}

		vals := streamvbyte.DecodeUint32(dump[pos:pos+encLen], count, nil)
		pos += encLen

		if count < 1 {
			continue
		}
		i := int(vals[0])
		for j := 1; j+1 < count; j += 2 {
			out[i] = append(out[i], SparseSegment{Ia: int(vals[j]), Ib: int(vals[j+1])})
		}
	}
	return out, nil
}

// rowRuns collapses an ascending list of retained node indices into maximal
// runs of consecutive integers, the (ka,kb) pairs DumpSparseMask encodes.
func rowRuns(row []int32) []SparseSegment {
	var runs []SparseSegment
	i := 0
	for i < len(row) {
		j := i
		for j+1 < len(row) && row[j+1] == row[j]+1 {
			j++
		}
		runs = append(runs, SparseSegment{Ia: int(row[i]), Ib: int(row[j])})
		i = j + 1
	}
	return runs
}
