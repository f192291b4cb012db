package phmmscan

import (
	"encoding/binary"
	"fmt"

	"github.com/cascadia-bio/phmmscan/internal/deltapack"
)

// RecordBounds is the four coordinate arrays DumpRecordBounds/
// LoadRecordBounds round-trip: a Record's sequence and model envelope,
// stripped of everything else (names, probabilities), for compact bulk
// storage of a whole search run's hit coordinates (SPEC_FULL.md §4.7
// "bulk inspection tooling" -- a sibling debugging artifact to dump.go's
// per-sequence SparseMask dump, at the scale of an entire Controller.Run).
type RecordBounds struct {
	SqFrom, SqTo   []uint32
	HMMFrom, HMMTo []uint32
}

// boundsOf extracts a RecordBounds from a Record slice in Run order.
func boundsOf(records []Record) RecordBounds {
	rb := RecordBounds{
		SqFrom:  make([]uint32, len(records)),
		SqTo:    make([]uint32, len(records)),
		HMMFrom: make([]uint32, len(records)),
		HMMTo:   make([]uint32, len(records)),
	}
	for i, r := range records {
		rb.SqFrom[i] = uint32(r.SqFrom)
		rb.SqTo[i] = uint32(r.SqTo)
		rb.HMMFrom[i] = uint32(r.HMMFrom)
		rb.HMMTo[i] = uint32(r.HMMTo)
	}
	return rb
}

// DumpRecordBounds delta-packs a batch of Records' sequence/model envelope
// coordinates, chunked into deltapack.BlockSize runs: within a single
// Controller.Run, SqFrom/SqTo climb roughly monotonically as sequences are
// processed in order, which is exactly the small-delta shape PackDelta
// compresses well (SPEC_FULL.md §4.7).
func DumpRecordBounds(records []Record) []byte {
	rb := boundsOf(records)
	var out []byte
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(records)))
	out = append(out, hdr[:]...)

	for _, field := range [][]uint32{rb.SqFrom, rb.SqTo, rb.HMMFrom, rb.HMMTo} {
		out = appendDeltaPackedField(out, field)
	}
	return out
}

func appendDeltaPackedField(out []byte, values []uint32) []byte {
	var nblocks [4]byte
	blockCount := (len(values) + deltapack.BlockSize - 1) / deltapack.BlockSize
	binary.LittleEndian.PutUint32(nblocks[:], uint32(blockCount))
	out = append(out, nblocks[:]...)

	scratch := make([]uint32, deltapack.BlockSize)
	for off := 0; off < len(values); off += deltapack.BlockSize {
		end := off + deltapack.BlockSize
		if end > len(values) {
			end = len(values)
		}
		block := values[off:end]
		packed := deltapack.PackDelta(nil, block, scratch)

		var lenHdr [8]byte
		binary.LittleEndian.PutUint32(lenHdr[0:4], uint32(len(block)))
		binary.LittleEndian.PutUint32(lenHdr[4:8], uint32(len(packed)))
		out = append(out, lenHdr[:]...)
		out = append(out, packed...)
	}
	return out
}

// LoadRecordBounds reverses DumpRecordBounds, for offline bulk-dump
// inspection tooling that never needs to reconstruct a live Record (names
// and probabilities are not part of the dump).
func LoadRecordBounds(dump []byte) (RecordBounds, error) {
	if len(dump) < 4 {
		return RecordBounds{}, ErrNotLoaded
	}
	n := int(binary.LittleEndian.Uint32(dump[0:4]))
	pos := 4

	fields := make([][]uint32, 4)
	for fi := range fields {
		field, next, err := readDeltaPackedField(dump, pos, n)
		if err != nil {
			return RecordBounds{}, err
		}
		fields[fi] = field
		pos = next
	}
	return RecordBounds{SqFrom: fields[0], SqTo: fields[1], HMMFrom: fields[2], HMMTo: fields[3]}, nil
}

func readDeltaPackedField(dump []byte, pos, total int) ([]uint32, int, error) {
	if pos+4 > len(dump) {
		return nil, 0, fmt.Errorf("%w: truncated field block count", ErrNotLoaded)
	}
	blockCount := int(binary.LittleEndian.Uint32(dump[pos : pos+4]))
	pos += 4

	out := make([]uint32, 0, total)
	scratch := make([]uint32, deltapack.BlockSize)
	for b := 0; b < blockCount; b++ {
		if pos+8 > len(dump) {
			return nil, 0, fmt.Errorf("%w: truncated block header", ErrNotLoaded)
		}
		blockLen := int(binary.LittleEndian.Uint32(dump[pos : pos+4]))
		byteLen := int(binary.LittleEndian.Uint32(dump[pos+4 : pos+8]))
		pos += 8
		if pos+byteLen > len(dump) {
			return nil, 0, fmt.Errorf("%w: truncated block payload", ErrNotLoaded)
		}
		decoded := deltapack.UnpackDelta(nil, dump[pos:pos+byteLen], scratch)
		if len(decoded) != blockLen {
			return nil, 0, fmt.Errorf("%w: block length mismatch", ErrInvalidProfile)
		}
		out = append(out, decoded...)
		pos += byteLen
	}
	return out, pos, nil
}
