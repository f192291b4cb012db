// Package deltapack bit-packs the coordinate runs a bulk Record dump
// produces: the sequence/model envelope bounds reported across a whole
// Controller.Run climb only a handful of residues between consecutive
// hits, so delta-coding them before bit-packing (zigzag-mapped, since a
// run is not strictly increasing) keeps the dump small without a general
// integer codec. The block format and bit-packing strategy are grounded
// on the FastPFOR scheme in Akron/fastpfor-go, trimmed to exactly the
// PackDelta/UnpackDelta path bulkdump.go needs.
package deltapack

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// BlockSize is the largest run PackDelta/UnpackDelta handle in one call;
// bulkdump.go chunks a longer coordinate array into BlockSize-sized pieces.
const (
	BlockSize = 128

	lanes     = 4
	laneSpan  = BlockSize / lanes
	hdrBytes  = 4
	hdrCountW = 8
	hdrWidthW = 6

	hdrCountMask  = (1 << hdrCountW) - 1
	hdrWidthMask  = (1 << hdrWidthW) - 1
	hdrWidthShift = hdrCountW

	hdrExceptionFlag = uint32(1 << 31)
	hdrZigZagFlag    = uint32(1 << 30)

	maxDelta = int64(1<<31 - 1)
	minDelta = -1 << 31
)

var le = binary.LittleEndian

// patch records one value that did not fit the chosen lane width: its
// block-local position and the high bits truncated out of the lane payload.
type patch struct {
	pos  uint8
	high uint32
}

// PackDelta delta- and zigzag-encodes values (len(values) <= BlockSize) and
// bit-packs the result into dst, which is grown and returned. scratch must
// have length/capacity >= len(values); the caller owns and may reuse it
// across calls.
func PackDelta(dst []byte, values []uint32, scratch []uint32) []byte {
	requireBlockLen(len(values))
	scratch = growUint32(scratch, len(values))

	var zigzagged bool
	if len(values) > 0 {
		zigzagged = encodeDeltas(scratch[:len(values)], values)
	}
	var flags uint32
	if zigzagged {
		flags |= hdrZigZagFlag
	}
	return packBlock(dst, scratch[:len(values)], flags)
}

// UnpackDelta reverses PackDelta, writing the reconstructed values into dst
// (grown as needed) using scratch as unpack scratch space.
func UnpackDelta(dst []uint32, buf []byte, scratch []uint32) []uint32 {
	if len(buf) < hdrBytes {
		panic(fmt.Sprintf("deltapack: block header truncated (need %d bytes, got %d)", hdrBytes, len(buf)))
	}
	hdr := le.Uint32(buf[:hdrBytes])
	_, _, _, zigzagged := splitHeader(hdr)

	deltas := unpackBlock(scratch[:0], buf)
	if len(deltas) == 0 {
		return dst[:0]
	}
	dst = growUint32(dst, len(deltas))
	decodeDeltas(dst[:len(deltas)], deltas, zigzagged)
	return dst[:len(deltas)]
}

func packBlock(dst []byte, values []uint32, extraFlags uint32) []byte {
	requireBlockLen(len(values))
	width, excs := bestWidth(values)
	payload := payloadLen(width)
	total := hdrBytes + payload + patchLen(len(excs))

	start := len(dst)
	dst = growBytes(dst, total)
	flags := extraFlags
	if len(excs) > 0 {
		flags |= hdrExceptionFlag
	}
	le.PutUint32(dst[start:start+hdrBytes], joinHeader(len(values), width, flags))

	payloadStart := start + hdrBytes
	payloadEnd := payloadStart + payload
	if payload > 0 {
		packLanes(dst[payloadStart:payloadEnd], values, width)
	}
	if len(excs) > 0 {
		writePatches(dst[payloadEnd:start+total], excs)
	}
	return dst
}

func unpackBlock(dst []uint32, buf []byte) []uint32 {
	hdr := le.Uint32(buf[:hdrBytes])
	count, width, hasPatches, _ := splitHeader(hdr)
	requireBlockLen(count)

	payload := payloadLen(width)
	need := hdrBytes + payload
	if len(buf) < need {
		panic(fmt.Sprintf("deltapack: block truncated (need %d bytes, have %d)", need, len(buf)))
	}

	dst = growUint32(dst, count)
	if count == 0 {
		return dst[:0]
	}
	if width == 0 {
		for i := range count {
			dst[i] = 0
		}
	} else {
		unpackLanes(dst[:count], buf[hdrBytes:need], count, width)
	}

	if hasPatches {
		if len(buf) < need+1 {
			panic(fmt.Sprintf("deltapack: missing patch count at offset %d", need))
		}
		rest := buf[need:]
		n := int(rest[0])
		rest = rest[1:]
		if len(rest) < n {
			panic("deltapack: truncated patch positions")
		}
		positions := rest[:n]
		rest = rest[n:]
		if len(rest) < n*4 {
			panic("deltapack: truncated patch values")
		}
		applyPatches(dst[:count], positions, rest[:n*4], width)
	}
	return dst[:count]
}

func requireBlockLen(n int) {
	if n < 0 || n > BlockSize {
		panic(fmt.Sprintf("deltapack: block length %d out of range [0,%d]", n, BlockSize))
	}
}

func growBytes(dst []byte, extra int) []byte {
	need := len(dst) + extra
	if cap(dst) < need {
		grown := make([]byte, need)
		copy(grown, dst)
		return grown
	}
	return dst[:need]
}

func growUint32(dst []uint32, n int) []uint32 {
	if cap(dst) >= n {
		return dst[:n]
	}
	return make([]uint32, n)
}

func joinHeader(count, width int, flags uint32) uint32 {
	return uint32(count&hdrCountMask) | (uint32(width&hdrWidthMask) << hdrWidthShift) | flags
}

func splitHeader(hdr uint32) (count, width int, hasPatches, zigzagged bool) {
	count = int(hdr & hdrCountMask)
	width = int((hdr >> hdrWidthShift) & hdrWidthMask)
	hasPatches = hdr&hdrExceptionFlag != 0
	zigzagged = hdr&hdrZigZagFlag != 0
	return
}

func payloadLen(width int) int {
	if width == 0 {
		return 0
	}
	perLane := ((laneSpan*width)+31)/32*4
	return perLane * lanes
}

func patchLen(n int) int {
	if n == 0 {
		return 0
	}
	return 1 + n + n*4
}

// bestWidth picks the lane bit width minimizing header+payload+patch bytes,
// the same width-selection sweep FastPFOR's getBestBFromData performs.
func bestWidth(values []uint32) (width int, excs []patch) {
	maxWidth := 0
	for _, v := range values {
		if w := bits.Len32(v); w > maxWidth {
			maxWidth = w
		}
	}

	bestW := maxWidth
	bestSize := hdrBytes + payloadLen(maxWidth)
	var bestExcs []patch
	var scratch [BlockSize]patch

	for w := 0; w <= maxWidth; w++ {
		excs := collectPatches(values, w, scratch[:0])
		size := hdrBytes + payloadLen(w) + patchLen(len(excs))
		if size < bestSize || (size == bestSize && w < bestW) {
			bestSize, bestW = size, w
			bestExcs = append(bestExcs[:0], excs...)
		}
	}
	return bestW, bestExcs
}

func collectPatches(values []uint32, width int, buf []patch) []patch {
	if width >= 32 {
		return buf[:0]
	}
	out := buf[:0]
	for i, v := range values {
		if bits.Len32(v) > width {
			out = append(out, patch{pos: uint8(i), high: v >> width})
		}
	}
	return out
}

func writePatches(dst []byte, excs []patch) {
	dst[0] = byte(len(excs))
	pos := 1
	for _, e := range excs {
		dst[pos] = byte(e.pos)
		pos++
	}
	for _, e := range excs {
		le.PutUint32(dst[pos:], e.high)
		pos += 4
	}
}

func applyPatches(dst []uint32, positions, highs []byte, width int) {
	for i, p := range positions {
		if int(p) >= len(dst) {
			panic(fmt.Sprintf("deltapack: patch position %d out of range (max %d)", p, len(dst)-1))
		}
		dst[int(p)] |= le.Uint32(highs[i*4:]) << width
	}
}

// packLanes interleaves values into 4 lanes and bit-packs each independently,
// a literal translation of FastPFor.cpp's fastpackwithoutmask.
func packLanes(dst []byte, values []uint32, width int) {
	perLane := len(dst) / lanes
	for lane := range lanes {
		packLane(dst[lane*perLane:(lane+1)*perLane], values, lane, width)
	}
}

func packLane(out []byte, values []uint32, lane, width int) {
	var mask uint64
	if width >= 32 {
		mask = uint64(^uint32(0))
	} else {
		mask = uint64(1)<<width - 1
	}

	var acc uint64
	var accBits, outPos int
	for i := range laneSpan {
		idx := lane + i*lanes
		var v uint32
		if idx < len(values) {
			v = values[idx]
		}
		acc |= (uint64(v) & mask) << accBits
		accBits += width
		for accBits >= 32 {
			le.PutUint32(out[outPos:], uint32(acc))
			outPos += 4
			acc >>= 32
			accBits -= 32
		}
	}
	if accBits > 0 {
		le.PutUint32(out[outPos:], uint32(acc))
	}
}

func unpackLanes(dst []uint32, payload []byte, count, width int) {
	perLane := len(payload) / lanes
	for lane := range lanes {
		unpackLane(dst, payload[lane*perLane:(lane+1)*perLane], lane, width, count)
	}
}

func unpackLane(dst []uint32, in []byte, lane, width, count int) {
	var mask uint32
	if width >= 32 {
		mask = ^uint32(0)
	} else {
		mask = 1<<width - 1
	}

	var acc uint64
	var accBits, inPos int
	for i := range laneSpan {
		for accBits < width {
			if inPos >= len(in) {
				accBits = width
				break
			}
			acc |= uint64(le.Uint32(in[inPos:])) << accBits
			inPos += 4
			accBits += 32
		}
		v := uint32(acc) & mask
		acc >>= width
		accBits -= width
		idx := lane + i*lanes
		if idx < count {
			dst[idx] = v
		}
	}
}

// encodeDeltas writes first-order deltas of src into dst, zigzag-mapping
// them (and reports true) when any step is negative -- a Record batch's
// coordinates are only roughly increasing, not sorted.
func encodeDeltas(dst, src []uint32) bool {
	var prev uint32
	var negative, overflow bool
	for _, v := range src {
		d := int64(v) - int64(prev)
		if d < minDelta || d > maxDelta {
			overflow = true
		}
		if d < 0 {
			negative = true
		}
		prev = v
	}
	if !negative {
		prev = 0
		for i, v := range src {
			dst[i] = v - prev
			prev = v
		}
		return false
	}
	if overflow {
		panic("deltapack: delta exceeds signed 32-bit range, cannot zigzag-encode")
	}
	prev = 0
	for i, v := range src {
		d := int32(int64(v) - int64(prev))
		dst[i] = zigzagEncode(d)
		prev = v
	}
	return true
}

func decodeDeltas(dst, deltas []uint32, zigzagged bool) {
	if !zigzagged {
		var prev uint32
		for i, d := range deltas {
			prev += d
			dst[i] = prev
		}
		return
	}
	var prev int64
	for i, d := range deltas {
		prev += int64(zigzagDecode(d))
		dst[i] = uint32(prev)
	}
}

func zigzagEncode(v int32) uint32 { return uint32(v<<1) ^ uint32(v>>31) }
func zigzagDecode(v uint32) int32 { return int32((v >> 1) ^ uint32(-(int32(v & 1)))) }
