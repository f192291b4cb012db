package phmmscan

import "math"

// Fixed-point quantization constants (spec.md §3). Three precisions trade
// dynamic range for SIMD lane density: byte (MSV/SSV), word (Viterbi), and
// float (Forward/Backward, carries raw odds ratios rather than log-odds).
const (
	ln2 = math.Ln2

	scaleB = 3.0 / ln2 // third-bits per nat, byte layer
	baseB  = 190.0      // byte layer baseline so rbv stays in [0,255]

	scaleW = 500.0 / ln2 // word layer scale
	baseW  = 12000       // word layer special-state accumulator offset

	byteSaturationMax = 255
	byteSaturationMin = 0
	wordSaturationMax = math.MaxInt16
	wordSaturationMin = math.MinInt16
)

// saturateByte rounds and clamps a scaled score to the [0,255] unsigned byte
// range (invariant I1, spec.md §3).
func saturateByte(scaled float64) byte {
	r := math.Round(scaled)
	if r <= byteSaturationMin {
		return byteSaturationMin
	}
	if r >= byteSaturationMax {
		return byteSaturationMax
	}
	return byte(r)
}

// saturateWord rounds and clamps a scaled score to the signed 16-bit range.
func saturateWord(scaled float64) int16 {
	r := math.Round(scaled)
	if r <= wordSaturationMin {
		return wordSaturationMin
	}
	if r >= wordSaturationMax {
		return wordSaturationMax
	}
	return int16(r)
}

// byteify converts a log-odds match score into the biased unsigned byte
// representation used by the MSV filter: base_b + scale_b*score, saturated.
// MSC values at or below -(base_b/scale_b) saturate to 0 (invariant I1).
func byteify(score float64) byte {
	if math.IsInf(score, -1) {
		return byteSaturationMin
	}
	return saturateByte(baseB + scaleB*score)
}

// byteSaturationFloor is the MSC threshold at or below which byteify
// saturates to 0, named by invariant I1.
func byteSaturationFloor() float64 { return -baseB / scaleB }

// wordify converts a log-odds match score into a signed 16-bit word score:
// round(scale_w*score), saturated. No bias is applied since the word layer
// has headroom to represent negative scores directly.
func wordify(score float64) int16 {
	if math.IsInf(score, -1) {
		return wordSaturationMin
	}
	return saturateWord(scaleW * score)
}

// floatify converts a log-odds match score into the raw odds ratio the
// float layer carries (spec.md §3: "float layer carries raw exp(score)").
func floatify(score float64) float32 {
	if math.IsInf(score, -1) {
		return 0
	}
	return float32(math.Exp(score))
}

// ssvBias computes bias_b: the scaled magnitude of the largest-magnitude
// match score in the profile, used by the SSV signed/unsigned conversion
// (invariant I2). maxAbs is the largest |MSC[k,x]| across the whole profile.
func ssvBias(maxAbs float64) byte {
	return saturateByte(scaleB * maxAbs)
}

// subSatU8 performs unsigned saturating byte subtraction (a - b, floored at 0).
func subSatU8(a, b byte) byte {
	if b > a {
		return 0
	}
	return a - b
}

// deriveSSV computes sbv[x][q] = rbv[x][q] - bias as a signed byte,
// saturated to [-128,127], per invariant I2. For bias <= 128 this is the same
// byte ((127+bias) -u rbv[x][q]) XOR 127 yields; the difference is taken in a
// wider integer type so it stays exact when bias exceeds 128 and 127+bias no
// longer fits in a byte.
func deriveSSV(rbv, bias byte) byte {
	s := int(rbv) - int(bias)
	if s > 127 {
		s = 127
	} else if s < -128 {
		s = -128
	}
	return byte(int8(s))
}
