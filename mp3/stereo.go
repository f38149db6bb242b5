package mp3

import "math"

// intensityInvPosMpeg1 is the illegal_pos sentinel scale-factor value (7)
// that marks an MPEG1 scale-factor band as NOT intensity-coded; any other
// value in [0, 6] selects one of the seven MPEG1 intensity ratios.
// intensityInvPosMpeg2 is the analogous MPEG2/2.5 sentinel (31), per
// symphonia-bundle-mp3/src/layer3/stereo.rs's INTENSITY_INV_POS_MPEG1/
// INTENSITY_INV_POS_MPEG2 constants.
const (
	intensityInvPosMpeg1 = 7
	intensityInvPosMpeg2 = 31
)

// intensityRatiosMpeg1[is_pos] holds (left_gain, right_gain) for MPEG1
// intensity stereo, derived from is_ratio = tan(is_pos * pi/12) per
// stereo.rs's INTENSITY_STEREO_RATIOS_MPEG1: left = is_ratio/(1+is_ratio),
// right = 1/(1+is_ratio).
var intensityRatiosMpeg1 [7][2]float32

func init() {
	for pos := 0; pos < 7; pos++ {
		if pos == 6 {
			intensityRatiosMpeg1[pos] = [2]float32{1, 0}
			continue
		}
		ratio := math.Tan(float64(pos) * math.Pi / 12)
		left := ratio / (1 + ratio)
		right := 1 / (1 + ratio)
		intensityRatiosMpeg1[pos] = [2]float32{float32(left), float32(right)}
	}
}

// intensityRatioMpeg2 returns the (left_gain, right_gain) pair for an
// MPEG2/2.5 intensity-coded band with intensity position isPos. i0 is
// 1/sqrt(sqrt(2)) when intensityScale (the right channel's
// ScalefacCompress LSB) is 0, else 1/sqrt(2). An odd isPos scales the left
// channel by i0^((isPos+1)/2); an even isPos scales the right channel by
// i0^(isPos/2). Per stereo.rs's INTENSITY_STEREO_RATIOS_MPEG2 derivation.
func intensityRatioMpeg2(isPos, intensityScale int) (left, right float32) {
	i0 := 1 / math.Sqrt(math.Sqrt2)
	if intensityScale&1 != 0 {
		i0 = 1 / math.Sqrt2
	}
	if isPos&1 != 0 {
		return float32(math.Pow(i0, float64((isPos+1)>>1))), 1
	}
	return 1, float32(math.Pow(i0, float64(isPos>>1)))
}

// ApplyStereo resolves a frame's joint-stereo coding (mid-side and/or
// intensity) across a granule's two already-requantized channels,
// in-place. For ModeStereo/ModeDualMono frames (no joint coding) it is a
// no-op. Grounded on symphonia-bundle-mp3/src/layer3/stereo.rs's
// top-level stereo() function: the intensity bound is found first (the
// lowest sample index from which every higher band is intensity-coded,
// i.e. every scale factor in that range reads as the illegal/sentinel
// value), mid-side is applied up to that bound, and both channels' Rzero
// are raised to max(left.Rzero, right.Rzero) since intensity coding can
// make populated bands appear "zero" in one channel's own Huffman data.
func ApplyStereo(h *FrameHeader, left, right *GranuleChannel, xrL, xrR *[576]float32, sampleRateIdx int) {
	if h.Channels != ModeJointStereo {
		return
	}

	end := left.Rzero
	if right.Rzero > end {
		end = right.Rzero
	}

	bound := end
	if h.ModeExt.Intensity {
		bound = intensityBound(h, left, right, sampleRateIdx)
		if h.Version == Mpeg1 {
			processIntensityMpeg1(h, left, right, xrL, xrR, sampleRateIdx, bound, end)
		} else {
			processIntensityMpeg2(h, left, right, xrL, xrR, sampleRateIdx, bound, end)
		}
	}

	if h.ModeExt.MidSide {
		const invSqrt2 = 0.7071067811865476
		for i := 0; i < bound; i++ {
			m := xrL[i]
			s := xrR[i]
			xrL[i] = float32(float64(m+s) * invSqrt2)
			xrR[i] = float32(float64(m-s) * invSqrt2)
		}
	}

	left.Rzero = end
	right.Rzero = end
}

// intensityBound finds the lowest sample index from which every
// scale-factor band (to the end of the spectrum) is intensity-coded on
// the right channel, matching stereo.rs's is_zero_band/
// process_intensity_long_block scan: a band counts as intensity-coded
// when its right-channel scale factor equals the version's illegal/
// sentinel value.
func intensityBound(h *FrameHeader, left, right *GranuleChannel, sampleRateIdx int) int {
	sentinel := intensityInvPosMpeg1
	if h.Version != Mpeg1 {
		sentinel = intensityInvPosMpeg2
	}

	if right.BlockType.Kind == BlockShort {
		bands := sfbShortBands[sampleRateIdx]
		for sfb := len(bands) - 2; sfb >= 0; sfb-- {
			coded := false
			for win := 0; win < 3; win++ {
				if right.ScalefacS[win][sfb] != sentinel {
					coded = true
				}
			}
			if coded {
				// Short-window data is flattened band-major (each band's
				// three windows stored consecutively, see requantize.go),
				// so the sample-domain offset is the per-window band
				// boundary scaled by the window count.
				return bands[sfb+1] * 3
			}
		}
		return 0
	}

	bands := sfbLongBands[sampleRateIdx]
	for sfb := 21; sfb >= 0; sfb-- {
		if right.ScalefacL[sfb] != sentinel {
			return bands[sfb+1]
		}
	}
	return 0
}

func processIntensityMpeg1(h *FrameHeader, left, right *GranuleChannel, xrL, xrR *[576]float32, sampleRateIdx, bound, end int) {
	bands := sfbLongBands[sampleRateIdx]
	for sfb := 0; sfb < 22; sfb++ {
		if bands[sfb] < bound {
			continue
		}
		if bands[sfb] >= end {
			break
		}
		pos := right.ScalefacL[sfb]
		if pos < 0 || pos > 6 {
			continue
		}
		lg, rg := intensityRatiosMpeg1[pos][0], intensityRatiosMpeg1[pos][1]
		for i := bands[sfb]; i < bands[sfb+1] && i < end; i++ {
			m := xrL[i]
			xrL[i] = m * lg
			xrR[i] = m * rg
		}
	}
}

func processIntensityMpeg2(h *FrameHeader, left, right *GranuleChannel, xrL, xrR *[576]float32, sampleRateIdx, bound, end int) {
	bands := sfbLongBands[sampleRateIdx]
	for sfb := 0; sfb < 22; sfb++ {
		if bands[sfb] < bound {
			continue
		}
		if bands[sfb] >= end {
			break
		}
		pos := right.ScalefacL[sfb]
		lg, rg := intensityRatioMpeg2(pos, right.ScalefacCompress&1)
		for i := bands[sfb]; i < bands[sfb+1] && i < end; i++ {
			m := xrL[i]
			xrL[i] = m * lg
			xrR[i] = m * rg
		}
	}
}
