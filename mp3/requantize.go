package mp3

import "math"

// Requantize converts a granule channel's raw Huffman-decoded integer
// samples into their linear spectral magnitude xr, per ISO 11172-3
// §2.4.3.4's requantization formula:
//
//	xr(i) = sign(is(i)) * |is(i)|^(4/3) * 2^(0.25*A) * 2^(-B)
//
// where A is the (pre-emphasised, scale-factor-scaled) global/subblock
// gain term and B is the per-band scale-factor contribution. Long, short
// and mixed blocks each assemble A/B differently; see requantizeLong and
// requantizeShortAll. Grounded line-for-line on
// sonata-codec-mp3/src/layer3/requantize.rs's requantize_long/
// requantize_short/requantize.
func Requantize(gc *GranuleChannel, raw [576]int, sampleRateIdx int) [576]float32 {
	var xr [576]float32

	switch {
	case gc.BlockType.Kind == BlockShort && !gc.BlockType.IsMixed:
		requantizeShortAll(gc, raw, sampleRateIdx, &xr, 0, 576, 0)
	case gc.BlockType.Kind == BlockShort && gc.BlockType.IsMixed:
		longBands := sfbLongBands[sampleRateIdx]
		switchSfb := sfbMixedSwitchPoint[sampleRateIdx]
		splitSample := longBands[switchSfb]
		requantizeLong(gc, raw, sampleRateIdx, &xr, 0, splitSample)
		// The short-window portion of a mixed block is coded starting at
		// short scale-factor band 3 (bands 0-2 are covered by the long
		// part above), matching the same mixedShortStartSfb convention
		// scalefactors.go's readShortScalefacs/readShortScalefacsMpeg2
		// use when reading the scale factors this requantization uses.
		requantizeShortAll(gc, raw, sampleRateIdx, &xr, splitSample, 576, mixedShortStartSfb)
	default:
		requantizeLong(gc, raw, sampleRateIdx, &xr, 0, 576)
	}

	return xr
}

// requantizeLong requantizes samples in [from, to) using the long-block
// scale-factor bands and formula:
//
//	A = GlobalGain - 210 - 8*(ScalefacScale+1)*(Scalefac + pretab bonus)
//	xr(i) = sign * |raw(i)|^(4/3) * 2^(A/4)
func requantizeLong(gc *GranuleChannel, raw [576]int, sampleRateIdx int, xr *[576]float32, from, to int) {
	bands := sfbLongBands[sampleRateIdx]
	scaleMul := 1
	if gc.ScalefacScale {
		scaleMul = 2
	}

	sfb := 0
	for sfb < 22 && bands[sfb+1] <= from {
		sfb++
	}

	for i := from; i < to; {
		for sfb+1 < len(bands) && bands[sfb+1] <= i {
			sfb++
		}
		bandEnd := bands[sfb+1]
		if bandEnd > to {
			bandEnd = to
		}

		scalefac := gc.ScalefacL[sfb]
		pre := 0
		if gc.Preflag {
			pre = pretab[sfb]
		}
		gain := float64(gc.GlobalGain) - 210
		a := gain - float64(scaleMul*8*(scalefac+pre))
		factor := float32(math.Exp2(a / 4))

		for ; i < bandEnd; i++ {
			v := raw[i]
			if v == 0 {
				continue
			}
			mag := pow43(absInt(v))
			if v < 0 {
				mag = -mag
			}
			xr[i] = mag * factor
		}
	}
}

// requantizeShortAll requantizes samples in [from, to) using the
// short-block scale-factor bands: each short-block scale-factor band is
// subdivided into 3 windows, each with its own subblock gain contribution.
//
//	A = GlobalGain - 210 - 8*SubblockGain[window] - 8*(ScalefacScale+1)*Scalefac
func requantizeShortAll(gc *GranuleChannel, raw [576]int, sampleRateIdx int, xr *[576]float32, from, to, startSfb int) {
	bands := sfbShortBands[sampleRateIdx]
	scaleMul := 1
	if gc.ScalefacScale {
		scaleMul = 2
	}

	// Short-block data is interleaved window-major within each band:
	// samples [bandStart*3, bandEnd*3) hold window 0's band, then window
	// 1's, then window 2's, each of length (bandEnd-bandStart). This
	// mirrors the flattened layout read_huffman_samples leaves the raw
	// array in for a short/mixed granule. For a mixed block, startSfb
	// skips the bands already covered by the long part above.
	offset := from
	for sfb := startSfb; sfb+1 < len(bands) && offset < to; sfb++ {
		bandLen := bands[sfb+1] - bands[sfb]
		if bandLen <= 0 {
			continue
		}
		for win := 0; win < 3; win++ {
			scalefac := gc.ScalefacS[win][sfb]
			gain := float64(gc.GlobalGain) - 210 - float64(8*gc.SubblockGain[win])
			a := gain - float64(scaleMul*8*scalefac)
			factor := float32(math.Exp2(a / 4))

			for k := 0; k < bandLen && offset < to; k++ {
				v := raw[offset]
				if v != 0 {
					mag := pow43(absInt(v))
					if v < 0 {
						mag = -mag
					}
					xr[offset] = mag * factor
				}
				offset++
			}
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
