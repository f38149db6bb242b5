package mp3

// ReadHuffmanSamples decodes a granule channel's 576 quantized spectral
// samples: the big_values region (three sub-regions of 2-at-a-time pairs,
// each under its own Huffman table and optional linbits escape), followed
// by the count1 region (4-at-a-time quads, each sample a plain sign bit
// since count1 values are never wider than 1), followed by an implicit
// run of zeros out to sample 576. budget is the number of bits still
// available for this channel's main data (gc.Part2And3Length minus the
// scale-factor bits already consumed by the caller).
//
// Grounded on sonata-codec-mp3/src/layer3/requantize.rs's
// read_huffman_samples, including its count1 overrun recovery: if the
// last decoded count1 quad crosses the bit budget, that quad's four
// samples are discarded (the spec's four-sample backoff) rather than
// trusting a value read past the granule's own data.
func ReadHuffmanSamples(cr *countingReader, gc *GranuleChannel, budget uint32) ([576]int, error) {
	var samples [576]int
	startBits := cr.BitsRead()
	limit := startBits + budget

	region1 := clampSample(gc.Region1Start)
	region2 := clampSample(gc.Region2Start)
	bigValuesEnd := clampSample(gc.BigValues * 2)

	i := 0
	for i < bigValuesEnd && cr.BitsRead() < limit {
		var tblIdx int
		switch {
		case i < region1:
			tblIdx = gc.TableSelect[0]
		case i < region2:
			tblIdx = gc.TableSelect[1]
		default:
			tblIdx = gc.TableSelect[2]
		}

		bt := bigValuesTables[tblIdx]
		if bt == nil {
			// Table 0 (and its 4/14 aliases): every pair in this region is
			// implicitly zero; no bits are coded for it at all.
			samples[i] = 0
			samples[i+1] = 0
			i += 2
			continue
		}

		p, _, err := bt.table.ReadHuffmanIncremental(cr)
		if err != nil {
			return samples, err
		}
		x, err := readEscaped(cr, p.x, bt.linbits)
		if err != nil {
			return samples, err
		}
		y, err := readEscaped(cr, p.y, bt.linbits)
		if err != nil {
			return samples, err
		}
		samples[i] = x
		samples[i+1] = y
		i += 2
	}
	rzero := i

	count1Table := count1Tables[gc.Count1TableSelect]
	for i+4 <= 576 && cr.BitsRead() < limit {
		q, _, err := count1Table.ReadHuffmanIncremental(cr)
		if err != nil {
			return samples, err
		}
		if cr.BitsRead() > limit {
			// Overran the granule's own data reading this quad; discard it
			// and stop (the 4-sample backoff named in read_huffman_samples).
			break
		}

		vals := [4]int{q.v, q.w, q.x, q.y}
		for k, v := range vals {
			sv := v
			if v != 0 {
				sign, err := cr.ReadBit()
				if err != nil {
					return samples, err
				}
				if sign {
					sv = -v
				}
			}
			samples[i+k] = sv
			if v != 0 {
				rzero = i + k + 1
			}
		}
		i += 4
	}

	gc.Rzero = rzero
	return samples, nil
}

// readEscaped sign-extends a decoded big-values magnitude v, widening it
// by linbits extra magnitude bits first if v sits at the table's escape
// value (the maximum magnitude the base table itself can express).
func readEscaped(cr *countingReader, v, linbits int) (int, error) {
	if linbits > 0 && v == bigValuesEscape {
		extra, err := cr.ReadBitsLeq32(uint(linbits))
		if err != nil {
			return 0, err
		}
		v += int(extra)
	}
	if v == 0 {
		return 0, nil
	}
	sign, err := cr.ReadBit()
	if err != nil {
		return 0, err
	}
	if sign {
		return -v, nil
	}
	return v, nil
}

// bigValuesEscape is the magnitude value at which a linbits-bearing table
// entry signals "read linbits more bits and add them", per ISO
// 11172-3's Huffman table convention (every linbits table's maximum coded
// magnitude is 15).
const bigValuesEscape = 15

func clampSample(n int) int {
	if n > 576 {
		return 576
	}
	if n < 0 {
		return 0
	}
	return n
}
