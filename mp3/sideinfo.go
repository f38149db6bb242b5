package mp3

import "github.com/pchchv/audiocore/internal/bitstream"

// BlockKind distinguishes the four window shapes a granule's spectral data
// can be coded with.
type BlockKind int

const (
	BlockLong BlockKind = iota
	BlockStart
	BlockShort
	BlockEnd
)

// GranuleBlockType names the block shape and, for BlockShort, whether the
// granule mixes two long-window low-frequency bands with short-window
// bands for the rest of the spectrum.
type GranuleBlockType struct {
	Kind    BlockKind
	IsMixed bool
}

// GranuleChannel is the parsed side-information for one (granule, channel)
// pair, matching the data model in farcloser-saprobe's sideinfo.go,
// extended with the derived region boundaries requantization and Huffman
// decoding need. ScalefacL/ScalefacS are populated separately, while main
// data is read (see maindata.go's scale-factor reading, folded into
// decoder.go for this package).
type GranuleChannel struct {
	Part2And3Length   int
	BigValues         int
	GlobalGain        int
	ScalefacCompress  int
	WinSwitchFlag     bool
	BlockType         GranuleBlockType
	TableSelect       [3]int
	SubblockGain      [3]int
	Region0Count      int
	Region1Count      int
	Region1Start      int // sample index where Huffman region 1 begins
	Region2Start      int // sample index where Huffman region 2 begins
	Preflag           bool
	ScalefacScale     bool
	Count1TableSelect int

	// Rzero is the sample index, exclusive, up to which this channel has
	// nonzero coefficients after Huffman decoding (set while decoding,
	// not while reading side info).
	Rzero int

	ScalefacL [22]int
	ScalefacS [3][13]int
}

// SideInfo is one frame's full side-information block: the bit-reservoir
// pointer, scale-factor-selection flags (MPEG1 only), and one
// GranuleChannel per (granule, channel).
type SideInfo struct {
	MainDataBegin int
	PrivateBits   int
	// Scfsi[ch][band] is true if scale-factor band group `band` (of 4)
	// is shared between granule 0 and granule 1 instead of being resent;
	// MPEG2/2.5 frames never set any of these (they carry only one
	// granule to begin with).
	Scfsi    [2][4]bool
	Granules [2][2]GranuleChannel // [granule][channel]
}

// ReadSideInfo reads the side-information block immediately following a
// frame header (and its optional CRC), per ISO 11172-3 / 13818-3 §2.4.1.7,
// following the bit-width table in farcloser-saprobe's sideinfo.go
// (sideInfoBitsToRead) for MPEG1 and the analogous MPEG2/2.5 layout
// (single granule, no scfsi, a widened 9-bit scalefac_compress).
func ReadSideInfo(br *bitstream.MSBReader, h *FrameHeader) (*SideInfo, error) {
	si := &SideInfo{}

	mdbBits, privBits := uint(9), uint(3)
	if h.Version != Mpeg1 {
		mdbBits, privBits = uint(8), uint(2)
	}
	if h.Channels == ModeMono {
		if h.Version == Mpeg1 {
			privBits = 5
		} else {
			privBits = 1
		}
	}

	mdb, err := br.ReadBitsLeq32(mdbBits)
	if err != nil {
		return nil, err
	}
	si.MainDataBegin = int(mdb)

	priv, err := br.ReadBitsLeq32(privBits)
	if err != nil {
		return nil, err
	}
	si.PrivateBits = int(priv)

	nCh := h.Channels.NumChannels()

	if h.Version == Mpeg1 {
		for ch := 0; ch < nCh; ch++ {
			for band := 0; band < 4; band++ {
				bit, err := br.ReadBit()
				if err != nil {
					return nil, err
				}
				si.Scfsi[ch][band] = bit
			}
		}
	}

	scalefacCompressBits := uint(4)
	if h.Version != Mpeg1 {
		scalefacCompressBits = 9
	}

	for gr := 0; gr < h.NumGranules(); gr++ {
		for ch := 0; ch < nCh; ch++ {
			gc := &si.Granules[gr][ch]

			p23, err := br.ReadBitsLeq32(12)
			if err != nil {
				return nil, err
			}
			gc.Part2And3Length = int(p23)

			bv, err := br.ReadBitsLeq32(9)
			if err != nil {
				return nil, err
			}
			gc.BigValues = int(bv)

			gg, err := br.ReadBitsLeq32(8)
			if err != nil {
				return nil, err
			}
			gc.GlobalGain = int(gg)

			sc, err := br.ReadBitsLeq32(scalefacCompressBits)
			if err != nil {
				return nil, err
			}
			gc.ScalefacCompress = int(sc)

			wsf, err := br.ReadBit()
			if err != nil {
				return nil, err
			}
			gc.WinSwitchFlag = wsf

			if wsf {
				bt, err := br.ReadBitsLeq32(2)
				if err != nil {
					return nil, err
				}
				mixed, err := br.ReadBit()
				if err != nil {
					return nil, err
				}
				gc.BlockType = GranuleBlockType{Kind: blockKindFromBits(bt), IsMixed: mixed}

				for i := 0; i < 2; i++ {
					ts, err := br.ReadBitsLeq32(5)
					if err != nil {
						return nil, err
					}
					gc.TableSelect[i] = int(ts)
				}
				for i := 0; i < 3; i++ {
					sg, err := br.ReadBitsLeq32(3)
					if err != nil {
						return nil, err
					}
					gc.SubblockGain[i] = int(sg)
				}

				// Region boundaries for a switched block are implicit:
				// Region0Count is 8 for a pure short block and 7 otherwise,
				// and Region1Count runs region 1 to the end of the
				// spectrum. Matches d8c0cd0d's Region0Count/Region1Count
				// derivation.
				if gc.BlockType.Kind == BlockShort && !gc.BlockType.IsMixed {
					gc.Region0Count = 8
				} else {
					gc.Region0Count = 7
				}
				gc.Region1Count = 20 - gc.Region0Count
			} else {
				for i := 0; i < 3; i++ {
					ts, err := br.ReadBitsLeq32(5)
					if err != nil {
						return nil, err
					}
					gc.TableSelect[i] = int(ts)
				}
				r0, err := br.ReadBitsLeq32(4)
				if err != nil {
					return nil, err
				}
				gc.Region0Count = int(r0)
				r1, err := br.ReadBitsLeq32(3)
				if err != nil {
					return nil, err
				}
				gc.Region1Count = int(r1)
				gc.BlockType = GranuleBlockType{Kind: BlockLong}
			}

			if h.Version == Mpeg1 {
				pf, err := br.ReadBit()
				if err != nil {
					return nil, err
				}
				gc.Preflag = pf
			}

			ss, err := br.ReadBit()
			if err != nil {
				return nil, err
			}
			gc.ScalefacScale = ss

			c1t, err := br.ReadBit()
			if err != nil {
				return nil, err
			}
			if c1t {
				gc.Count1TableSelect = 1
			}

			resolveRegionBoundaries(gc, h.SampleRateIdx)
		}
	}

	return si, nil
}

func blockKindFromBits(b uint32) BlockKind {
	switch b {
	case 0:
		return BlockStart
	case 1:
		return BlockShort
	default:
		return BlockEnd
	}
}

// resolveRegionBoundaries turns a granule's Region0Count/Region1Count
// (counts of scale-factor bands) into absolute sample-index boundaries
// within the 576-sample spectrum, using the long-block SFB table even for
// a short/mixed block's region split: region boundaries bound the
// big_values Huffman decode only, which always walks band-by-band through
// the long-block table regardless of the granule's eventual window shape
// (sonata-codec-mp3/src/layer3/requantize.rs's read_huffman_samples).
func resolveRegionBoundaries(gc *GranuleChannel, sampleRateIdx int) {
	bands := sfbLongBands[sampleRateIdx]
	r1 := gc.Region0Count + 1
	r2 := r1 + gc.Region1Count + 1
	if r1 > 22 {
		r1 = 22
	}
	if r2 > 22 {
		r2 = 22
	}
	gc.Region1Start = bands[r1]
	gc.Region2Start = bands[r2]
}
