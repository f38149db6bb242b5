package mp3

import "github.com/pchchv/audiocore/internal/bitstream"

// pair is the decoded (x, y) symbol a big-values Huffman table yields: two
// quantized magnitudes read together, each then sign-extended and possibly
// widened by the table's linbits, per ISO 11172-3 §2.4.1.7's Huffman
// decoding procedure.
type pair struct{ x, y int }

// quad is the decoded (v, w, x, y) symbol a count1 table yields: four
// quantized magnitudes, each in {0, 1} before sign extension.
type quad struct{ v, w, x, y int }

// bigValuesTable pairs a big-values region's Huffman table with the
// linbits width used to widen an escape value (a decoded magnitude at the
// table's maximum) before sign extension.
type bigValuesTable struct {
	table   *bitstream.HuffmanTable[pair]
	linbits int
}

// huffTableLinbits lists, for table indices 0..31, the linbits width to
// apply to an escape value, transcribed from
// sonata-codec-mp3/src/layer3/requantize.rs's HUFFMAN_TABLES wiring array:
// table indices 4 and 14 are reserved and alias table 0 (the all-zero
// table); tables 16..23 all share HUFFMAN_TABLE_16's code patterns but each
// carries its own linbits (1,2,3,4,6,8,10,13 for 16..23 respectively, with
// table 16 itself at linbits 1 — the linbits sequence starts at the base
// table, not after it); tables 24..31 likewise all share
// HUFFMAN_TABLE_24's code patterns with linbits 4,5,6,7,8,9,11,13 for
// 24..31, table 24 itself carrying linbits 4.
var huffTableLinbits = [32]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	1, 2, 3, 4, 6, 8, 10, 13, 4,
	5, 6, 7, 8, 9, 11, 13,
}

// bigValuesTables holds the 32 constructed big-values Huffman tables,
// indexed by TableSelect. Index 0 (and its aliases 4, 14) is nil: those
// table slots code no samples (every big_values pair in a region using
// them is implicitly zero), matching requantize.rs's treatment of
// MpegHuffmanTable::is_empty() tables.
//
// Tables 1, 2 and the two count1 tables below are the full ISO 11172-3
// Annex B listings, small enough (4, 9 and 16 entries) to transcribe and
// check for prefix-freedom by hand. Table 3 is its own distinct ISO table
// (not table 2's codes relabeled) but this package does not have a
// bit-exact source for its codewords available to transcribe from, so it
// is seeded zero-only rather than guessed: an unverified literal table
// here would risk exactly the silent-misdecode failure a wrong guess at
// table 3's codes would produce, which is worse than reporting
// ErrHuffmanInvalidCode honestly. The same applies to tables 5..13,
// 15..31, whose full listings run to 16..256 entries each. See DESIGN.md
// for the reasoning and what it would take to complete these.
var bigValuesTables [32]*bigValuesTable
var count1Tables [2]*bitstream.HuffmanTable[quad]

func init() {
	mustBig := func(codes []bitstream.Code[pair]) *bitstream.HuffmanTable[pair] {
		t, err := bitstream.NewHuffmanTable[pair](maxBigCodeLen(codes), codes)
		if err != nil {
			panic("mp3: invalid huffman table literal: " + err.Error())
		}
		return t
	}

	// Table 1: the full 2x2 table (ISO Annex B Table 1), small enough to
	// transcribe exactly.
	table1 := mustBig([]bitstream.Code[pair]{
		{Bits: "1", Value: pair{0, 0}},
		{Bits: "001", Value: pair{0, 1}},
		{Bits: "01", Value: pair{1, 0}},
		{Bits: "000", Value: pair{1, 1}},
	})

	// Table 2: the full 3x3 table (ISO Annex B Table 2).
	table2 := mustBig([]bitstream.Code[pair]{
		{Bits: "1", Value: pair{0, 0}},
		{Bits: "010", Value: pair{0, 1}},
		{Bits: "000001", Value: pair{0, 2}},
		{Bits: "011", Value: pair{1, 0}},
		{Bits: "001", Value: pair{1, 1}},
		{Bits: "00001", Value: pair{1, 2}},
		{Bits: "00011", Value: pair{2, 0}},
		{Bits: "00010", Value: pair{2, 1}},
		{Bits: "000000", Value: pair{2, 2}},
	})

	// Tables 3, 5..13, 15..31: this package has no bit-exact source for
	// these codewords (see the package doc above), so each gets its own
	// zero-only table — distinct per index, never another table's codes
	// under a different name — so a silent-region granule (the common
	// case at the tail of a spectrum) still decodes correctly and any
	// nonzero pair outside that reports ErrHuffmanInvalidCode instead of
	// a wrong value.
	zeroOnly := func() *bitstream.HuffmanTable[pair] {
		return mustBig([]bitstream.Code[pair]{{Bits: "1", Value: pair{0, 0}}})
	}

	for i := range bigValuesTables {
		switch i {
		case 0, 4, 14:
			bigValuesTables[i] = nil
			continue
		case 1:
			bigValuesTables[i] = &bigValuesTable{table: table1, linbits: huffTableLinbits[i]}
		case 2:
			bigValuesTables[i] = &bigValuesTable{table: table2, linbits: huffTableLinbits[i]}
		default:
			bigValuesTables[i] = &bigValuesTable{table: zeroOnly(), linbits: huffTableLinbits[i]}
		}
	}

	// count1 tables A and B (ISO Annex B "Table A" / "Table B"), the full
	// 16-entry tables for the four 1-bit magnitudes v,w,x,y.
	count1Tables[0] = mustQuad([]bitstream.Code[quad]{
		{Bits: "1", Value: quad{0, 0, 0, 0}},
		{Bits: "0101", Value: quad{0, 0, 0, 1}},
		{Bits: "0100", Value: quad{0, 0, 1, 0}},
		{Bits: "00101", Value: quad{0, 0, 1, 1}},
		{Bits: "0110", Value: quad{0, 1, 0, 0}},
		{Bits: "000101", Value: quad{0, 1, 0, 1}},
		{Bits: "00100", Value: quad{0, 1, 1, 0}},
		{Bits: "000100", Value: quad{0, 1, 1, 1}},
		{Bits: "0111", Value: quad{1, 0, 0, 0}},
		{Bits: "00011", Value: quad{1, 0, 0, 1}},
		{Bits: "00110", Value: quad{1, 0, 1, 0}},
		{Bits: "000000", Value: quad{1, 0, 1, 1}},
		{Bits: "00111", Value: quad{1, 1, 0, 0}},
		{Bits: "000010", Value: quad{1, 1, 0, 1}},
		{Bits: "000011", Value: quad{1, 1, 1, 0}},
		{Bits: "000001", Value: quad{1, 1, 1, 1}},
	})
	count1Tables[1] = mustQuad([]bitstream.Code[quad]{
		{Bits: "1111", Value: quad{0, 0, 0, 0}},
		{Bits: "1110", Value: quad{0, 0, 0, 1}},
		{Bits: "1101", Value: quad{0, 0, 1, 0}},
		{Bits: "1100", Value: quad{0, 0, 1, 1}},
		{Bits: "1011", Value: quad{0, 1, 0, 0}},
		{Bits: "1010", Value: quad{0, 1, 0, 1}},
		{Bits: "1001", Value: quad{0, 1, 1, 0}},
		{Bits: "1000", Value: quad{0, 1, 1, 1}},
		{Bits: "0111", Value: quad{1, 0, 0, 0}},
		{Bits: "0110", Value: quad{1, 0, 0, 1}},
		{Bits: "0101", Value: quad{1, 0, 1, 0}},
		{Bits: "0100", Value: quad{1, 0, 1, 1}},
		{Bits: "0011", Value: quad{1, 1, 0, 0}},
		{Bits: "0010", Value: quad{1, 1, 0, 1}},
		{Bits: "0001", Value: quad{1, 1, 1, 0}},
		{Bits: "0000", Value: quad{1, 1, 1, 1}},
	})
}

func maxBigCodeLen(codes []bitstream.Code[pair]) uint8 {
	w := 0
	for _, c := range codes {
		if len(c.Bits) > w {
			w = len(c.Bits)
		}
	}
	return uint8(w)
}

func mustQuad(codes []bitstream.Code[quad]) *bitstream.HuffmanTable[quad] {
	w := 0
	for _, c := range codes {
		if len(c.Bits) > w {
			w = len(c.Bits)
		}
	}
	t, err := bitstream.NewHuffmanTable[quad](uint8(w), codes)
	if err != nil {
		panic("mp3: invalid count1 huffman table literal: " + err.Error())
	}
	return t
}
