package mp3

import (
	"bytes"
	"testing"

	"github.com/pchchv/audiocore/internal/bitstream"
)

func TestReadHuffmanSamplesAllZeroRegion(t *testing.T) {
	// Table 0 in every region: big_values codes no bits at all, and an
	// empty count1 region leaves every sample implicitly zero.
	gc := &GranuleChannel{
		BigValues:    10,
		Region1Start: 576,
		Region2Start: 576,
	}
	br := bitstream.NewMSBReader(bytes.NewReader(nil))
	cr := newCountingReader(br)

	samples, err := ReadHuffmanSamples(cr, gc, 0)
	if err != nil {
		t.Fatalf("ReadHuffmanSamples: %v", err)
	}
	for i, v := range samples {
		if v != 0 {
			t.Fatalf("samples[%d] = %d, want 0", i, v)
		}
	}
	if gc.Rzero != 0 {
		t.Errorf("Rzero = %d, want 0", gc.Rzero)
	}
}

func TestReadHuffmanSamplesTable1Pair(t *testing.T) {
	// Table 1's code "1" decodes to (0,0); TableSelect[0]=1 selects it for
	// the whole big_values region (BigValues=1 pair = 2 samples).
	gc := &GranuleChannel{
		BigValues:    1,
		Region1Start: 576,
		Region2Start: 576,
		TableSelect:  [3]int{1, 1, 1},
	}
	// One bit "1" decodes (0,0); since both magnitudes are 0, no sign
	// bits follow. The bit budget is that one coded bit, so the padding
	// after it is never read as count1 data.
	br := bitstream.NewMSBReader(bytes.NewReader([]byte{0b10000000}))
	cr := newCountingReader(br)

	samples, err := ReadHuffmanSamples(cr, gc, 1)
	if err != nil {
		t.Fatalf("ReadHuffmanSamples: %v", err)
	}
	if samples[0] != 0 || samples[1] != 0 {
		t.Fatalf("samples[0:2] = %v, want [0 0]", samples[:2])
	}
}

func TestHuffmanTableZeroSlotsAlias(t *testing.T) {
	for _, idx := range []int{0, 4, 14} {
		if bigValuesTables[idx] != nil {
			t.Errorf("bigValuesTables[%d] = non-nil, want nil (all-zero table)", idx)
		}
	}
}

func TestCountOneTablesDecodeKnownCode(t *testing.T) {
	br := bitstream.NewMSBReader(bytes.NewReader([]byte{0b10000000}))
	cr := newCountingReader(br)
	q, n, err := count1Tables[0].ReadHuffmanIncremental(cr)
	if err != nil {
		t.Fatalf("ReadHuffmanIncremental: %v", err)
	}
	if n != 1 {
		t.Errorf("consumed %d bits, want 1", n)
	}
	if q != (quad{0, 0, 0, 0}) {
		t.Errorf("decoded %+v, want all-zero quad", q)
	}
}
