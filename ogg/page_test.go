package ogg

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pchchv/audiocore/internal/bufseekio"
	"github.com/pchchv/audiocore/internal/hashutil/crc32"
)

// buildPage encodes a single OGG page with a valid CRC-32, given a header
// type byte, granule position, serial, sequence number and payload split
// into segments no larger than 255 bytes each.
func buildPage(headerType byte, granule uint64, serial, sequence uint32, segments [][]byte) []byte {
	var data []byte
	var table []byte
	for _, seg := range segments {
		data = append(data, seg...)
		n := len(seg)
		for n >= 255 {
			table = append(table, 255)
			n -= 255
		}
		table = append(table, byte(n))
	}

	hdr := make([]byte, pageHeaderFixedSize)
	copy(hdr[0:4], oggCapturePattern)
	hdr[4] = 0
	hdr[5] = headerType
	binary.LittleEndian.PutUint64(hdr[6:14], granule)
	binary.LittleEndian.PutUint32(hdr[14:18], serial)
	binary.LittleEndian.PutUint32(hdr[18:22], sequence)
	// hdr[22:26] CRC left zero
	hdr[26] = byte(len(table))

	page := append(hdr, table...)
	page = append(page, data...)

	digest := crc32.NewOGG()
	digest.Write(page)
	binary.LittleEndian.PutUint32(page[22:26], digest.Sum32())

	return page
}

func newTestStream(b []byte) *bufseekio.Stream {
	return bufseekio.NewStream(bufseekio.NewSource(bytes.NewReader(b)))
}

func TestReadPageValidCRC(t *testing.T) {
	payload := []byte("hello ogg page payload")
	raw := buildPage(0x02, 12345, 7, 0, [][]byte{payload})

	s := newTestStream(raw)
	h, data, err := readPage(s)
	if err != nil {
		t.Fatalf("readPage: %v", err)
	}
	if !h.crcValid {
		t.Fatal("expected crcValid = true")
	}
	if !h.IsFirstPage {
		t.Fatal("expected IsFirstPage = true")
	}
	if h.Granule != 12345 || h.Serial != 7 {
		t.Fatalf("unexpected granule/serial: %d/%d", h.Granule, h.Serial)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("payload mismatch: got %q want %q", data, payload)
	}
}

func TestReadPageCorruptCRC(t *testing.T) {
	raw := buildPage(0x02, 1, 1, 0, [][]byte{[]byte("abc")})
	raw[len(raw)-1] ^= 0xFF // corrupt the payload after the CRC was computed

	s := newTestStream(raw)
	h, _, err := readPage(s)
	if err != nil {
		t.Fatalf("readPage: %v", err)
	}
	if h.crcValid {
		t.Fatal("expected crcValid = false for corrupted payload")
	}
}

func TestReadPageSkipsGarbageBeforeCapture(t *testing.T) {
	raw := buildPage(0x00, 0, 1, 0, [][]byte{[]byte("x")})
	withGarbage := append([]byte{0x00, 0x11, 0x22, 0x33, 0x44}, raw...)

	s := newTestStream(withGarbage)
	h, data, err := readPage(s)
	if err != nil {
		t.Fatalf("readPage: %v", err)
	}
	if !h.crcValid {
		t.Fatal("expected crcValid = true")
	}
	if !bytes.Equal(data, []byte("x")) {
		t.Fatalf("payload mismatch: %q", data)
	}
}

func TestLogicalStreamAssemblesMultiSegmentPacket(t *testing.T) {
	ls := newLogicalStream(42)

	seg1 := bytes.Repeat([]byte{0xAA}, 255)
	seg2 := []byte{0x01, 0x02, 0x03}
	h := &pageHeader{
		Granule:  999,
		Segments: []uint8{255, 3},
	}
	data := append(append([]byte{}, seg1...), seg2...)
	ls.read(h, data)

	pkt, ok := ls.peek()
	if !ok {
		t.Fatal("expected a completed packet")
	}
	want := append(append([]byte{}, seg1...), seg2...)
	if !bytes.Equal(pkt.Data, want) {
		t.Fatal("packet data mismatch across segment boundary")
	}
	if pkt.BaseTS != 999 {
		t.Fatalf("BaseTS = %d, want 999", pkt.BaseTS)
	}

	ls.pop()
	if _, ok := ls.peek(); ok {
		t.Fatal("expected queue empty after pop")
	}
}

func TestLogicalStreamHoldsPartialPacketAcrossPages(t *testing.T) {
	ls := newLogicalStream(1)

	// A page ending with a full (255-byte) segment leaves the packet open.
	h1 := &pageHeader{Segments: []uint8{255}}
	ls.read(h1, bytes.Repeat([]byte{0x01}, 255))
	if _, ok := ls.peek(); ok {
		t.Fatal("packet should not be complete yet")
	}

	h2 := &pageHeader{Granule: 50, Segments: []uint8{2}}
	ls.read(h2, []byte{0x02, 0x03})

	pkt, ok := ls.peek()
	if !ok {
		t.Fatal("expected packet completed on second page")
	}
	if len(pkt.Data) != 257 {
		t.Fatalf("packet length = %d, want 257", len(pkt.Data))
	}
}

func TestLogicalStreamReset(t *testing.T) {
	ls := newLogicalStream(1)
	ls.read(&pageHeader{Segments: []uint8{1}}, []byte{0x01})
	ls.partial = []byte{0x02}

	ls.reset()
	if _, ok := ls.peek(); ok {
		t.Fatal("expected empty queue after reset")
	}
	if ls.partial != nil {
		t.Fatal("expected nil partial after reset")
	}
}
