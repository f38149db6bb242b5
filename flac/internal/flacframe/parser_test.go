package flacframe

import (
	"bytes"
	"testing"

	"github.com/pchchv/audiocore/flac/meta"
	"github.com/pchchv/audiocore/internal/bufseekio"
	"github.com/pchchv/audiocore/internal/hashutil/crc16"
	"github.com/pchchv/audiocore/internal/hashutil/crc8"
)

// buildFrame encodes one minimal, well-formed fixed-blocksize FLAC frame:
// mono, 192-sample blocks, sample rate and bit depth left to be taken from
// stream-info (codes 0x0), with frameNum as its UTF-8 coded frame number and
// an arbitrary all-zero body of bodyLen bytes.
func buildFrame(frameNum byte, bodyLen int) []byte {
	header := []byte{
		0xFF, 0xF8, // sync (14 bits) + reserved(0) + fixed blocksize strategy
		0x10, // block size code 0x1 (192 samples), sample rate code 0x0
		0x00, // channel code 0x0 (mono), sample size code 0x0, reserved 0
		frameNum,
	}
	header = append(header, crc8.Checksum(header))

	frame := append(header, make([]byte, bodyLen)...)
	footer := crc16.Checksum(frame)
	frame = append(frame, byte(footer>>8), byte(footer))
	return frame
}

func testStreamInfo() meta.StreamInfo {
	return meta.StreamInfo{
		BlockSizeMin:  192,
		BlockSizeMax:  192,
		SampleRate:    44100,
		NChannels:     1,
		BitsPerSample: 16,
	}
}

// Two back-to-back, correctly-framed packets with no bytes between them: the
// boundary candidate the scanner finds for frame 0 is exactly frame 1's sync
// word, so frame 0's own fragment ends precisely at its true footer and
// matches its CRC-16 directly, with no queueing or chaining required.
func TestPacketParserReadsBackToBackFrames(t *testing.T) {
	frame0 := buildFrame(0, 8)
	frame1 := buildFrame(1, 8)
	src := append(append([]byte{}, frame0...), frame1...)

	s := bufseekio.NewStream(bufseekio.NewSource(bytes.NewReader(src)))
	var p PacketParser
	p.Reset(testStreamInfo())

	pkt0, err := p.Parse(s)
	if err != nil {
		t.Fatalf("Parse frame 0: %v", err)
	}
	if !bytes.Equal(pkt0.Data, frame0) {
		t.Fatalf("packet 0 mismatch: got %d bytes, want %d", len(pkt0.Data), len(frame0))
	}

	pkt1, err := p.Parse(s)
	if err != nil {
		t.Fatalf("Parse frame 1: %v", err)
	}
	if !bytes.Equal(pkt1.Data, frame1) {
		t.Fatalf("packet 1 mismatch: got %d bytes, want %d", len(pkt1.Data), len(frame1))
	}
}

// Two valid frames with a run of unrelated garbage (no embedded sync-like
// byte pair) spliced between them: the scanner's first header-valid
// candidate past the garbage is frame 1's true header, so the span up to
// it is frame 0's real bytes plus garbage and fails its own CRC-16 check.
// The parser must retry earlier boundary positions for frame 0's real,
// shorter footer rather than dropping frame 0 or folding the garbage into
// either packet.
func TestPacketParserRecoversFrameBeforeGarbage(t *testing.T) {
	frame0 := buildFrame(0, 8)
	frame1 := buildFrame(1, 8)
	garbage := []byte("this is not a flac frame at all!!!!!")

	var src []byte
	src = append(src, frame0...)
	src = append(src, garbage...)
	src = append(src, frame1...)

	s := bufseekio.NewStream(bufseekio.NewSource(bytes.NewReader(src)))
	var p PacketParser
	p.Reset(testStreamInfo())

	pkt0, err := p.Parse(s)
	if err != nil {
		t.Fatalf("Parse frame 0: %v", err)
	}
	if !bytes.Equal(pkt0.Data, frame0) {
		t.Fatalf("packet 0 mismatch: got %d bytes, want %d", len(pkt0.Data), len(frame0))
	}

	pkt1, err := p.Parse(s)
	if err != nil {
		t.Fatalf("Parse frame 1: %v", err)
	}
	if !bytes.Equal(pkt1.Data, frame1) {
		t.Fatalf("packet 1 mismatch: got %d bytes, want %d", len(pkt1.Data), len(frame1))
	}
}

func TestPacketParserRejectsBadCRC(t *testing.T) {
	frame0 := buildFrame(0, 8)
	frame0[len(frame0)-1] ^= 0xFF // corrupt the footer CRC-16

	s := bufseekio.NewStream(bufseekio.NewSource(bytes.NewReader(frame0)))
	var p PacketParser
	p.Reset(testStreamInfo())

	// With no further bytes to resync onto, Parse must not fabricate a
	// packet whose CRC-16 doesn't match; it surfaces EOF instead.
	_, err := p.Parse(s)
	if err == nil {
		t.Fatal("expected an error (EOF) rather than a CRC-invalid packet")
	}
}
