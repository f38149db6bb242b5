package bufseekio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// xorshiftStream reproduces the deterministic byte generator described for
// the exponential read-ahead scenario: an LCG seeded at 0xEC57C4BF.
func xorshiftStream(n int) []byte {
	buf := make([]byte, n)
	lcg := uint32(0xEC57C4BF)
	for i := range buf {
		lcg = lcg*1664525 + 1013904223
		buf[i] = byte(lcg >> 24)
	}
	return buf
}

func TestStreamExponentialReadAhead(t *testing.T) {
	data := xorshiftStream(160 << 10)
	s := NewStream(NewSource(bytes.NewReader(data)))

	pos := 0
	for i := 0; i < 96<<10; i++ {
		b, err := s.ReadByte()
		if err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
		if b != data[pos] {
			t.Fatalf("byte %d: want %#x got %#x", i, data[pos], b)
		}
		pos++
	}

	if err := s.IgnoreBytes(11); err != nil {
		t.Fatalf("ignore_bytes: %v", err)
	}
	pos += 11

	for i := 0; i < 48<<10; i++ {
		v, err := s.ReadU16BE()
		if err != nil {
			t.Fatalf("pair %d: %v", i, err)
		}
		want := binary.BigEndian.Uint16(data[pos : pos+2])
		if v != want {
			t.Fatalf("pair %d: want %#x got %#x", i, want, v)
		}
		pos += 2
	}

	want := 96*1024 + 11 + 2*48*1024
	if pos != want {
		t.Fatalf("total bytes read: want %d got %d", want, pos)
	}
}

func TestStreamBufferedSeek(t *testing.T) {
	data := xorshiftStream(16 << 10)
	s := NewStream(NewSource(bytes.NewReader(data)))

	buf := make([]byte, 5122)
	if err := s.ReadFull(buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	want := buf[5121]

	if p := s.SeekBufferedRel(-1000); p != 4123 {
		t.Fatalf("seek -1000: want pos 4123 got %d", p)
	}
	if l := s.ReadBufferLen(); l != 4123 {
		t.Fatalf("read_buffer_len: want 4123 got %d", l)
	}

	if p := s.SeekBufferedRel(999); p != 5122 {
		t.Fatalf("seek +999: want pos 5122 got %d", p)
	}

	got, err := s.ReadByte()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != want {
		t.Fatalf("want %#x got %#x", want, got)
	}
}

func TestStreamPosInvariant(t *testing.T) {
	data := xorshiftStream(8 << 10)
	inner := bytes.NewReader(data)
	s := NewStream(NewSource(inner))

	for i := 0; i < 500; i++ {
		if _, err := s.ReadByte(); err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
		if s.Pos()+int64(s.UnreadBufferLen()) != int64(inner.Size())-int64(inner.Len()) {
			t.Fatalf("pos invariant violated at iteration %d", i)
		}
	}
}
