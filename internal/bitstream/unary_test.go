package bitstream_test

import (
	"bytes"
	"testing"

	"github.com/pchchv/audiocore/internal/bitstream"
)

func TestMSBReaderReadUnary(t *testing.T) {
	data := []byte{0x01, 0x10, 0x00, 0x80, 0xFB}
	want := []uint32{7, 3, 12, 7, 0, 0, 0, 0, 1, 0}

	r := bitstream.NewMSBReader(bytes.NewReader(data))
	for i, w := range want {
		got, err := r.ReadUnary()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("read %d: want %d got %d", i, w, got)
		}
	}
}

func TestMSBReaderConcatenatedReadsMatchSingleRead(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	a := bitstream.NewMSBReader(bytes.NewReader(data))
	n, err := a.ReadBitsLeq32(9)
	if err != nil {
		t.Fatal(err)
	}
	m, err := a.ReadBitsLeq32(7)
	if err != nil {
		t.Fatal(err)
	}
	got := uint64(n)<<7 | uint64(m)

	b := bitstream.NewMSBReader(bytes.NewReader(data))
	want, err := b.ReadBitsLeq32(16)
	if err != nil {
		t.Fatal(err)
	}

	if uint64(want) != got {
		t.Fatalf("want %#x got %#x", want, got)
	}
}

func TestLSBReaderReadUnary(t *testing.T) {
	// 0b1110_1101 read LSb-first: 1,0,1,1,0,1,1,1 -> ones=1 then 0 (n=1);
	// then 1,1 then 0 (n=2); then 1,1,1 with stream exhausted.
	data := []byte{0b1110_1101}
	r := bitstream.NewLSBReader(bytes.NewReader(data))

	n1, err := r.ReadUnary()
	if err != nil || n1 != 1 {
		t.Fatalf("first unary: n=%d err=%v", n1, err)
	}
	n2, err := r.ReadUnary()
	if err != nil || n2 != 2 {
		t.Fatalf("second unary: n=%d err=%v", n2, err)
	}
}

func TestLSBReaderReadsLowBitsFirst(t *testing.T) {
	data := []byte{0x5A, 0xC3}
	r := bitstream.NewLSBReader(bytes.NewReader(data))

	v, err := r.ReadBitsLeq32(4)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xA {
		t.Fatalf("want low nibble 0xA got %#x", v)
	}
}
