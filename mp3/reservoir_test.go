package mp3

import (
	"bytes"
	"testing"
)

func TestReservoirFirstFrameNoCarryover(t *testing.T) {
	rv := newReservoir()
	ok := rv.fill([]byte{1, 2, 3}, 0)
	if !ok {
		t.Fatalf("fill: want ok=true for mainDataBegin=0")
	}
	if got := rv.bytes(); !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("bytes = %v, want [1 2 3]", got)
	}
}

func TestReservoirUnderflowRecovers(t *testing.T) {
	rv := newReservoir()
	// Nothing carried over yet, but this frame claims 10 bytes of history.
	ok := rv.fill([]byte{9, 9}, 10)
	if ok {
		t.Fatalf("fill: want ok=false on underflow")
	}
	if got := rv.bytes(); !bytes.Equal(got, []byte{9, 9}) {
		t.Fatalf("bytes after underflow = %v, want [9 9]", got)
	}
}

func TestReservoirCarriesOverTail(t *testing.T) {
	rv := newReservoir()
	if ok := rv.fill([]byte{1, 2, 3, 4, 5}, 0); !ok {
		t.Fatalf("first fill failed")
	}
	// Next frame reaches back 2 bytes into the previous frame's data.
	ok := rv.fill([]byte{6, 7}, 2)
	if !ok {
		t.Fatalf("fill: want ok=true, reservoir holds enough history")
	}
	want := []byte{4, 5, 6, 7}
	if got := rv.bytes(); !bytes.Equal(got, want) {
		t.Fatalf("bytes = %v, want %v", got, want)
	}
}

func TestReservoirClear(t *testing.T) {
	rv := newReservoir()
	rv.fill([]byte{1, 2, 3}, 0)
	rv.clear()
	if len(rv.bytes()) != 0 {
		t.Fatalf("bytes after clear = %v, want empty", rv.bytes())
	}
}
