package pcm

import "testing"

// The canonical A-law decode table has exactly two bytes that expand to the
// minimum nonzero magnitude (+-8): the byte with (x^0x55)&0x70==0 and
// (x^0x55)&0x0F==0 for each sign, which works out to 0xD5 (positive) and
// 0x55 (negative).
func TestDecodeALaw(t *testing.T) {
	cases := []struct {
		in   uint8
		want int16
	}{
		{0xD5, 8},
		{0x55, -8},
		{0x2A, -32256},
	}
	for _, c := range cases {
		if got := decodeALaw(c.in); got != c.want {
			t.Errorf("decodeALaw(%#02x) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDecodeMuLaw(t *testing.T) {
	cases := []struct {
		in   uint8
		want int16
	}{
		{0xFF, 0},
		{0x7F, 0},
		{0x00, -32124},
		{0x80, 32124},
	}
	for _, c := range cases {
		if got := decodeMuLaw(c.in); got != c.want {
			t.Errorf("decodeMuLaw(%#02x) = %d, want %d", c.in, got, c.want)
		}
	}
}
