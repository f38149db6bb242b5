// Package bitstream implements the two bit-extraction disciplines used by
// the container/codec parsers in this module: MSb-first (used by FLAC, AAC
// and MP3 frame headers and bitstreams) and LSb-first (used by Vorbis-style
// formats). Both sit on top of a plain io.Reader and additionally provide
// unary and Huffman/VLC decoding.
package bitstream

import (
	"io"

	"github.com/icza/bitio"
)

// MSBReader reads bits most-significant-bit first. It wraps icza/bitio's
// Reader, which already implements this discipline efficiently, and adds
// the signed, unary, and Huffman decoding operations this module needs on
// top of it.
type MSBReader struct {
	r *bitio.Reader
}

// NewMSBReader returns a new MSb-first bit reader over r.
func NewMSBReader(r io.Reader) *MSBReader {
	return &MSBReader{r: bitio.NewReader(r)}
}

// ReadBit reads a single bit.
func (r *MSBReader) ReadBit() (bool, error) {
	return r.r.ReadBool()
}

// ReadBitsLeq32 reads n (<= 32) bits and returns them right-justified.
func (r *MSBReader) ReadBitsLeq32(n uint) (uint32, error) {
	u, err := r.r.ReadBits(uint8(n))
	return uint32(u), err
}

// ReadBitsLeq64 reads n (<= 64) bits and returns them right-justified.
func (r *MSBReader) ReadBitsLeq64(n uint) (uint64, error) {
	return r.r.ReadBits(uint8(n))
}

// ReadBitsSigned reads n bits and sign-extends the result, treating bit
// n-1 (as read) as the sign bit.
func (r *MSBReader) ReadBitsSigned(n uint) (int32, error) {
	u, err := r.ReadBitsLeq32(n)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	signBit := uint32(1) << (n - 1)
	if u&signBit != 0 {
		return int32(u) - int32(signBit<<1), nil
	}
	return int32(u), nil
}

// ReadByteAligned reads the next 8 bits as a byte.
func (r *MSBReader) ReadByteAligned() (byte, error) {
	return r.r.ReadByte()
}

// ReadUnary counts the number of leading 0 bits up to (and consuming) the
// next 1 bit, returning the count. This is the classic Rice/Golomb unary
// prefix used by FLAC residual coding and MP3 Huffman overrun handling.
func (r *MSBReader) ReadUnary() (uint32, error) {
	var n uint32
	for {
		bit, err := r.r.ReadBool()
		if err != nil {
			return n, err
		}
		if bit {
			return n, nil
		}
		n++
	}
}

// Realign discards any partially consumed byte, so the next read starts on
// a byte boundary.
func (r *MSBReader) Realign() {
	r.r.Align()
}

// IgnoreBits discards n bits without returning them.
func (r *MSBReader) IgnoreBits(n uint) error {
	for n > 32 {
		if _, err := r.ReadBitsLeq32(32); err != nil {
			return err
		}
		n -= 32
	}
	if n > 0 {
		_, err := r.ReadBitsLeq32(n)
		return err
	}
	return nil
}
