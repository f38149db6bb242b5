// Package ioutilx collects small io helpers shared by the bitstream-adjacent
// internal packages.
package ioutilx

import "io"

// ReadByte reads and returns a single byte from r, using r's own ReadByte
// method when available and falling back to a one-byte Read otherwise.
func ReadByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
