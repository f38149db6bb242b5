package mp3

import "github.com/pchchv/audiocore/internal/bitstream"

// countingReader wraps an MSBReader and tracks the cumulative number of
// bits consumed through it, so a granule's main-data read can be stopped
// exactly at its Part2And3Length budget (spec's part3_bits accounting).
// bitstream.MSBReader has no such counter of its own since FLAC and PCM
// never need one; it is kept local to this package rather than added to
// the shared bitstream package for that reason.
type countingReader struct {
	br    *bitstream.MSBReader
	count uint32
}

func newCountingReader(br *bitstream.MSBReader) *countingReader {
	return &countingReader{br: br}
}

func (c *countingReader) ReadBitsLeq32(n uint) (uint32, error) {
	v, err := c.br.ReadBitsLeq32(n)
	if err == nil {
		c.count += uint32(n)
	}
	return v, err
}

func (c *countingReader) ReadBit() (bool, error) {
	v, err := c.br.ReadBit()
	if err == nil {
		c.count++
	}
	return v, err
}

func (c *countingReader) ReadBitsSigned(n uint) (int32, error) {
	v, err := c.br.ReadBitsSigned(n)
	if err == nil {
		c.count += uint32(n)
	}
	return v, err
}

func (c *countingReader) ReadUnary() (uint32, error) {
	n, err := c.br.ReadUnary()
	if err == nil {
		c.count += n + 1
	}
	return n, err
}

// BitsRead returns the number of bits consumed so far.
func (c *countingReader) BitsRead() uint32 { return c.count }

var _ interface {
	ReadBitsLeq32(n uint) (uint32, error)
} = (*countingReader)(nil)
