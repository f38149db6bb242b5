// Package crc32 implements the non-reflected CRC-32 (polynomial 0x04c11db7,
// initial value 0, no final XOR) used to verify OGG page checksums. This is
// not the same table as the reflected CRC-32 in the standard hash/crc32
// package (the IEEE/zlib variant) and cannot share its tables.
package crc32

import "github.com/pchchv/audiocore/internal/hashutil"

// Size of a CRC-32 checksum in bytes.
const Size = 4

// OGG is the polynomial OGG page headers are checksummed with.
const OGG = 0x04c11db7

// Table is a 256-word table representing the
// polynomial for efficient processing.
type Table [256]uint32

// MakeTable returns a Table constructed from poly, computed bit-by-bit
// (non-reflected, most-significant-bit first) to match how the OGG page
// CRC-32 is defined.
func MakeTable(poly uint32) *Table {
	var t Table
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for bit := 0; bit < 8; bit++ {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return &t
}

var oggTable = MakeTable(OGG)

// digest represents the partial evaluation of a checksum.
type digest struct {
	crc   uint32
	table *Table
}

// New creates a new hashutil.Hash32 computing the CRC-32 checksum using the
// polynomial represented by table.
func New(table *Table) hashutil.Hash32 {
	return &digest{table: table}
}

// NewOGG creates a new hashutil.Hash32 using the OGG page polynomial.
func NewOGG() hashutil.Hash32 {
	return New(oggTable)
}

func (d *digest) Write(p []byte) (int, error) {
	crc := d.crc
	for _, b := range p {
		crc = crc<<8 ^ d.table[byte(crc>>24)^b]
	}
	d.crc = crc
	return len(p), nil
}

// Sum32 returns the 32-bit checksum of the hash.
func (d *digest) Sum32() uint32 {
	return d.crc
}

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

func (d *digest) Size() int {
	return Size
}

func (d *digest) BlockSize() int {
	return 1
}

func (d *digest) Reset() {
	d.crc = 0
}

// Checksum returns the OGG CRC-32 checksum of data.
func Checksum(data []byte) uint32 {
	d := digest{table: oggTable}
	_, _ = d.Write(data)
	return d.crc
}
