// Package crc16 implements the non-reflected CRC-16 (polynomial 0x8005,
// initial value 0) used as the FLAC frame footer checksum.
package crc16

import "github.com/pchchv/audiocore/internal/hashutil"

// Size of a CRC-16 checksum in bytes.
const Size = 2

// ANSI is the polynomial FLAC frame footers are checksummed with.
const ANSI = 0x8005

// Table is a 256-word table representing the
// polynomial for efficient processing.
type Table [256]uint16

// MakeTable returns a Table constructed from poly, computed bit-by-bit
// (non-reflected, most-significant-bit first) to match how FLAC's CRC-16
// is defined.
func MakeTable(poly uint16) *Table {
	var t Table
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return &t
}

var ansiTable = MakeTable(ANSI)

// digest represents the partial evaluation of a checksum.
type digest struct {
	crc   uint16
	table *Table
}

// New creates a new hashutil.Hash16 computing the CRC-16 checksum using the
// polynomial represented by table.
func New(table *Table) hashutil.Hash16 {
	return &digest{table: table}
}

// NewANSI creates a new hashutil.Hash16 using the FLAC footer polynomial.
func NewANSI() hashutil.Hash16 {
	return New(ansiTable)
}

func (d *digest) Write(p []byte) (int, error) {
	crc := d.crc
	for _, b := range p {
		crc = crc<<8 ^ d.table[byte(crc>>8)^b]
	}
	d.crc = crc
	return len(p), nil
}

// Sum16 returns the 16-bit checksum of the hash.
func (d *digest) Sum16() uint16 {
	return d.crc
}

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum16()
	return append(in, byte(s>>8), byte(s))
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

// Checksum returns the ANSI CRC-16 checksum of data.
func Checksum(data []byte) uint16 {
	d := digest{table: ansiTable}
	_, _ = d.Write(data)
	return d.crc
}
