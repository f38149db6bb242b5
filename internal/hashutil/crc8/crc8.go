// Package crc8 implements the non-reflected CRC-8 (polynomial 0x07, initial
// value 0) used as the FLAC frame header checksum.
package crc8

import "github.com/pchchv/audiocore/internal/hashutil"

// Size of a CRC-8 checksum in bytes.
const Size = 1

// ATM is the polynomial FLAC frame headers are checksummed with.
const ATM = 0x07

// Table is a 256-word table representing
// the polynomial for efficient processing.
type Table [256]uint8

// MakeTable returns a Table constructed from poly.
func MakeTable(poly uint8) *Table {
	var t Table
	for i := 0; i < 256; i++ {
		crc := uint8(i)
		for bit := 0; bit < 8; bit++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return &t
}

var atmTable = MakeTable(ATM)

// digest represents the partial evaluation of a checksum.
type digest struct {
	crc   uint8
	table *Table
}

// New creates a new hashutil.Hash8 computing the CRC-8 checksum using the
// polynomial represented by table.
func New(table *Table) hashutil.Hash8 {
	return &digest{table: table}
}

// NewATM creates a new hashutil.Hash8 using the FLAC header polynomial.
func NewATM() hashutil.Hash8 {
	return New(atmTable)
}

func (d *digest) Write(p []byte) (int, error) {
	crc := d.crc
	for _, b := range p {
		crc = d.table[crc^b]
	}
	d.crc = crc
	return len(p), nil
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

// Sum8 returns the 8-bit checksum of the hash.
func (d *digest) Sum8() uint8 {
	return d.crc
}

func (d *digest) Sum(in []byte) []byte {
	return append(in, d.crc)
}

// Checksum returns the ATM CRC-8 checksum of data.
func Checksum(data []byte) uint8 {
	d := digest{table: atmTable}
	_, _ = d.Write(data)
	return d.crc
}
