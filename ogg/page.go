// Package ogg provides demuxing primitives for Xiph's OGG container format:
// page synchronization and CRC verification, logical-stream packet
// assembly, and codec identification from a stream's first packet. It has
// no Reader of its own and does not seek.
package ogg

import (
	"encoding/binary"
	"errors"

	"github.com/pchchv/audiocore/internal/bufseekio"
	"github.com/pchchv/audiocore/internal/hashutil/crc32"
)

// pageHeaderFixedSize is the size, in bytes, of an OGG page header up to
// (and including) the segment count, not counting the segment table itself.
const pageHeaderFixedSize = 27

// maxPageSyncScan bounds how far sync_page will scan looking for the "OggS"
// capture pattern before giving up, so a non-OGG source fails fast instead
// of scanning to EOF one byte at a time.
const maxPageSyncScan = 1 << 20

var oggCapturePattern = []byte("OggS")

// errNoCapturePattern is returned when no "OggS" marker is found within
// maxPageSyncScan bytes of the current position.
var errNoCapturePattern = errors.New("ogg: no page capture pattern found")

// pageHeader is the parsed form of one OGG page header, the fields named in
// the same way as the page struct this package works from: version, ts
// (granule position), serial, sequence, crc, the three header-type flags,
// n_segments and the segment table itself.
type pageHeader struct {
	Version        uint8
	Granule        uint64 // granule position; all-ones means "no packet completes on this page"
	Serial         uint32
	Sequence       uint32
	CRC            uint32
	IsContinuation bool
	IsFirstPage    bool
	IsLastPage     bool
	Segments       []uint8
	crcValid       bool
}

// dataLen returns the total number of payload bytes implied by the page's
// segment table.
func (h *pageHeader) dataLen() int {
	n := 0
	for _, s := range h.Segments {
		n += int(s)
	}
	return n
}

// noGranule is the reserved granule position value meaning "no packet
// completes on this page".
const noGranule = ^uint64(0)

// readPage synchronizes to the next page capture pattern in s, parses its
// header and segment table, reads its payload, and verifies its CRC-32 with
// the checksum field zeroed during computation. The CRC result is recorded
// in the returned header's crcValid field rather than treated as an error,
// since a bad CRC is a recoverable framing condition the caller resolves
// depending on whether the page is a first page or belongs to a known
// logical stream.
func readPage(s *bufseekio.Stream) (*pageHeader, []byte, error) {
	if _, found, err := s.ScanForBytes(oggCapturePattern, maxPageSyncScan); err != nil {
		return nil, nil, err
	} else if !found {
		return nil, nil, errNoCapturePattern
	}

	var fixed [pageHeaderFixedSize - 4]byte
	if err := s.ReadFull(fixed[:]); err != nil {
		return nil, nil, err
	}

	version := fixed[0]
	headerType := fixed[1]
	granule := binary.LittleEndian.Uint64(fixed[2:10])
	serial := binary.LittleEndian.Uint32(fixed[10:14])
	sequence := binary.LittleEndian.Uint32(fixed[14:18])
	storedCRC := binary.LittleEndian.Uint32(fixed[18:22])
	nSegments := fixed[22]

	segments := make([]byte, nSegments)
	if err := s.ReadFull(segments); err != nil {
		return nil, nil, err
	}

	h := &pageHeader{
		Version:        version,
		Granule:        granule,
		Serial:         serial,
		Sequence:       sequence,
		CRC:            storedCRC,
		IsContinuation: headerType&0x01 != 0,
		IsFirstPage:    headerType&0x02 != 0,
		IsLastPage:     headerType&0x04 != 0,
		Segments:       segments,
	}

	data := make([]byte, h.dataLen())
	if err := s.ReadFull(data); err != nil {
		return nil, nil, err
	}

	var hdrBuf [pageHeaderFixedSize]byte
	copy(hdrBuf[0:4], oggCapturePattern)
	hdrBuf[4] = version
	hdrBuf[5] = headerType
	binary.LittleEndian.PutUint64(hdrBuf[6:14], granule)
	binary.LittleEndian.PutUint32(hdrBuf[14:18], serial)
	binary.LittleEndian.PutUint32(hdrBuf[18:22], sequence)
	// hdrBuf[22:26], the CRC field, stays zeroed for the checksum.
	hdrBuf[26] = nSegments

	digest := crc32.NewOGG()
	digest.Write(hdrBuf[:])
	digest.Write(segments)
	digest.Write(data)
	h.crcValid = digest.Sum32() == storedCRC

	return h, data, nil
}
