// Package frame implements access to FLAC audio frames.
// FLAC encoders divide the audio stream into blocks through a process called blocking.
// A block contains uncoded audio samples from all channels in a short period of time.
// Each audio block is divided into sub-blocks, one per channel.
// There is often a correlation between the left and right channels of stereo audio.
// Using inter-channel decorrelation,
// it is possible to store only one of the channels and the difference between them,
// or store the average of the channels and their difference.
// The encoder decorrelates audio samples as follows:
//
//	mid = (left + right)/2 // average of the channels
//	side = left - right    // difference between the channels
//
// Blocks are encoded using different prediction methods and stored in frames.
// Blocks and sub-blocks contain unencoded audio samples,
// while frames and sub-frames contain encoded audio samples.
// A FLAC stream contains one or more audio frames.
package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/pchchv/audiocore/internal/bitstream"
	"github.com/pchchv/audiocore/internal/hashutil/crc16"
	"github.com/pchchv/audiocore/internal/hashutil/crc8"
	"github.com/pchchv/audiocore/internal/utf8"
)

// Channels specifies the number of channels (subframes) that exist in a frame,
// their order and possible inter-channel decorrelation.
type Channels uint8

const (
	ChannelsMono Channels = iota
	ChannelsLR
	ChannelsLRC
	ChannelsLRLsRs
	ChannelsLRCLsRs
	ChannelsLRCLfeLsRs
	ChannelsLRCLfeCsSlSr
	ChannelsLRCLfeLsRsSlSr
	ChannelsLeftSide
	ChannelsSideRight
	ChannelsMidSide
)

// Count returns the number of subframes (channels) stored for this channel
// assignment.
func (c Channels) Count() int {
	switch c {
	case ChannelsMono:
		return 1
	case ChannelsLR, ChannelsLeftSide, ChannelsSideRight, ChannelsMidSide:
		return 2
	case ChannelsLRC:
		return 3
	case ChannelsLRLsRs:
		return 4
	case ChannelsLRCLsRs:
		return 5
	case ChannelsLRCLfeLsRs:
		return 6
	case ChannelsLRCLfeCsSlSr:
		return 7
	case ChannelsLRCLfeLsRsSlSr:
		return 8
	default:
		return 0
	}
}

func (c Channels) String() string {
	switch c {
	case ChannelsMono:
		return "mono"
	case ChannelsLR:
		return "left/right"
	case ChannelsLRC:
		return "left/right/center"
	case ChannelsLRLsRs:
		return "left/right/left surround/right surround"
	case ChannelsLRCLsRs:
		return "left/right/center/left surround/right surround"
	case ChannelsLRCLfeLsRs:
		return "left/right/center/LFE/left surround/right surround"
	case ChannelsLRCLfeCsSlSr:
		return "left/right/center/LFE/center surround/side left/side right"
	case ChannelsLRCLfeLsRsSlSr:
		return "left/right/center/LFE/left surround/right surround/side left/side right"
	case ChannelsLeftSide:
		return "left/side"
	case ChannelsSideRight:
		return "side/right"
	case ChannelsMidSide:
		return "mid/side"
	default:
		return "invalid"
	}
}

// BlockSequence identifies a frame's position within the stream: either by
// sample number (used when the stream uses variable block sizes) or by
// frame number (used when the stream uses a fixed block size).
type BlockSequence struct {
	IsSample bool
	Num      uint64
}

// Header specifies the parameters of a frame, such as its channel
// assignment, bits-per-sample and sample rate.
type Header struct {
	// HasFixedBlockSize reports whether this stream uses fixed block sizes,
	// identifying frames by frame number rather than sample number.
	HasFixedBlockSize bool
	// BlockSize is the number of inter-channel samples in the block.
	BlockSize uint16
	// SampleRate in Hz; zero means the value must be taken from StreamInfo.
	SampleRate uint32
	// Channels specifies the number of channels (subframes)
	// and any inter-channel decorrelation.
	Channels Channels
	// BitsPerSample; zero means the value must be taken from StreamInfo.
	BitsPerSample uint8
	// Num is this frame's position in the stream.
	Num BlockSequence
}

// SampleNumber returns the sample number of the first sample contained
// within the frame.
func (h *Header) SampleNumber() uint64 {
	if h.Num.IsSample {
		return h.Num.Num
	}
	return h.Num.Num * uint64(h.BlockSize)
}

// Frame holds the header and subframes (one per channel) of an audio frame.
type Frame struct {
	Header
	// Subframes contains one subframe per channel.
	Subframes []*Subframe
}

var (
	// ErrInvalidSync is returned when the 14-bit frame sync code is absent.
	ErrInvalidSync = errors.New("frame: invalid sync code")
	// ErrReserved is returned when a reserved header bit or code is set.
	ErrReserved = errors.New("frame: reserved bit set")
	// ErrCRC8 is returned when the frame header fails its CRC-8 check.
	ErrCRC8 = errors.New("frame: header CRC-8 mismatch")
	// ErrCRC16 is returned when the frame fails its CRC-16 check.
	ErrCRC16 = errors.New("frame: footer CRC-16 mismatch")
)

var fixedBlockSizeTable = map[uint8]uint16{
	0x1: 192,
	0x2: 576,
	0x3: 1152,
	0x4: 2304,
	0x5: 4608,
	0x8: 256,
	0x9: 512,
	0xA: 1024,
	0xB: 2048,
	0xC: 4096,
	0xD: 8192,
	0xE: 16384,
	0xF: 32768,
}

var sampleRateTable = map[uint8]uint32{
	0x1: 88200,
	0x2: 176400,
	0x3: 192000,
	0x4: 8000,
	0x5: 16000,
	0x6: 22050,
	0x7: 24000,
	0x8: 32000,
	0x9: 44100,
	0xA: 48000,
	0xB: 96000,
}

// DecodeHeader reads and decodes a frame header from r, verifying its
// CRC-8 checksum. r must be positioned at the first byte of the sync code.
func DecodeHeader(r io.Reader) (*Header, error) {
	h8 := crc8.NewATM()
	tr := io.TeeReader(r, h8)

	var buf [2]byte
	if _, err := io.ReadFull(tr, buf[:]); err != nil {
		return nil, err
	}
	sync := uint16(buf[0])<<8 | uint16(buf[1])
	if sync&0xFFFC != 0xFFF8 {
		return nil, ErrInvalidSync
	}
	if sync&0x2 != 0 {
		return nil, ErrReserved
	}
	hdr := &Header{HasFixedBlockSize: sync&0x1 == 0}

	var bb [2]byte
	if _, err := io.ReadFull(tr, bb[:]); err != nil {
		return nil, err
	}
	blockSizeCode := bb[0] >> 4
	sampleRateCode := bb[0] & 0xF
	channelCode := bb[1] >> 4
	sampleSizeCode := (bb[1] >> 1) & 0x7
	if bb[1]&0x1 != 0 {
		return nil, ErrReserved
	}

	switch {
	case blockSizeCode == 0x0:
		return nil, fmt.Errorf("frame: reserved block size code")
	case blockSizeCode == 0x1:
		hdr.BlockSize = 192
	case blockSizeCode >= 0x2 && blockSizeCode <= 0x5:
		hdr.BlockSize = fixedBlockSizeTable[blockSizeCode]
	case blockSizeCode >= 0x8:
		hdr.BlockSize = fixedBlockSizeTable[blockSizeCode]
	}

	switch sampleRateCode {
	case 0x0:
		hdr.SampleRate = 0
	case 0xF:
		return nil, fmt.Errorf("frame: invalid sample rate code")
	default:
		if sampleRateCode < 0xC {
			hdr.SampleRate = sampleRateTable[sampleRateCode]
		}
	}

	switch channelCode {
	case 0x0:
		hdr.Channels = ChannelsMono
	case 0x1:
		hdr.Channels = ChannelsLR
	case 0x2:
		hdr.Channels = ChannelsLRC
	case 0x3:
		hdr.Channels = ChannelsLRLsRs
	case 0x4:
		hdr.Channels = ChannelsLRCLsRs
	case 0x5:
		hdr.Channels = ChannelsLRCLfeLsRs
	case 0x6:
		hdr.Channels = ChannelsLRCLfeCsSlSr
	case 0x7:
		hdr.Channels = ChannelsLRCLfeLsRsSlSr
	case 0x8:
		hdr.Channels = ChannelsLeftSide
	case 0x9:
		hdr.Channels = ChannelsSideRight
	case 0xA:
		hdr.Channels = ChannelsMidSide
	default:
		return nil, fmt.Errorf("frame: reserved channel assignment code %#x", channelCode)
	}

	switch sampleSizeCode {
	case 0x0:
		hdr.BitsPerSample = 0
	case 0x1:
		hdr.BitsPerSample = 8
	case 0x2:
		hdr.BitsPerSample = 12
	case 0x4:
		hdr.BitsPerSample = 16
	case 0x5:
		hdr.BitsPerSample = 20
	case 0x6:
		hdr.BitsPerSample = 24
	default:
		return nil, fmt.Errorf("frame: reserved sample size code %#x", sampleSizeCode)
	}

	num, err := utf8.Decode(tr)
	if err != nil {
		return nil, fmt.Errorf("frame: decoding frame/sample number: %w", err)
	}
	hdr.Num = BlockSequence{IsSample: !hdr.HasFixedBlockSize, Num: num}

	if blockSizeCode == 0x6 {
		b, err := readByte(tr)
		if err != nil {
			return nil, err
		}
		hdr.BlockSize = uint16(b) + 1
	} else if blockSizeCode == 0x7 {
		var b [2]byte
		if _, err := io.ReadFull(tr, b[:]); err != nil {
			return nil, err
		}
		hdr.BlockSize = uint16(b[0])<<8 | uint16(b[1]) + 1
	}

	switch sampleRateCode {
	case 0xC:
		b, err := readByte(tr)
		if err != nil {
			return nil, err
		}
		hdr.SampleRate = uint32(b) * 1000
	case 0xD:
		var b [2]byte
		if _, err := io.ReadFull(tr, b[:]); err != nil {
			return nil, err
		}
		hdr.SampleRate = uint32(b[0])<<8 | uint32(b[1])
	case 0xE:
		var b [2]byte
		if _, err := io.ReadFull(tr, b[:]); err != nil {
			return nil, err
		}
		hdr.SampleRate = (uint32(b[0])<<8 | uint32(b[1])) * 10
	}

	want, err := readByte(r)
	if err != nil {
		return nil, err
	}
	if h8.Sum8() != want {
		return nil, ErrCRC8
	}

	return hdr, nil
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(r, b[:])
	return b[0], err
}

// New parses the frame header of the next audio frame in r, ignoring its
// subframes and footer. r must be positioned at the start of the frame.
func New(r io.Reader) (*Frame, error) {
	hdr, err := DecodeHeader(r)
	if err != nil {
		return nil, err
	}
	return &Frame{Header: *hdr}, nil
}

// Parse decodes the full next frame (header, subframes, and footer) from r.
// r must contain exactly one frame's bytes, as produced by a resynchronizing
// packet parser.
func Parse(r io.Reader) (*Frame, error) {
	h16 := crc16.NewANSI()
	tr := io.TeeReader(r, h16)

	hdr, err := DecodeHeader(tr)
	if err != nil {
		return nil, err
	}

	br := bitstream.NewMSBReader(tr)
	nsubframes := hdr.Channels.Count()
	subframes := make([]*Subframe, nsubframes)
	for ch := 0; ch < nsubframes; ch++ {
		bps := uint(hdr.BitsPerSample)
		if (hdr.Channels == ChannelsLeftSide && ch == 1) ||
			(hdr.Channels == ChannelsSideRight && ch == 0) ||
			(hdr.Channels == ChannelsMidSide && ch == 1) {
			bps++
		}
		sf, err := decodeSubframe(br, int(hdr.BlockSize), bps)
		if err != nil {
			return nil, fmt.Errorf("frame: subframe %d: %w", ch, err)
		}
		subframes[ch] = sf
	}
	br.Realign()

	decorrelate(hdr.Channels, subframes)

	// Read and compare the footer CRC-16. The footer itself (the CRC bytes)
	// must not be folded into the running checksum, so read it straight
	// from r rather than through the tee.
	var footer [2]byte
	if _, err := io.ReadFull(r, footer[:]); err != nil {
		return nil, err
	}
	got := uint16(footer[0])<<8 | uint16(footer[1])
	if h16.Sum16() != got {
		return nil, ErrCRC16
	}

	return &Frame{Header: *hdr, Subframes: subframes}, nil
}

// decorrelate reverses the frame's inter-channel decorrelation in place,
// turning left/side, side/right, or mid/side subframe pairs back into
// independent channel samples.
func decorrelate(channels Channels, subframes []*Subframe) {
	switch channels {
	case ChannelsLeftSide:
		left, side := subframes[0].Samples, subframes[1].Samples
		for i := range left {
			side[i] = left[i] - side[i]
		}
	case ChannelsSideRight:
		side, right := subframes[0].Samples, subframes[1].Samples
		for i := range side {
			side[i] = right[i] + side[i]
		}
	case ChannelsMidSide:
		mid, side := subframes[0].Samples, subframes[1].Samples
		for i := range mid {
			s := side[i]
			m := (mid[i] << 1) | (s & 1)
			mid[i] = (m + s) >> 1
			side[i] = (m - s) >> 1
		}
	}
}
