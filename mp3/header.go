package mp3

import (
	"errors"
	"fmt"
)

// MpegVersion identifies the bitstream version a frame header declares,
// which in turn selects the side-information layout and scale-factor
// band tables used throughout the rest of the granule pipeline.
type MpegVersion int

const (
	Mpeg1 MpegVersion = iota
	Mpeg2
	Mpeg2p5
)

// ChannelMode is the frame's channel coding mode.
type ChannelMode int

const (
	ModeStereo ChannelMode = iota
	ModeJointStereo
	ModeDualMono
	ModeMono
)

// NumChannels returns the number of audio channels (1 or 2) for the mode.
func (m ChannelMode) NumChannels() int {
	if m == ModeMono {
		return 1
	}
	return 2
}

// ModeExtension describes, for ModeJointStereo frames, which of
// mid-side and/or intensity stereo coding is in effect.
type ModeExtension struct {
	MidSide   bool
	Intensity bool
}

// bit rate tables in kbps, indexed by the 4-bit bitrate_index field; index
// 0 is "free format" (unsupported) and 15 is reserved, per
// dmulholl-mp3cat/mp3lib.go's v1l3_br/v2l3_br tables (Layer III only; this
// package never sees Layer I/II frames).
var (
	bitrateMpeg1L3 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, -1}
	bitrateMpeg2L3 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, -1}
)

// sample rate tables in Hz, indexed by the 2-bit sample_rate_index field
// (index 3 is reserved). sampleRateIdx used throughout the rest of this
// package to select a scale-factor-band table indexes into the flattened
// 9-entry ordering: MPEG1 44.1/48/32 kHz, then MPEG2 22.05/24/16 kHz, then
// MPEG2.5 11.025/12/8 kHz, matching symphonia-bundle-mp3/src/common.rs's
// SFB_LONG_BANDS/SFB_SHORT_BANDS layout.
var sampleRatesHz = [3][3]int{
	{44100, 48000, 32000},
	{22050, 24000, 16000},
	{11025, 12000, 8000},
}

// FrameHeader is a parsed MPEG Layer III frame header.
type FrameHeader struct {
	Version       MpegVersion
	Bitrate       int // bits per second
	SampleRate    int // Hz
	SampleRateIdx int // 0..8, selects a row of the scale-factor band tables
	Channels      ChannelMode
	ModeExt       ModeExtension
	HasCRC        bool
	Padding       bool
	FrameSize     int // total bytes, including the 4-byte header
}

// NumGranules returns 2 for MPEG1 frames, 1 for MPEG2/2.5.
func (h *FrameHeader) NumGranules() int {
	if h.Version == Mpeg1 {
		return 2
	}
	return 1
}

// SideInfoSize returns the byte length of the side-information block that
// immediately follows the header (and the optional 2-byte CRC).
func (h *FrameHeader) SideInfoSize() int {
	mono := h.Channels == ModeMono
	switch {
	case h.Version == Mpeg1 && mono:
		return 17
	case h.Version == Mpeg1:
		return 32
	case mono:
		return 9
	default:
		return 17
	}
}

var (
	errNotSync      = errors.New("mp3: not a frame sync")
	errReservedBits = errors.New("mp3: reserved header field")
	errFreeFormat   = errors.New("mp3: free-format bitrate is unsupported")
)

// ParseHeader decodes a 4-byte MPEG frame header. It returns errNotSync if
// b does not begin with the 11-bit frame sync, and a decode error for any
// reserved field. Only Layer III frames are accepted; for any other layer
// ParseHeader itself returns an error.
func ParseHeader(b [4]byte) (*FrameHeader, error) {
	if b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return nil, errNotSync
	}

	versionBits := (b[1] >> 3) & 0x3
	var version MpegVersion
	switch versionBits {
	case 0b00:
		version = Mpeg2p5
	case 0b10:
		version = Mpeg2
	case 0b11:
		version = Mpeg1
	default:
		return nil, fmt.Errorf("%w: mpeg version", errReservedBits)
	}

	layerBits := (b[1] >> 1) & 0x3
	if layerBits != 0b01 {
		return nil, fmt.Errorf("mp3: only layer III is supported")
	}
	hasCRC := b[1]&0x1 == 0

	bitrateIdx := (b[2] >> 4) & 0xF
	if bitrateIdx == 0xF {
		return nil, fmt.Errorf("%w: bitrate index", errReservedBits)
	}
	if bitrateIdx == 0 {
		return nil, errFreeFormat
	}
	var kbps int
	if version == Mpeg1 {
		kbps = bitrateMpeg1L3[bitrateIdx]
	} else {
		kbps = bitrateMpeg2L3[bitrateIdx]
	}

	sampleRateIdx2 := (b[2] >> 2) & 0x3
	if sampleRateIdx2 == 0x3 {
		return nil, fmt.Errorf("%w: sample rate index", errReservedBits)
	}
	versionRow := 0
	switch version {
	case Mpeg1:
		versionRow = 0
	case Mpeg2:
		versionRow = 1
	case Mpeg2p5:
		versionRow = 2
	}
	sampleRate := sampleRatesHz[versionRow][sampleRateIdx2]
	sampleRateIdx := versionRow*3 + int(sampleRateIdx2)

	padding := b[2]&0x2 != 0

	modeBits := (b[3] >> 6) & 0x3
	var mode ChannelMode
	switch modeBits {
	case 0:
		mode = ModeStereo
	case 1:
		mode = ModeJointStereo
	case 2:
		mode = ModeDualMono
	case 3:
		mode = ModeMono
	}

	var modeExt ModeExtension
	if mode == ModeJointStereo {
		extBits := (b[3] >> 4) & 0x3
		modeExt = ModeExtension{
			MidSide:   extBits&0x2 != 0,
			Intensity: extBits&0x1 != 0,
		}
	}

	// Layer III always carries 576 samples per granule per channel: 1152
	// total samples per frame for MPEG1 (2 granules), 576 for MPEG2/2.5.
	samplesPerFrame := 1152
	if version != Mpeg1 {
		samplesPerFrame = 576
	}

	bitrateBps := kbps * 1000
	frameSize := (samplesPerFrame/8)*bitrateBps/sampleRate + boolToInt(padding)

	return &FrameHeader{
		Version:       version,
		Bitrate:       bitrateBps,
		SampleRate:    sampleRate,
		SampleRateIdx: sampleRateIdx,
		Channels:      mode,
		ModeExt:       modeExt,
		HasCRC:        hasCRC,
		Padding:       padding,
		FrameSize:     frameSize,
	}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
