package engine

import (
	"fmt"

	"github.com/pchchv/audiocore/audio"
)

// CodecID identifies an audio codec. Well-known IDs are assigned below;
// a CodecID derived from a FourCC (via NewCodecID) is used for anything
// without a well-known constant.
type CodecID uint32

// CodecIDNull is the zero value, meaning "no codec" / "unknown".
const CodecIDNull CodecID = 0

// Well-known codec IDs handled by this module.
const (
	CodecIDFLAC CodecID = 0x1000 + iota
	CodecIDMP3
	CodecIDVorbis
	CodecIDOpus
	CodecIDAACLC
	CodecIDPCMSignedLE
	CodecIDPCMSignedBE
	CodecIDPCMUnsignedLE
	CodecIDPCMUnsignedBE
	CodecIDPCMFloatLE
	CodecIDPCMFloatBE
	CodecIDPCMALaw
	CodecIDPCMMuLaw
)

// NewCodecID derives a CodecID from a four-character container code, for
// codecs without a well-known constant above.
func NewCodecID(fourCC [4]byte) CodecID {
	return CodecID(0x8000_0000 | uint32(fourCC[0])<<24 | uint32(fourCC[1])<<16 | uint32(fourCC[2])<<8 | uint32(fourCC[3]))
}

func (id CodecID) String() string {
	switch id {
	case CodecIDNull:
		return "null"
	case CodecIDFLAC:
		return "flac"
	case CodecIDMP3:
		return "mp3"
	case CodecIDVorbis:
		return "vorbis"
	case CodecIDOpus:
		return "opus"
	case CodecIDAACLC:
		return "aac-lc"
	case CodecIDPCMSignedLE:
		return "pcm_s_le"
	case CodecIDPCMSignedBE:
		return "pcm_s_be"
	case CodecIDPCMUnsignedLE:
		return "pcm_u_le"
	case CodecIDPCMUnsignedBE:
		return "pcm_u_be"
	case CodecIDPCMFloatLE:
		return "pcm_f_le"
	case CodecIDPCMFloatBE:
		return "pcm_f_be"
	case CodecIDPCMALaw:
		return "pcm_alaw"
	case CodecIDPCMMuLaw:
		return "pcm_mulaw"
	default:
		return fmt.Sprintf("CodecID(%#x)", uint32(id))
	}
}

// VerificationKind names the method a codec uses to self-verify decoded
// output, when its bitstream carries one.
type VerificationKind int

const (
	VerifyNone VerificationKind = iota
	VerifyCRC8
	VerifyCRC16
	VerifyMD5
)

// VerificationCheck is the expected value for a stream's self-verification
// method, if any.
type VerificationCheck struct {
	Kind  VerificationKind
	Value [16]byte
}

// CodecParams describes a track's codec configuration, as much of it as the
// container could determine without decoding any packets.
type CodecParams struct {
	Codec              CodecID
	SampleRate         uint32
	SampleFormat       audio.SampleFormat
	BitsPerSample      uint32
	BitsPerCodedSample uint32
	Channels           audio.Channels
	MaxFramesPerPacket uint64
	FramesPerBlock     uint64
	Verification       *VerificationCheck
	ExtraData          []byte
}
