package ogg

import (
	"bytes"
	"encoding/binary"

	"github.com/pchchv/audiocore/audio"
	"github.com/pchchv/audiocore/engine"
	"github.com/pchchv/audiocore/internal/bitstream"
)

var (
	vorbisIdentMagic = []byte("\x01vorbis")
	opusHeadMagic    = []byte("OpusHead")
	flacOggMagic     = []byte("\x7fFLAC")
	flacStreamMagic  = []byte("fLaC")
)

// detectCodec inspects an identification packet's leading bytes and returns
// the CodecParams it can determine without decoding any further packets.
// It returns ok=false for a packet that does not match a known
// identification header. Nothing in this package calls it.
func detectCodec(data []byte) (engine.CodecParams, bool) {
	switch {
	case bytes.HasPrefix(data, vorbisIdentMagic):
		return detectVorbis(data)
	case bytes.HasPrefix(data, opusHeadMagic):
		return detectOpus(data)
	case bytes.HasPrefix(data, flacOggMagic):
		return detectFLACInOgg(data)
	default:
		return engine.CodecParams{}, false
	}
}

// detectVorbis parses a Vorbis identification header (RFC/Vorbis-I §4.2.2):
// 7-byte packet type/magic, 4-byte version, 1-byte channel count, 4-byte
// sample rate, then bitrate fields this package has no use for.
func detectVorbis(data []byte) (engine.CodecParams, bool) {
	const headerLen = 7 + 4 + 1 + 4
	if len(data) < headerLen {
		return engine.CodecParams{}, false
	}
	nCh := data[11]
	sampleRate := binary.LittleEndian.Uint32(data[12:16])
	if nCh == 0 || sampleRate == 0 {
		return engine.CodecParams{}, false
	}
	return engine.CodecParams{
		Codec:        engine.CodecIDVorbis,
		SampleRate:   sampleRate,
		SampleFormat: audio.FormatF32,
		Channels:     audio.NewDiscreteChannels(int(nCh)),
	}, true
}

// detectOpus parses an Opus identification header (RFC 7845 §5.1): 8-byte
// magic, 1-byte version, 1-byte channel count, 2-byte pre-skip, 4-byte
// original input sample rate (informational only; Opus always decodes at
// 48 kHz internally), 2-byte output gain, 1-byte channel mapping family.
func detectOpus(data []byte) (engine.CodecParams, bool) {
	const headerLen = 8 + 1 + 1 + 2 + 4 + 2 + 1
	if len(data) < headerLen {
		return engine.CodecParams{}, false
	}
	nCh := data[9]
	if nCh == 0 {
		return engine.CodecParams{}, false
	}
	return engine.CodecParams{
		Codec:        engine.CodecIDOpus,
		SampleRate:   48000, // Opus's fixed decode rate, per RFC 6716 §2.
		SampleFormat: audio.FormatF32,
		Channels:     audio.NewDiscreteChannels(int(nCh)),
		ExtraData:    append([]byte(nil), data...),
	}, true
}

// detectFLACInOgg parses the Ogg FLAC mapping's identification packet: a
// 0x7F byte, "FLAC", a 2-byte major/minor version, a 2-byte header packet
// count, then a verbatim "fLaC" signature and STREAMINFO metadata block
// identical to native FLAC's.
func detectFLACInOgg(data []byte) (engine.CodecParams, bool) {
	const prefixLen = 1 + 4 + 2 + 2
	if len(data) < prefixLen+4+4+34 {
		return engine.CodecParams{}, false
	}
	rest := data[prefixLen:]
	if !bytes.HasPrefix(rest, flacStreamMagic) {
		return engine.CodecParams{}, false
	}
	// Skip "fLaC" and the 4-byte metadata block header (1-byte
	// type/last-flag, 3-byte length) to reach the 34-byte STREAMINFO body.
	body := rest[4+4:]
	if len(body) < 34 {
		return engine.CodecParams{}, false
	}

	br := bitstream.NewMSBReader(bytes.NewReader(body))
	if _, err := br.ReadBitsLeq32(16); err != nil { // block size min
		return engine.CodecParams{}, false
	}
	if _, err := br.ReadBitsLeq32(16); err != nil { // block size max
		return engine.CodecParams{}, false
	}
	if _, err := br.ReadBitsLeq32(24); err != nil { // frame size min
		return engine.CodecParams{}, false
	}
	if _, err := br.ReadBitsLeq32(24); err != nil { // frame size max
		return engine.CodecParams{}, false
	}
	sampleRate, err := br.ReadBitsLeq32(20)
	if err != nil {
		return engine.CodecParams{}, false
	}
	nChRaw, err := br.ReadBitsLeq32(3)
	if err != nil {
		return engine.CodecParams{}, false
	}
	bps, err := br.ReadBitsLeq32(5)
	if err != nil {
		return engine.CodecParams{}, false
	}
	return engine.CodecParams{
		Codec:         engine.CodecIDFLAC,
		SampleRate:    sampleRate,
		SampleFormat:  audio.FormatI32,
		BitsPerSample: bps + 1,
		Channels:      audio.NewDiscreteChannels(int(nChRaw) + 1),
	}, true
}
