// Package pcm implements the sample-format-parameterized, straight-through
// decoder for raw and log-companded ("A-law"/"mu-law") PCM audio, grounded
// on symphonia-codec-pcm's PcmDecoder.
package pcm

import (
	"fmt"

	"github.com/pchchv/audiocore/engine"
)

func init() {
	engine.RegisterDecoder(engine.CodecIDPCMSignedLE, newSignedDecoder(false))
	engine.RegisterDecoder(engine.CodecIDPCMSignedBE, newSignedDecoder(true))
	engine.RegisterDecoder(engine.CodecIDPCMUnsignedLE, newUnsignedDecoder(false))
	engine.RegisterDecoder(engine.CodecIDPCMUnsignedBE, newUnsignedDecoder(true))
	engine.RegisterDecoder(engine.CodecIDPCMFloatLE, newFloatDecoder(false))
	engine.RegisterDecoder(engine.CodecIDPCMFloatBE, newFloatDecoder(true))
	engine.RegisterDecoder(engine.CodecIDPCMALaw, newG711Decoder(decodeALaw))
	engine.RegisterDecoder(engine.CodecIDPCMMuLaw, newG711Decoder(decodeMuLaw))
}

// codedWidth returns the byte width of one coded sample: BitsPerCodedSample
// if set, otherwise BitsPerSample (the container width, meaning no padding
// is applied).
func codedWidth(params engine.CodecParams) (int, error) {
	bits := params.BitsPerCodedSample
	if bits == 0 {
		bits = params.BitsPerSample
	}
	if bits == 0 || bits%8 != 0 {
		return 0, fmt.Errorf("pcm: unsupported coded sample width %d bits", bits)
	}
	return int(bits / 8), nil
}

// numChannels returns the channel count for params, validated nonzero.
func numChannels(params engine.CodecParams) (int, error) {
	n := params.Channels.Count()
	if n < 1 {
		return 0, fmt.Errorf("pcm: channel count must be at least 1, got %d", n)
	}
	return n, nil
}
