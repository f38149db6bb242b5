package pcm

import (
	"fmt"

	"github.com/pchchv/audiocore/audio"
	"github.com/pchchv/audiocore/engine"
)

// decodeALaw expands one A-law encoded byte to a linear i16 sample,
// grounded on symphonia-codec-pcm's alaw_to_linear (itself adapted from
// Sun Microsystems' g711.c reference).
func decodeALaw(a uint8) int16 {
	a ^= 0x55
	t := int16(a&0x0F) << 4
	seg := (a & 0x70) >> 4
	switch seg {
	case 0:
		t += 8
	case 1:
		t += 0x108
	default:
		t = (t + 0x108) << (seg - 1)
	}
	if a&0x80 == 0x80 {
		return t
	}
	return -t
}

// decodeMuLaw expands one mu-law encoded byte to a linear i16 sample,
// grounded on symphonia-codec-pcm's mulaw_to_linear.
func decodeMuLaw(m uint8) int16 {
	const bias = 0x84
	m = ^m
	t := int16(m&0x0F)<<3 + bias
	t <<= (m & 0x70) >> 4
	if m&0x80 == 0x80 {
		return bias - t
	}
	return t - bias
}

// g711Decoder implements engine.Decoder for A-law/mu-law PCM, which always
// decodes to 16-bit signed samples one byte per sample.
type g711Decoder struct {
	params engine.CodecParams
	expand func(uint8) int16
	nCh    int
	last   *audio.Buffer[int16]
}

func newG711Decoder(expand func(uint8) int16) engine.DecoderFactory {
	return func(params engine.CodecParams, _ engine.DecoderOptions) (engine.Decoder, error) {
		nCh, err := numChannels(params)
		if err != nil {
			return nil, err
		}
		return &g711Decoder{params: params, expand: expand, nCh: nCh}, nil
	}
}

// Decode implements engine.Decoder.
func (d *g711Decoder) Decode(pkt *engine.Packet) (audio.BufferRef, error) {
	if d.nCh == 0 || len(pkt.Data)%d.nCh != 0 {
		return nil, fmt.Errorf("pcm: packet length %d is not a multiple of the channel count %d", len(pkt.Data), d.nCh)
	}
	nFrames := len(pkt.Data) / d.nCh
	spec := audio.Spec{SampleRate: d.params.SampleRate, Channels: d.params.Channels}
	buf := audio.New[int16](spec, nFrames)
	err := buf.RenderWith(nFrames, func(i int, frame [][]int16) error {
		base := i * d.nCh
		for ch := 0; ch < d.nCh; ch++ {
			frame[ch][0] = d.expand(pkt.Data[base+ch])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.last = buf
	return buf, nil
}

// Reset implements engine.Decoder.
func (d *g711Decoder) Reset() { d.last = nil }

// Finalize implements engine.Decoder. G.711 has no self-verification check.
func (d *g711Decoder) Finalize() engine.FinalizeResult { return engine.FinalizeResult{} }

// LastDecoded implements engine.Decoder.
func (d *g711Decoder) LastDecoded() audio.BufferRef {
	if d.last == nil {
		return nil
	}
	return d.last
}
