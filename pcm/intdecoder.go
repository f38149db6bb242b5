package pcm

import (
	"fmt"

	"github.com/pchchv/audiocore/audio"
	"github.com/pchchv/audiocore/engine"
)

// integer is the subset of audio.Sample this package decodes into via
// bit-shift widening. Floating-point formats bypass the shift entirely
// (see floatdecoder.go), matching spec.md's "floating-point formats bypass
// the shift" rule.
type integer interface {
	uint8 | int8 | uint16 | int16 | audio.U24 | audio.I24 | uint32 | int32
}

// intDecoder implements engine.Decoder for one signed or unsigned integer
// PCM variant at a fixed container width S, reading codedBytes-wide samples
// and left-shifting them to fill S's high-order bits.
type intDecoder[S integer] struct {
	params     engine.CodecParams
	bigEndian  bool
	signed     bool
	nCh        int
	codedBytes int
	shift      uint
	last       *audio.Buffer[S]
}

func newIntDecoder[S integer](params engine.CodecParams, bigEndian, signed bool) (engine.Decoder, error) {
	nCh, err := numChannels(params)
	if err != nil {
		return nil, err
	}
	codedBytes, err := codedWidth(params)
	if err != nil {
		return nil, err
	}
	containerBits := int(params.BitsPerSample)
	if containerBits == 0 {
		containerBits = codedBytes * 8
	}
	shift := containerBits - codedBytes*8
	if shift < 0 {
		return nil, fmt.Errorf("pcm: coded sample width exceeds container width (%d > %d bits)", codedBytes*8, containerBits)
	}
	return &intDecoder[S]{
		params:     params,
		bigEndian:  bigEndian,
		signed:     signed,
		nCh:        nCh,
		codedBytes: codedBytes,
		shift:      uint(shift),
	}, nil
}

func newSignedDecoder(bigEndian bool) engine.DecoderFactory {
	return func(params engine.CodecParams, _ engine.DecoderOptions) (engine.Decoder, error) {
		switch bits := containerBits(params); bits {
		case 8:
			return newIntDecoder[int8](params, bigEndian, true)
		case 16:
			return newIntDecoder[int16](params, bigEndian, true)
		case 24:
			return newIntDecoder[audio.I24](params, bigEndian, true)
		case 32:
			return newIntDecoder[int32](params, bigEndian, true)
		default:
			return nil, fmt.Errorf("pcm: unsupported signed PCM container width %d bits", bits)
		}
	}
}

func newUnsignedDecoder(bigEndian bool) engine.DecoderFactory {
	return func(params engine.CodecParams, _ engine.DecoderOptions) (engine.Decoder, error) {
		switch bits := containerBits(params); bits {
		case 8:
			return newIntDecoder[uint8](params, bigEndian, false)
		case 16:
			return newIntDecoder[uint16](params, bigEndian, false)
		case 24:
			return newIntDecoder[audio.U24](params, bigEndian, false)
		case 32:
			return newIntDecoder[uint32](params, bigEndian, false)
		default:
			return nil, fmt.Errorf("pcm: unsupported unsigned PCM container width %d bits", bits)
		}
	}
}

func containerBits(params engine.CodecParams) int {
	if params.BitsPerSample != 0 {
		return int(params.BitsPerSample)
	}
	return int(params.BitsPerCodedSample)
}

// Decode implements engine.Decoder.
func (d *intDecoder[S]) Decode(pkt *engine.Packet) (audio.BufferRef, error) {
	frameBytes := d.nCh * d.codedBytes
	if frameBytes == 0 || len(pkt.Data)%frameBytes != 0 {
		return nil, fmt.Errorf("pcm: packet length %d is not a multiple of the frame size %d", len(pkt.Data), frameBytes)
	}
	nFrames := len(pkt.Data) / frameBytes

	spec := audio.Spec{SampleRate: d.params.SampleRate, Channels: d.params.Channels}
	buf := audio.New[S](spec, nFrames)
	err := buf.RenderWith(nFrames, func(i int, frame [][]S) error {
		base := i * frameBytes
		for ch := 0; ch < d.nCh; ch++ {
			raw := pkt.Data[base+ch*d.codedBytes : base+(ch+1)*d.codedBytes]
			frame[ch][0] = d.decodeSample(raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.last = buf
	return buf, nil
}

func (d *intDecoder[S]) decodeSample(raw []byte) S {
	var v uint64
	if d.bigEndian {
		v = readBE(raw)
	} else {
		v = readLE(raw)
	}
	if !d.signed {
		return S(v << d.shift)
	}
	code := signExtend(v, d.codedBytes*8)
	return S(code << d.shift)
}

// Reset implements engine.Decoder. PCM decode carries no state across
// packets, so Reset only clears the last-decoded buffer.
func (d *intDecoder[S]) Reset() { d.last = nil }

// Finalize implements engine.Decoder. PCM has no self-verification check.
func (d *intDecoder[S]) Finalize() engine.FinalizeResult { return engine.FinalizeResult{} }

// LastDecoded implements engine.Decoder.
func (d *intDecoder[S]) LastDecoded() audio.BufferRef {
	if d.last == nil {
		return nil
	}
	return d.last
}
