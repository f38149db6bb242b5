package pcm

import (
	"fmt"
	"math"

	"github.com/pchchv/audiocore/audio"
	"github.com/pchchv/audiocore/engine"
)

// floatDecoder implements engine.Decoder for IEEE-754 float32/float64 PCM,
// read straight through with no bit-shift (floating-point samples are
// already normalized).
type floatDecoder struct {
	params    engine.CodecParams
	bigEndian bool
	nCh       int
	width     int // 4 or 8 bytes
	last      audio.BufferRef
}

func newFloatDecoder(bigEndian bool) engine.DecoderFactory {
	return func(params engine.CodecParams, _ engine.DecoderOptions) (engine.Decoder, error) {
		nCh, err := numChannels(params)
		if err != nil {
			return nil, err
		}
		width, err := codedWidth(params)
		if err != nil {
			return nil, err
		}
		if width != 4 && width != 8 {
			return nil, fmt.Errorf("pcm: unsupported float PCM width %d bytes", width)
		}
		return &floatDecoder{params: params, bigEndian: bigEndian, nCh: nCh, width: width}, nil
	}
}

// Decode implements engine.Decoder.
func (d *floatDecoder) Decode(pkt *engine.Packet) (audio.BufferRef, error) {
	frameBytes := d.nCh * d.width
	if frameBytes == 0 || len(pkt.Data)%frameBytes != 0 {
		return nil, fmt.Errorf("pcm: packet length %d is not a multiple of the frame size %d", len(pkt.Data), frameBytes)
	}
	nFrames := len(pkt.Data) / frameBytes
	spec := audio.Spec{SampleRate: d.params.SampleRate, Channels: d.params.Channels}

	if d.width == 4 {
		buf := audio.New[float32](spec, nFrames)
		err := buf.RenderWith(nFrames, func(i int, frame [][]float32) error {
			base := i * frameBytes
			for ch := 0; ch < d.nCh; ch++ {
				raw := pkt.Data[base+ch*4 : base+(ch+1)*4]
				bits := uint32(d.readWidth(raw))
				frame[ch][0] = math.Float32frombits(bits)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		d.last = buf
		return buf, nil
	}

	buf := audio.New[float64](spec, nFrames)
	err := buf.RenderWith(nFrames, func(i int, frame [][]float64) error {
		base := i * frameBytes
		for ch := 0; ch < d.nCh; ch++ {
			raw := pkt.Data[base+ch*8 : base+(ch+1)*8]
			bits := d.readWidth(raw)
			frame[ch][0] = math.Float64frombits(bits)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.last = buf
	return buf, nil
}

func (d *floatDecoder) readWidth(raw []byte) uint64 {
	if d.bigEndian {
		return readBE(raw)
	}
	return readLE(raw)
}

// Reset implements engine.Decoder.
func (d *floatDecoder) Reset() { d.last = nil }

// Finalize implements engine.Decoder. PCM has no self-verification check.
func (d *floatDecoder) Finalize() engine.FinalizeResult { return engine.FinalizeResult{} }

// LastDecoded implements engine.Decoder.
func (d *floatDecoder) LastDecoded() audio.BufferRef { return d.last }
