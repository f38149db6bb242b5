package flac

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"hash"

	"github.com/pchchv/audiocore/audio"
	"github.com/pchchv/audiocore/engine"
	"github.com/pchchv/audiocore/flac/frame"
)

// decoder implements engine.Decoder for CodecIDFLAC, decoding the raw
// packet bytes an EngineReader hands it back into int32 samples, one
// plane per channel. It carries no state across packets beyond the running MD5
// digest used for optional verification, since every FLAC subframe is
// independently decodable once its warm-up samples are known.
type decoder struct {
	params engine.CodecParams
	verify bool
	digest hash.Hash
	last   *audio.Buffer[int32]
}

func newEngineDecoder(params engine.CodecParams, opts engine.DecoderOptions) (engine.Decoder, error) {
	if params.Codec != engine.CodecIDFLAC {
		return nil, fmt.Errorf("flac: newEngineDecoder: unexpected codec %s", params.Codec)
	}
	d := &decoder{params: params, verify: opts.Verify}
	if opts.Verify {
		d.digest = md5.New()
	}
	return d, nil
}

// Decode implements engine.Decoder.
func (d *decoder) Decode(pkt *engine.Packet) (audio.BufferRef, error) {
	fr, err := frame.Parse(bytes.NewReader(pkt.Data))
	if err != nil {
		return nil, err
	}

	nCh := len(fr.Subframes)
	spec := audio.Spec{SampleRate: d.params.SampleRate, Channels: audio.NewDiscreteChannels(nCh)}
	buf := audio.New[int32](spec, int(fr.BlockSize))
	if err := buf.RenderWith(int(fr.BlockSize), func(i int, frameOut [][]int32) error {
		for ch := 0; ch < nCh; ch++ {
			frameOut[ch][0] = fr.Subframes[ch].Samples[i]
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if d.digest != nil {
		writeVerificationBytes(d.digest, buf, d.params.BitsPerSample)
	}

	d.last = buf
	return buf, nil
}

// Reset implements engine.Decoder. FLAC subframes carry no state across
// frame boundaries, so resetting only needs to drop the running digest.
func (d *decoder) Reset() {
	d.last = nil
	if d.verify {
		d.digest = md5.New()
	}
}

// Finalize implements engine.Decoder.
func (d *decoder) Finalize() engine.FinalizeResult {
	if !d.verify || d.digest == nil {
		return engine.FinalizeResult{}
	}
	var want [md5.Size]byte
	if d.params.Verification != nil {
		want = d.params.Verification.Value
	}
	ok := bytes.Equal(d.digest.Sum(nil), want[:])
	return engine.FinalizeResult{VerifyOk: &ok}
}

// LastDecoded implements engine.Decoder.
func (d *decoder) LastDecoded() audio.BufferRef {
	if d.last == nil {
		return nil
	}
	return d.last
}

// writeVerificationBytes folds buf's interleaved little-endian samples into
// h, each (bitsPerSample+7)/8 bytes wide, matching the byte layout
// meta.StreamInfo.MD5sum is computed over.
func writeVerificationBytes(h hash.Hash, buf *audio.Buffer[int32], bitsPerSample uint32) {
	width := int(bitsPerSample+7) / 8
	if width < 1 || width > 4 {
		width = 4
	}
	interleaved := make([]int32, buf.NumFrames()*buf.NumPlanes())
	buf.CopyToSliceInterleaved(interleaved)
	raw := make([]byte, 0, len(interleaved)*width)
	for _, s := range interleaved {
		for b := 0; b < width; b++ {
			raw = append(raw, byte(s>>(8*b)))
		}
	}
	_, _ = h.Write(raw)
}

var _ engine.Decoder = (*decoder)(nil)
