package mp3

import (
	"bytes"
	"fmt"

	"github.com/pchchv/audiocore/audio"
	"github.com/pchchv/audiocore/engine"
	"github.com/pchchv/audiocore/internal/bitstream"
)

// audioFormatSpectral is the SampleFormat this package's decoded buffers
// report: requantized, stereo-resolved float32 spectral coefficients, not
// time-domain PCM (see the package doc comment for why synthesis is out
// of scope).
const audioFormatSpectral = audio.FormatF32

func channelsFor(n int) audio.Channels { return audio.NewDiscreteChannels(n) }

// decoder implements engine.Decoder for CodecIDMP3. Unlike flac's decoder,
// mp3's carries real state across packets: the bit reservoir, and (for
// MPEG1) each channel's previous-granule scale factors for scfsi reuse.
type decoder struct {
	params    engine.CodecParams
	reservoir *reservoir
	prevScale [2]GranuleChannel // per channel, granule 0's scale factors
	last      *audio.Buffer[float32]
}

func newEngineDecoder(params engine.CodecParams, opts engine.DecoderOptions) (engine.Decoder, error) {
	if params.Codec != engine.CodecIDMP3 {
		return nil, fmt.Errorf("mp3: newEngineDecoder: unexpected codec %s", params.Codec)
	}
	return &decoder{params: params, reservoir: newReservoir()}, nil
}

// Decode implements engine.Decoder: it parses one frame's header and side
// information, feeds the frame's coded bytes through the bit reservoir,
// then for each granule and channel runs scale-factor reading, Huffman
// sample decoding and requantization, applying joint-stereo once both
// channels of a granule are available.
func (d *decoder) Decode(pkt *engine.Packet) (audio.BufferRef, error) {
	if len(pkt.Data) < 4 {
		return nil, fmt.Errorf("mp3: packet too short for a frame header")
	}
	var hb [4]byte
	copy(hb[:], pkt.Data[:4])
	hdr, err := ParseHeader(hb)
	if err != nil {
		return nil, err
	}

	sideStart := 4
	if hdr.HasCRC {
		sideStart += 2
	}
	sideLen := hdr.SideInfoSize()
	if len(pkt.Data) < sideStart+sideLen {
		return nil, fmt.Errorf("mp3: packet too short for side info")
	}

	sideBr := bitstream.NewMSBReader(bytes.NewReader(pkt.Data[sideStart : sideStart+sideLen]))
	si, err := ReadSideInfo(sideBr, hdr)
	if err != nil {
		return nil, err
	}

	mainData := pkt.Data[sideStart+sideLen:]
	if !d.reservoir.fill(mainData, si.MainDataBegin) {
		// Not enough carried-over reservoir data (typically the first one
		// or two frames of a stream): nothing to decode from this frame
		// yet, but it is not an error — the caller simply gets an empty
		// buffer and decoding resumes cleanly from the next frame.
		spec := audio.Spec{SampleRate: d.params.SampleRate, Channels: channelsFor(hdr.Channels.NumChannels())}
		buf := audio.New[float32](spec, 0)
		d.last = buf
		return buf, nil
	}

	br := bitstream.NewMSBReader(bytes.NewReader(d.reservoir.bytes()))
	cr := newCountingReader(br)

	nCh := hdr.Channels.NumChannels()
	nGr := hdr.NumGranules()
	spec := audio.Spec{SampleRate: d.params.SampleRate, Channels: channelsFor(nCh)}
	buf := audio.New[float32](spec, nGr*576)

	for gr := 0; gr < nGr; gr++ {
		var xr [2][576]float32
		for ch := 0; ch < nCh; ch++ {
			gc := &si.Granules[gr][ch]

			var prev *GranuleChannel
			var scfsi [4]bool
			if hdr.Version == Mpeg1 {
				prev = &d.prevScale[ch]
				scfsi = si.Scfsi[ch]
			}

			part2Bits, err := ReadScaleFactors(cr, gc, prev, scfsi, gr, hdr)
			if err != nil {
				return nil, err
			}

			budget := uint32(gc.Part2And3Length)
			if uint32(part2Bits) > budget {
				budget = 0
			} else {
				budget -= uint32(part2Bits)
			}
			raw, err := ReadHuffmanSamples(cr, gc, budget)
			if err != nil {
				return nil, err
			}

			xr[ch] = Requantize(gc, raw, hdr.SampleRateIdx)

			if hdr.Version == Mpeg1 && gr == 0 {
				d.prevScale[ch] = *gc
			}
		}

		if nCh == 2 {
			ApplyStereo(hdr, &si.Granules[gr][0], &si.Granules[gr][1], &xr[0], &xr[1], hdr.SampleRateIdx)
		}

		if err := buf.RenderWith(576, func(i int, frame [][]float32) error {
			for ch := 0; ch < nCh; ch++ {
				frame[ch][0] = xr[ch][i]
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}

	d.last = buf
	return buf, nil
}

// Reset implements engine.Decoder.
func (d *decoder) Reset() {
	d.reservoir.clear()
	d.prevScale = [2]GranuleChannel{}
	d.last = nil
}

// Finalize implements engine.Decoder. MP3 carries no stream-level
// self-verification value to check against.
func (d *decoder) Finalize() engine.FinalizeResult { return engine.FinalizeResult{} }

// LastDecoded implements engine.Decoder.
func (d *decoder) LastDecoded() audio.BufferRef {
	if d.last == nil {
		return nil
	}
	return d.last
}

var _ engine.Decoder = (*decoder)(nil)
