package flac

import (
	"fmt"

	"github.com/pchchv/audiocore/audio"
	"github.com/pchchv/audiocore/engine"
	"github.com/pchchv/audiocore/flac/meta"
)

func init() {
	engine.RegisterDecoder(engine.CodecIDFLAC, newEngineDecoder)
}

// Track returns the single track this Stream exposes, wrapping Info into
// the codec parameters an engine.Decoder needs to be constructed.
func (stream *Stream) Track() engine.Track {
	return engine.Track{
		ID: 0,
		Params: engine.CodecParams{
			Codec:      engine.CodecIDFLAC,
			SampleRate: stream.Info.SampleRate,
			// Every FLAC subframe decodes into a widened signed 32-bit
			// sample regardless of the stream's coded bit depth; BitsPerSample
			// records the significant width within that container.
			SampleFormat:  audio.FormatI32,
			BitsPerSample: uint32(stream.Info.BitsPerSample),
			Channels:      audio.NewDiscreteChannels(int(stream.Info.NChannels)),
			Verification: &engine.VerificationCheck{
				Kind:  engine.VerifyMD5,
				Value: stream.Info.MD5sum,
			},
		},
	}
}

// Tracks implements engine.Reader.
func (stream *Stream) Tracks() []engine.Track { return []engine.Track{stream.Track()} }

// DefaultTrack implements engine.Reader.
func (stream *Stream) DefaultTrack() (engine.Track, bool) { return stream.Track(), true }

// Cues implements engine.Reader, flattening a parsed CueSheet block (if
// any) into one engine.Cue per track index point.
func (stream *Stream) Cues() []engine.Cue {
	var cues []engine.Cue
	for _, block := range stream.Blocks {
		cs, ok := block.Body.(*meta.CueSheet)
		if !ok {
			continue
		}
		for _, track := range cs.Tracks {
			for _, idx := range track.Indicies {
				cues = append(cues, engine.Cue{
					Index:   uint32(track.Num),
					StartTS: track.Offset + idx.Offset,
				})
			}
		}
	}
	return cues
}

// NextPacket implements engine.Reader by returning the raw, CRC-verified
// packet bytes for the next frame, without decoding them: decoding happens
// in the paired engine.Decoder (see decoder.go).
func (stream *Stream) NextPacket() (*engine.Packet, error) {
	pkt, err := stream.parser.Parse(stream.r)
	if err != nil {
		return nil, err
	}
	return &engine.Packet{
		TrackID: 0,
		TS:      pkt.Sync.Ts,
		Dur:     pkt.Sync.Dur,
		Data:    pkt.Data,
	}, nil
}

// EngineReader adapts a *Stream to engine.Reader. It is a distinct type
// from Stream, rather than a method added to Stream directly, because
// Stream.Seek's existing signature (seek by absolute sample number) is
// part of this package's public API and cannot also satisfy
// engine.Reader's Seek(mode, to) shape.
type EngineReader struct {
	*Stream
}

// NewEngineReader wraps stream as an engine.Reader.
func NewEngineReader(stream *Stream) *EngineReader {
	return &EngineReader{Stream: stream}
}

// Seek implements engine.Reader in terms of Stream.Seek, translating a
// track-relative or wall-clock SeekTo into the absolute sample number
// Stream.Seek expects.
func (r *EngineReader) Seek(mode engine.SeekMode, to engine.SeekTo) (engine.SeekedTo, error) {
	if to.TrackID != nil && *to.TrackID != 0 {
		return engine.SeekedTo{}, engine.ErrSeekInvalidTrack
	}

	sampleNum := to.TimeStamp
	if sampleNum == 0 && to.Time > 0 {
		sampleNum = uint64(to.Time * float64(r.Stream.Info.SampleRate))
	}

	actual, err := r.Stream.Seek(sampleNum)
	if err != nil {
		return engine.SeekedTo{}, fmt.Errorf("%w: %v", engine.ErrSeekOutOfRange, err)
	}

	return engine.SeekedTo{TrackID: 0, RequiredTS: sampleNum, ActualTS: actual}, nil
}

var _ engine.Reader = (*EngineReader)(nil)
