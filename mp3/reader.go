package mp3

import (
	"errors"
	"io"

	"github.com/pchchv/audiocore/engine"
	"github.com/pchchv/audiocore/internal/bufseekio"
)

// Stream demuxes MPEG-1/2/2.5 Audio Layer III frames out of a raw
// elementary stream (optionally preceded by an ID3v2 tag, which is
// skipped), one whole frame (header + side info + main data) per Packet.
// Styled after flac.Stream/flac's reader.go split between container
// parsing and codec decoding, and grounded on dmulholl-mp3cat/
// mp3lib.go's NextFrame/parseHeader sync-scan loop.
type Stream struct {
	r          *bufseekio.Stream
	sampleRate uint32
	channels   int
	firstHdr   *FrameHeader

	// pendingHdr/pendingWindow hold the first frame's already-scanned
	// header, found during Open's probe; the first call to NextPacket
	// consumes it instead of re-scanning (which would otherwise silently
	// skip the stream's first frame).
	pendingHdr    *FrameHeader
	pendingWindow [4]byte
}

// Open probes r for an MP3 elementary stream, skipping a leading ID3v2 tag
// if present, and reads just enough to learn the stream's sample rate and
// channel count from its first frame header.
func Open(r io.Reader) (*Stream, error) {
	bs := bufseekio.NewStream(bufseekio.NewSource(r))
	if err := skipID3v2(bs); err != nil {
		return nil, err
	}

	hdr, window, err := syncToFrame(bs)
	if err != nil {
		return nil, err
	}

	return &Stream{
		r:             bs,
		sampleRate:    uint32(hdr.SampleRate),
		channels:      hdr.Channels.NumChannels(),
		firstHdr:      hdr,
		pendingHdr:    hdr,
		pendingWindow: window,
	}, nil
}

// skipID3v2 discards a leading "ID3" tag, if present, per the de facto
// convention every MP3 tool (including dmulholl-mp3cat) honors even
// though ID3 itself is not part of the MPEG Layer III bitstream.
func skipID3v2(bs *bufseekio.Stream) error {
	var tag [10]byte
	if err := bs.ReadFull(tag[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		return err
	}
	if tag[0] != 'I' || tag[1] != 'D' || tag[2] != '3' {
		bs.SeekBufferedRel(-int64(len(tag)))
		return nil
	}
	size := int64(tag[6]&0x7f)<<21 | int64(tag[7]&0x7f)<<14 | int64(tag[8]&0x7f)<<7 | int64(tag[9]&0x7f)
	return bs.IgnoreBytes(uint64(size))
}

// syncToFrame scans forward byte-by-byte for the 11-bit frame sync
// (0xFF, top 3 bits of the next byte set) and returns the parsed header
// for the first frame found, along with the 4 header bytes themselves.
func syncToFrame(bs *bufseekio.Stream) (*FrameHeader, [4]byte, error) {
	var window [4]byte
	filled := 0
	for {
		b, err := bs.ReadByte()
		if err != nil {
			return nil, window, err
		}
		if filled < 4 {
			window[filled] = b
			filled++
		} else {
			copy(window[:3], window[1:])
			window[3] = b
		}
		if filled < 4 {
			continue
		}
		if window[0] != 0xFF || window[1]&0xE0 != 0xE0 {
			continue
		}
		hdr, err := ParseHeader(window)
		if err != nil {
			continue
		}
		return hdr, window, nil
	}
}

// Track describes the single track an MP3 elementary stream exposes.
func (s *Stream) Track() engine.Track {
	return engine.Track{
		ID: 0,
		Params: engine.CodecParams{
			Codec:        engine.CodecIDMP3,
			SampleRate:   s.sampleRate,
			SampleFormat: audioFormatSpectral,
			Channels:     channelsFor(s.channels),
		},
	}
}

// Tracks implements engine.Reader.
func (s *Stream) Tracks() []engine.Track { return []engine.Track{s.Track()} }

// DefaultTrack implements engine.Reader.
func (s *Stream) DefaultTrack() (engine.Track, bool) { return s.Track(), true }

// Cues implements engine.Reader. MP3 elementary streams carry no native
// cue points.
func (s *Stream) Cues() []engine.Cue { return nil }

// NextPacket implements engine.Reader, returning one frame's entire byte
// span (header through the end of its main data) undecoded; MainDataBegin
// resolution and bit-reservoir bookkeeping happen in the paired
// engine.Decoder, since the reservoir carries state across packets.
func (s *Stream) NextPacket() (*engine.Packet, error) {
	var hdr *FrameHeader
	var window [4]byte
	if s.pendingHdr != nil {
		hdr, window = s.pendingHdr, s.pendingWindow
		s.pendingHdr = nil
	} else {
		var err error
		hdr, window, err = syncToFrame(s.r)
		if err != nil {
			return nil, err
		}
	}

	rest := hdr.FrameSize - 4
	if rest < 0 {
		return nil, errors.New("mp3: invalid frame size")
	}
	data := make([]byte, hdr.FrameSize)
	copy(data, window[:])
	if err := s.r.ReadFull(data[4:]); err != nil {
		return nil, err
	}

	return &engine.Packet{TrackID: 0, Data: data}, nil
}

// Seek implements engine.Reader. MP3 elementary streams carry no sample-
// accurate index by default; Seek always returns ErrSeekUnseekable and
// leaves the stream where it is.
func (s *Stream) Seek(mode engine.SeekMode, to engine.SeekTo) (engine.SeekedTo, error) {
	return engine.SeekedTo{}, engine.ErrSeekUnseekable
}

// Close implements engine.Reader. The underlying bufseekio.Stream has no
// close semantics of its own; closing the original io.Reader, if needed,
// is the caller's responsibility.
func (s *Stream) Close() error { return nil }

var _ engine.Reader = (*Stream)(nil)
